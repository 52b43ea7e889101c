package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// LockStatus indicates how (or whether) a bookkeeping entity is frozen.
// Locking is monotonic: the core never transitions a locked entity back to OPEN.
type LockStatus string

const (
	LockOpen      LockStatus = "OPEN"
	LockMonth     LockStatus = "MONTH_LOCKED"
	LockQuarter   LockStatus = "QUARTER_LOCKED"
	LockYear      LockStatus = "YEAR_LOCKED"
	LockFinalized LockStatus = "FINALIZED"
	LockManual    LockStatus = "MANUAL"
)
