package domain

import "time"

// AuditAction enumerates the recorded state changes. Circular 99/2025 requires
// a full audit trail for every mutation of bookkeeping data.
type AuditAction string

const (
	AuditCreate      AuditAction = "CREATE"
	AuditUpdate      AuditAction = "UPDATE"
	AuditDelete      AuditAction = "DELETE"
	AuditSign        AuditAction = "SIGN"
	AuditLock        AuditAction = "LOCK"
	AuditPost        AuditAction = "POST"
	AuditLogin       AuditAction = "LOGIN"
	AuditLoginFailed AuditAction = "LOGIN_FAILED"
)

// AuditLog is one immutable audit-trail record. Old/new values are JSON
// snapshots captured by the caller of the state-changing operation.
type AuditLog struct {
	AuditID    string      `json:"auditID"`
	UserID     string      `json:"userID"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entityType"` // AccountingVoucher, JournalEntry, Account, ...
	EntityID   string      `json:"entityID"`
	OldValue   string      `json:"oldValue,omitempty"`
	NewValue   string      `json:"newValue,omitempty"`
	IPAddress  string      `json:"ipAddress,omitempty"`
	UserAgent  string      `json:"userAgent,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}
