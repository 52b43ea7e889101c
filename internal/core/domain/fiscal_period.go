package domain

import "time"

// FiscalPeriod is one accounting period of a company. Locking a period is the
// trigger for locking every voucher and entry dated inside it.
type FiscalPeriod struct {
	PeriodID    string     `json:"periodID"`
	CompanyCode string     `json:"companyCode"`
	PeriodType  string     `json:"periodType"` // MONTH, QUARTER, YEAR
	Year        int        `json:"year"`
	PeriodValue int        `json:"periodValue"` // 1-12 for months, 1-4 for quarters
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	IsLocked    bool       `json:"isLocked"`
	LockType    LockStatus `json:"lockType,omitempty"`
	LockedAt    *time.Time `json:"lockedAt,omitempty"`
	LockedBy    string     `json:"lockedBy,omitempty"`
	AuditFields
}

// Lock freezes the period. Same unconditional semantics as entity locking.
func (p FiscalPeriod) Lock(lockType LockStatus, lockedBy string) FiscalPeriod {
	now := time.Now().UTC()
	p.IsLocked = true
	p.LockType = lockType
	p.LockedAt = &now
	p.LockedBy = lockedBy
	return p
}

// LockStatusForPeriodType maps a period type to the lock status recorded on
// the vouchers and entries inside the period.
func LockStatusForPeriodType(periodType string) LockStatus {
	switch periodType {
	case "MONTH":
		return LockMonth
	case "QUARTER":
		return LockQuarter
	case "YEAR":
		return LockYear
	default:
		return LockManual
	}
}
