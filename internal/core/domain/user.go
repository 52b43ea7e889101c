package domain

import "time"

// UserRole is the accounting role assigned to a user. The role-to-permission
// mapping lives with the authorization layer; the bookkeeping core never
// queries it.
type UserRole string

const (
	RoleAdmin             UserRole = "ADMIN"
	RoleAccountingManager UserRole = "ACC_MGR"
	RoleAccountant        UserRole = "ACCOUNTANT"
	RoleViewer            UserRole = "VIEWER"
	RoleAuditor           UserRole = "AUDITOR"
)

// User is an authenticated operator of the system.
type User struct {
	UserID              string     `json:"userID"`
	Username            string     `json:"username"`
	Email               string     `json:"email,omitempty"`
	FullName            string     `json:"fullName,omitempty"`
	PasswordHash        string     `json:"-"`
	Role                UserRole   `json:"role"`
	CompanyCode         string     `json:"companyCode"`
	IsActive            bool       `json:"isActive"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
	AuditFields
}

// IsLoginLocked reports whether the account is temporarily locked out after
// repeated failed logins.
func (u User) IsLoginLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
