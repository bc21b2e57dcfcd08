package models

import "time"

// Account roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// Account is a credential record. ResetTokenHash and ResetTokenExpiresAt are
// either both set or both nil.
type Account struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               *string    `json:"email,omitempty"`
	Role                string     `json:"role"`
	PasswordHash        string     `json:"-"`
	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (a *Account) HasPendingReset(now time.Time) bool {
	return a.ResetTokenHash != nil && a.ResetTokenExpiresAt != nil && a.ResetTokenExpiresAt.After(now)
}
