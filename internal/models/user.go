package models

// UserRole represents the roles known to the system.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
)

// Valid reports whether the role is one of the supported values.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleStaff
}

// User is a local user record linked to an identity-provider subject.
// Users are created on first authenticated contact and never deleted.
type User struct {
	UserID  int64    `db:"user_id" json:"user_id"`
	Subject string   `db:"subject" json:"-"`
	Name    string   `db:"name" json:"name"`
	Email   string   `db:"email" json:"email"`
	Role    UserRole `db:"role" json:"role"`
}

// IsStaff reports whether the user holds the staff role.
func (u *User) IsStaff() bool {
	return u != nil && u.Role == RoleStaff
}

// UserSummary aggregates a user's open circulation state.
type UserSummary struct {
	Reservations int   `json:"reservations"`
	Loans        int   `json:"loans"`
	FeesCents    int64 `json:"fees_cents"`
}
