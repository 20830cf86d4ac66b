package domain

import "time"

// Role for coarse access control
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an account, keyed by email.
// Accounts are created on sign-up or lazily on a first registration
// carrying a previously unseen email.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// RegistrationCount is populated on listings, not stored
	RegistrationCount int `json:"registration_count,omitempty"`
}

// IsAdmin reports whether the user may access the back office
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the name to address the user by in emails
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Claims carried inside access tokens
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
