package domain

import "time"

// Role is the coarse permission level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// UserRef references a User by id. Nothing enforces that the user exists.
type UserRef string

// User is a campus member profile resolved from an authenticated session.
type User struct {
	ID         string
	Name       string
	Email      string
	Role       Role
	StudentID  *string
	Department *string
	Year       *string
	CreatedAt  time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Ref returns a typed reference to the user.
func (u *User) Ref() UserRef {
	if u == nil {
		return ""
	}
	return UserRef(u.ID)
}

// SameActor reports whether a and b describe the same actor with the same role.
func SameActor(a, b *User) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID && a.Role == b.Role
}

// Account holds the credential side of a profile.
type Account struct {
	User             User
	PasswordHash     string
	EmailConfirmedAt *time.Time
}

// Confirmed reports whether the account's email has been verified.
func (a *Account) Confirmed() bool {
	return a != nil && a.EmailConfirmedAt != nil
}
