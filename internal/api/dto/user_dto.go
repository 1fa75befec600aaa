package dto

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// SignUpRequest payload for new accounts.
type SignUpRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	StudentID  *string `json:"student_id"`
	Department *string `json:"department"`
	Year       *string `json:"year"`
}

// SignInRequest payload for login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ConfirmEmailRequest carries the token from the confirmation mail.
type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is a profile as seen by clients.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	StudentID  *string     `json:"student_id,omitempty"`
	Department *string     `json:"department,omitempty"`
	Year       *string     `json:"year,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
