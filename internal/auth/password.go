package auth

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// ValidatePassword rejects passwords too short to hash.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": MinPasswordLength})
	}
	return nil
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
