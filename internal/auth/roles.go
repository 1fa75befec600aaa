package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// IsAdminEmail reports whether email ends with one of the configured admin
// domains, compared case-insensitively. The result overrides the stored
// role on read and is never persisted.
func IsAdminEmail(email string, domains []string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && strings.HasSuffix(email, d) {
			return true
		}
	}
	return false
}

// RequireAuthenticated ensures a principal is attached to the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, ok := PrincipalFromContext(c); !ok || p.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the principal resolves to an admin actor.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok || p.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !p.User.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
