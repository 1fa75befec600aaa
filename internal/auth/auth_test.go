package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

var adminDomains = []string{"@tracecloud.rit.edu", "ritchennai.edu.in"}

func TestIsAdminEmail(t *testing.T) {
	cases := map[string]bool{
		"dean@tracecloud.rit.edu":       true,
		"DEAN@TraceCloud.RIT.edu ":      true,
		"staff@ritchennai.edu.in":       true,
		"staff@cs.ritchennai.edu.in":    true,
		"student@rit.edu":               false,
		"someone@nottracecloud.rit.edu": false,
		"":                              false,
	}
	for email, want := range cases {
		assert.Equal(t, want, IsAdminEmail(email, adminDomains), email)
	}
	assert.False(t, IsAdminEmail("dean@tracecloud.rit.edu", nil))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, expires, err := tm.GenerateToken("u-1", "s-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "s-1", claims.SessionID)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	now := time.Now()
	tm.now = func() time.Time { return now }
	token, _, err := tm.GenerateToken("u-1", "s-1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	assert.True(t, apperrors.HasCode(ValidatePassword("abc"), apperrors.CodeValidation))
	require.NoError(t, ValidatePassword("abcdef"))

	hash, err := HashPassword("abcdef", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "abcdef"))
	assert.Error(t, ComparePassword(hash, "abcdeg"))
}

type stubAuthenticator struct {
	principals map[string]*Principal
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*Principal, error) {
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, errors.New("unknown token")
}

func newTestApp() *fiber.App {
	mw := NewAuthMiddleware(stubAuthenticator{principals: map[string]*Principal{
		"admin":   {Session: &domain.Session{ID: "s-a"}, User: &domain.User{ID: "a", Role: domain.RoleAdmin}},
		"student": {Session: &domain.Session{ID: "s-s"}, User: &domain.User{ID: "s", Role: domain.RoleStudent}},
	}})

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).SendString(de.Code)
	}})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/me", mw.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.ID)
	})
	app.Get("/open", mw.Optional, func(c *fiber.Ctx) error {
		if p, ok := PrincipalFromContext(c); ok {
			return c.SendString(p.User.ID)
		}
		return c.SendString("anonymous")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMiddlewareGates(t *testing.T) {
	app := newTestApp()

	status, body := doRequest(t, app, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, body)

	status, body = doRequest(t, app, "/admin", "student")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, body)

	status, _ = doRequest(t, app, "/admin", "admin")
	assert.Equal(t, http.StatusOK, status)

	status, body = doRequest(t, app, "/me", "bogus")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, body)

	_, body = doRequest(t, app, "/me", "student")
	assert.Equal(t, "s", body)
}

func TestOptionalAuth(t *testing.T) {
	app := newTestApp()

	_, body := doRequest(t, app, "/open", "")
	assert.Equal(t, "anonymous", body)

	_, body = doRequest(t, app, "/open", "bogus")
	assert.Equal(t, "anonymous", body)

	_, body = doRequest(t, app, "/open", "admin")
	assert.Equal(t, "a", body)
}
