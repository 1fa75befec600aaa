package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// AuthHandler exposes sign-up, sign-in and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, session, err := h.auth.SignUp(c.UserContext(), service.SignUpInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		StudentID:  req.StudentID,
		Department: req.Department,
		Year:       req.Year,
	})
	if err != nil {
		return err
	}

	data := fiber.Map{
		"user":                  userResponse(user),
		"confirmation_required": session == nil,
	}
	if session != nil {
		data["auth"] = dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	session, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Confirm handles POST /auth/confirm and GET /auth/confirm?token=.
func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" && c.Method() == fiber.MethodPost {
		var req dto.ConfirmEmailRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		token = req.Token
	}
	if token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	user, err := h.auth.ConfirmEmail(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": userResponse(user), "confirmed": true}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Session == nil {
		return apperrors.NewUnauthorized("session required")
	}
	if err := h.auth.SignOut(c.UserContext(), *principal.Session); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("session required")
	}
	data := fiber.Map{"user": userResponse(principal.User)}
	if principal.Session != nil {
		data["expires_at"] = principal.Session.ExpiresAt
	}
	return c.JSON(fiber.Map{"data": data})
}
