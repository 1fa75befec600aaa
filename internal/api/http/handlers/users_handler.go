package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
)

// UsersHandler lists registered profiles for admins.
type UsersHandler struct {
	data DataProvider
}

// NewUsersHandler constructs handler.
func NewUsersHandler(data DataProvider) *UsersHandler {
	return &UsersHandler{data: data}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	users, err := dc.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}
