package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// CategoriesHandler serves category endpoints.
type CategoriesHandler struct {
	data DataProvider
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(data DataProvider) *CategoriesHandler {
	return &CategoriesHandler{data: data}
}

// List returns every category. ?refresh=true relists from the store first.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	categories := dc.Categories()
	if c.QueryBool("refresh") {
		if categories, err = dc.RefreshCategories(c.UserContext()); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": categoryResponses(categories)})
}

// ListActive returns the categories offered when posting an item.
func (h *CategoriesHandler) ListActive(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponses(dc.ActiveCategories())})
}

// Create handles POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	created, err := dc.CreateCategory(c.UserContext(), domain.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(created)})
}

// Update handles PATCH /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := domain.CategoryPatch{Name: req.Name, Description: req.Description, IsActive: req.IsActive}
	if patch.Empty() {
		return apperrors.NewValidationError("no fields to update", nil)
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	updated, err := dc.UpdateCategory(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(updated)})
}

// Delete handles DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	if err := dc.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
