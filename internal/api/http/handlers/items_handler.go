package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

const imageField = "image"

// ItemsHandler serves lost and found item endpoints.
type ItemsHandler struct {
	data DataProvider
}

// NewItemsHandler constructs handler.
func NewItemsHandler(data DataProvider) *ItemsHandler {
	return &ItemsHandler{data: data}
}

// List handles GET /items with optional search, category and status filters.
func (h *ItemsHandler) List(c *fiber.Ctx) error {
	var q dto.ItemListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	if q.Refresh {
		if _, err := dc.RefreshItems(c.UserContext()); err != nil {
			return err
		}
	}

	items := dc.Items(domain.ItemFilter{
		Search:     q.Search,
		CategoryID: q.Category,
		Status:     domain.StatusTab(q.Status),
	})
	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, itemResponse(&items[i], dc.CategoryLabel(items[i].Category)))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /items/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	item, err := dc.Item(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(&item, dc.CategoryLabel(item.Category))})
}

// Create handles POST /items. Multipart bodies may carry a photo in the
// "image" field.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	date, err := parseItemDate(req.Date)
	if err != nil {
		return err
	}
	photo, err := readPhoto(c)
	if err != nil {
		return err
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	status := domain.ItemStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = domain.ItemStatusLost
	}
	created, err := dc.CreateItem(c.UserContext(), service.ItemInput{
		Item: domain.Item{
			Title:        req.Title,
			Description:  req.Description,
			Category:     domain.CategoryRef(req.Category),
			Status:       status,
			Date:         date,
			Location:     req.Location,
			ContactEmail: req.ContactEmail,
		},
		Photo: photo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itemResponse(created, dc.CategoryLabel(created.Category))})
}

// Update handles PATCH /items/:id. An empty image string removes the photo.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}

	patch := domain.ItemPatch{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Date:         req.Date,
		Location:     req.Location,
		Image:        req.Image,
		ContactEmail: req.ContactEmail,
	}
	if req.Category != nil {
		ref := domain.CategoryRef(*req.Category)
		patch.Category = &ref
	}

	updated, err := dc.UpdateItem(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(updated, dc.CategoryLabel(updated.Category))})
}

// Delete handles DELETE /items/:id.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	if err := dc.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ToggleClaim handles POST /items/:id/claim-toggle.
func (h *ItemsHandler) ToggleClaim(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	updated, err := dc.ToggleClaim(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(updated, dc.CategoryLabel(updated.Category))})
}

func parseItemDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidationError("invalid date", map[string]any{"date": raw})
}

func readPhoto(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	header, err := c.FormFile(imageField)
	if err != nil {
		return nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable image", nil)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable image", nil)
	}
	return data, nil
}
