package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
)

// DataProvider hands out the DataContext serving a caller. A nil principal
// gets the anonymous context.
type DataProvider interface {
	DataFor(ctx context.Context, p *auth.Principal) (*service.DataContext, error)
}

func dataFor(c *fiber.Ctx, provider DataProvider) (*service.DataContext, error) {
	principal, _ := auth.PrincipalFromContext(c)
	return provider.DataFor(c.UserContext(), principal)
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		StudentID:  u.StudentID,
		Department: u.Department,
		Year:       u.Year,
		CreatedAt:  u.CreatedAt,
	}
}

func categoryResponse(c *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func categoryResponses(categories []domain.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, categoryResponse(&categories[i]))
	}
	return out
}

func itemResponse(it *domain.Item, categoryName string) dto.ItemResponse {
	return dto.ItemResponse{
		ID:             it.ID,
		Title:          it.Title,
		Description:    it.Description,
		Category:       string(it.Category),
		CategoryName:   categoryName,
		Status:         it.Status,
		PreviousStatus: it.PreviousStatus,
		Date:           it.Date,
		Location:       it.Location,
		Image:          it.Image,
		ContactEmail:   it.ContactEmail,
		CreatedBy:      string(it.CreatedBy),
		CreatedAt:      it.CreatedAt,
	}
}

func messageResponse(m *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Subject:    m.Subject,
		Message:    m.Body,
		Date:       m.Date,
		IsRead:     m.IsRead,
		IsFeedback: m.IsFeedback(),
		CreatedAt:  m.CreatedAt,
	}
}
