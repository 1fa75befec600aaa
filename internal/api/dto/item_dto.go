package dto

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// CreateItemRequest payload, accepted as JSON or multipart form. A photo
// travels in the multipart "image" file field.
type CreateItemRequest struct {
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	Category     string `json:"category" form:"category"`
	Status       string `json:"status" form:"status"`
	Date         string `json:"date" form:"date"`
	Location     string `json:"location" form:"location"`
	ContactEmail string `json:"contact_email" form:"contact_email"`
}

// UpdateItemRequest payload; omitted fields are left unchanged. An empty
// image removes the photo reference.
type UpdateItemRequest struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Category     *string            `json:"category"`
	Status       *domain.ItemStatus `json:"status"`
	Date         *time.Time         `json:"date"`
	Location     *string            `json:"location"`
	Image        *string            `json:"image"`
	ContactEmail *string            `json:"contact_email"`
}

// ItemListQuery captures the browse filters.
type ItemListQuery struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Status   string `query:"status"`
	Refresh  bool   `query:"refresh"`
}

// ItemResponse response.
type ItemResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Category       string             `json:"category"`
	CategoryName   string             `json:"category_name"`
	Status         domain.ItemStatus  `json:"status"`
	PreviousStatus *domain.ItemStatus `json:"previous_status,omitempty"`
	Date           time.Time          `json:"date"`
	Location       string             `json:"location"`
	Image          *string            `json:"image"`
	ContactEmail   string             `json:"contact_email"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
}
