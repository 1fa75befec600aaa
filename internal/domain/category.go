package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// UnknownLabel is shown for references that no longer resolve.
const UnknownLabel = "Unknown"

// CategoryRef references a Category by id.
type CategoryRef string

// Category groups items. Inactive categories stay attached to existing items.
type Category struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// CategoryPatch carries the fields of a partial category update.
type CategoryPatch struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// Validate checks required fields before a category is submitted.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.NewValidationError("category name required", map[string]any{"missing": []string{"name"}})
	}
	return nil
}

// Validate rejects a patch that would blank the name.
func (p CategoryPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperrors.NewValidationError("category name required", map[string]any{"missing": []string{"name"}})
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.IsActive == nil
}

// ActiveCategories returns the categories offerable when posting an item.
func ActiveCategories(categories []Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// ResolveCategory looks a reference up in categories.
func ResolveCategory(categories []Category, ref CategoryRef) (Category, bool) {
	for _, c := range categories {
		if c.ID == string(ref) {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryLabel returns the category name or UnknownLabel for a dangling reference.
func CategoryLabel(categories []Category, ref CategoryRef) string {
	if c, ok := ResolveCategory(categories, ref); ok {
		return c.Name
	}
	return UnknownLabel
}
