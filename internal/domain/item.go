package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// ItemStatus enumerates where a reported item stands.
type ItemStatus string

const (
	ItemStatusLost    ItemStatus = "lost"
	ItemStatusFound   ItemStatus = "found"
	ItemStatusClaimed ItemStatus = "claimed"
)

// Valid reports whether s is a known status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusLost, ItemStatusFound, ItemStatusClaimed:
		return true
	}
	return false
}

// Item is a lost or found report.
type Item struct {
	ID             string
	Title          string
	Description    string
	Category       CategoryRef
	Status         ItemStatus
	PreviousStatus *ItemStatus
	Date           time.Time
	Location       string
	Image          *string
	ContactEmail   string
	CreatedBy      UserRef
	CreatedAt      time.Time
}

// ItemPatch carries the fields of a partial item update.
type ItemPatch struct {
	Title          *string
	Description    *string
	Category       *CategoryRef
	Status         *ItemStatus
	PreviousStatus *ItemStatus
	Date           *time.Time
	Location       *string
	Image          *string
	ContactEmail   *string
}

// Validate checks required fields before an item is submitted.
func (i Item) Validate() error {
	var missing []string
	if strings.TrimSpace(i.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(i.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(string(i.Category)) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(i.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(i.ContactEmail) == "" {
		missing = append(missing, "contact_email")
	}
	if strings.TrimSpace(string(i.CreatedBy)) == "" {
		missing = append(missing, "created_by")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required item fields", map[string]any{"missing": missing})
	}
	if !i.Status.Valid() {
		return apperrors.NewValidationError("invalid item status", map[string]any{"status": string(i.Status)})
	}
	return nil
}

// Validate rejects a patch that would blank a required field or set an unknown status.
func (p ItemPatch) Validate() error {
	var missing []string
	blank := func(name string, v *string) {
		if v != nil && strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}
	blank("title", p.Title)
	blank("description", p.Description)
	blank("location", p.Location)
	blank("contact_email", p.ContactEmail)
	if p.Category != nil && strings.TrimSpace(string(*p.Category)) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("required item fields cannot be blank", map[string]any{"missing": missing})
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperrors.NewValidationError("invalid item status", map[string]any{"status": string(*p.Status)})
	}
	return nil
}

// OwnedBy reports whether the item was posted by user.
func (i Item) OwnedBy(user *User) bool {
	return user != nil && i.CreatedBy == user.Ref()
}

// ClaimToggle computes the patch that flips an item between claimed and
// its pre-claim status. Claiming records the current status; unclaiming
// restores it, defaulting to found when no lost/found history is recorded.
func ClaimToggle(item Item) ItemPatch {
	if item.Status != ItemStatusClaimed {
		prior := item.Status
		claimed := ItemStatusClaimed
		return ItemPatch{Status: &claimed, PreviousStatus: &prior}
	}
	target := ItemStatusFound
	if item.PreviousStatus != nil && (*item.PreviousStatus == ItemStatusLost || *item.PreviousStatus == ItemStatusFound) {
		target = *item.PreviousStatus
	}
	return ItemPatch{Status: &target}
}

// StatusTab selects items on the browse page. The zero value means all.
type StatusTab string

const StatusTabAll StatusTab = "all"

// ItemFilter narrows the item catalog. Empty fields match everything.
type ItemFilter struct {
	Search     string
	CategoryID string
	Status     StatusTab
}

// Matches reports whether item passes the filter. Search is a
// case-insensitive substring test over title, description and location.
func (f ItemFilter) Matches(item Item) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(item.Title), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) &&
			!strings.Contains(strings.ToLower(item.Location), term) {
			return false
		}
	}
	if f.CategoryID != "" && f.CategoryID != "all" && string(item.Category) != f.CategoryID {
		return false
	}
	if f.Status != "" && f.Status != StatusTabAll && string(item.Status) != string(f.Status) {
		return false
	}
	return true
}

// FilterItems returns the items matching f, preserving order.
func FilterItems(items []Item, f ItemFilter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}
