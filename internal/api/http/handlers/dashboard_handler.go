package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/stats"
)

// DashboardHandler serves the dashboard counters.
type DashboardHandler struct {
	data DataProvider
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(data DataProvider) *DashboardHandler {
	return &DashboardHandler{data: data}
}

// Stats handles GET /dashboard/stats. Message and category counters and
// the recent messages are only reported to admins.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	dc, err := dataFor(c, h.data)
	if err != nil {
		return err
	}
	s := dc.Stats()
	resp := dto.DashboardStatsResponse{
		TotalLostItems:    s.TotalLostItems,
		TotalFoundItems:   s.TotalFoundItems,
		TotalClaimedItems: s.TotalClaimedItems,
		TotalPendingItems: s.TotalPendingItems,
	}
	recent := dc.Recent(stats.RecentLimit)
	resp.RecentItems = make([]dto.ItemResponse, 0, len(recent.Items))
	for i := range recent.Items {
		resp.RecentItems = append(resp.RecentItems, itemResponse(&recent.Items[i], dc.CategoryLabel(recent.Items[i].Category)))
	}
	if dc.Actor().IsAdmin() {
		resp.TotalMessages = &s.TotalMessages
		resp.ActiveCategories = &s.ActiveCategories
		resp.InactiveCategories = &s.InactiveCategories
		resp.RecentMessages = make([]dto.MessageResponse, 0, len(recent.Messages))
		for i := range recent.Messages {
			resp.RecentMessages = append(resp.RecentMessages, messageResponse(&recent.Messages[i]))
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}
