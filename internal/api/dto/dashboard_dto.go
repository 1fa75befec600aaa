package dto

// DashboardStatsResponse response. Category and message totals are only
// filled in for admins.
type DashboardStatsResponse struct {
	TotalLostItems     int  `json:"total_lost_items"`
	TotalFoundItems    int  `json:"total_found_items"`
	TotalClaimedItems  int  `json:"total_claimed_items"`
	TotalPendingItems  int  `json:"total_pending_items"`
	TotalMessages      *int `json:"total_messages,omitempty"`
	ActiveCategories   *int `json:"active_categories,omitempty"`
	InactiveCategories *int `json:"inactive_categories,omitempty"`

	RecentItems    []ItemResponse    `json:"recent_items"`
	RecentMessages []MessageResponse `json:"recent_messages,omitempty"`
}
