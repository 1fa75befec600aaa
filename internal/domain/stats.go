package domain

// DashboardStats summarizes the catalog. It is derived, never stored.
type DashboardStats struct {
	TotalLostItems     int
	TotalFoundItems    int
	TotalClaimedItems  int
	TotalPendingItems  int
	TotalMessages      int
	ActiveCategories   int
	InactiveCategories int
}
