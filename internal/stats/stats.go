// Package stats derives dashboard counters from the in-memory collections.
package stats

import (
	"slices"
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// Compute derives DashboardStats. Pending counts lost and found items only.
func Compute(items []domain.Item, categories []domain.Category, messages []domain.Message) domain.DashboardStats {
	var s domain.DashboardStats
	for _, it := range items {
		switch it.Status {
		case domain.ItemStatusLost:
			s.TotalLostItems++
		case domain.ItemStatusFound:
			s.TotalFoundItems++
		case domain.ItemStatusClaimed:
			s.TotalClaimedItems++
		}
	}
	s.TotalPendingItems = s.TotalLostItems + s.TotalFoundItems
	s.TotalMessages = len(messages)
	for _, c := range categories {
		if c.IsActive {
			s.ActiveCategories++
		} else {
			s.InactiveCategories++
		}
	}
	return s
}

// Key identifies the mirror versions a memoized result was computed from.
type Key struct {
	Categories uint64
	Items      uint64
	Messages   uint64
}

// RecentLimit is how many items and messages the dashboard lists.
const RecentLimit = 5

// RecentItems returns at most n items ordered by date, newest first.
// Items sharing a date keep their mirror order.
func RecentItems(items []domain.Item, n int) []domain.Item {
	return newest(items, n, func(it domain.Item) time.Time { return it.Date })
}

// RecentMessages returns at most n messages ordered by date, newest first.
func RecentMessages(messages []domain.Message, n int) []domain.Message {
	return newest(messages, n, func(m domain.Message) time.Time { return m.Date })
}

func newest[T any](rows []T, n int, date func(T) time.Time) []T {
	if n <= 0 {
		return []T{}
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return date(b).Compare(date(a))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
