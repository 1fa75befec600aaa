package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

func TestComputeOneOfEachStatus(t *testing.T) {
	items := []domain.Item{
		{Status: domain.ItemStatusLost},
		{Status: domain.ItemStatusFound},
		{Status: domain.ItemStatusClaimed},
	}

	s := Compute(items, nil, nil)

	assert.Equal(t, 1, s.TotalLostItems)
	assert.Equal(t, 1, s.TotalFoundItems)
	assert.Equal(t, 1, s.TotalClaimedItems)
	assert.Equal(t, 2, s.TotalPendingItems)
}

func TestPendingNeverCountsClaimed(t *testing.T) {
	cases := [][]domain.ItemStatus{
		{},
		{domain.ItemStatusClaimed, domain.ItemStatusClaimed},
		{domain.ItemStatusLost, domain.ItemStatusLost, domain.ItemStatusClaimed},
		{domain.ItemStatusFound, domain.ItemStatusClaimed, domain.ItemStatusFound, domain.ItemStatusLost},
	}
	for _, statuses := range cases {
		items := make([]domain.Item, 0, len(statuses))
		for _, st := range statuses {
			items = append(items, domain.Item{Status: st})
		}
		s := Compute(items, nil, nil)
		assert.Equal(t, s.TotalLostItems+s.TotalFoundItems, s.TotalPendingItems, "statuses %v", statuses)
		assert.Equal(t, len(items), s.TotalPendingItems+s.TotalClaimedItems)
	}
}

func TestMessagesAndCategories(t *testing.T) {
	messages := []domain.Message{
		{Subject: "Where is lost property?"},
		{Subject: domain.FeedbackSubject(domain.RoleStudent)},
	}
	categories := []domain.Category{{IsActive: true}, {IsActive: false}, {IsActive: true}}

	s := Compute(nil, categories, messages)

	assert.Equal(t, 2, s.TotalMessages)
	assert.Equal(t, 2, s.ActiveCategories)
	assert.Equal(t, 1, s.InactiveCategories)
}

func TestRecentItemsNewestFirstAndCapped(t *testing.T) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	var items []domain.Item
	for i, day := range []int{3, 7, 1, 5, 6, 2, 4} {
		items = append(items, domain.Item{ID: string(rune('a' + i)), Date: base.AddDate(0, 0, day)})
	}

	got := RecentItems(items, RecentLimit)
	require.Len(t, got, RecentLimit)
	var days []int
	for _, it := range got {
		days = append(days, it.Date.Day()-1)
	}
	assert.Equal(t, []int{7, 6, 5, 4, 3}, days)
	assert.Equal(t, base.AddDate(0, 0, 3), items[0].Date, "input is left untouched")
}

func TestRecentMessagesKeepsTiesInOrder(t *testing.T) {
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	messages := []domain.Message{
		{ID: "m1", Date: day},
		{ID: "m2", Date: day.Add(time.Hour)},
		{ID: "m3", Date: day},
	}

	got := RecentMessages(messages, 10)
	require.Len(t, got, 3)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m1", got[1].ID)
	assert.Equal(t, "m3", got[2].ID)
	assert.Empty(t, RecentMessages(messages, 0))
	assert.Empty(t, RecentItems(nil, RecentLimit))
}
