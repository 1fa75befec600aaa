package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

func TestMemorySessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	session := domain.Session{ID: "s-1", UserID: "u-1", Email: "a@example.edu", Token: "jwt", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Empty(t, got.Token)

	require.NoError(t, store.DeleteSession(ctx, "s-1"))
	_, err = store.GetSession(ctx, "s-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestMemorySessionExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore().(*memorySessionStore)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.SaveSession(ctx, domain.Session{ID: "s-1", ExpiresAt: now.Add(time.Minute)}))
	now = now.Add(2 * time.Minute)

	_, err := store.GetSession(ctx, "s-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestConfirmationIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.NoError(t, store.PutConfirmation(ctx, "tok", "u-1", time.Hour))
	userID, err := store.TakeConfirmation(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	_, err = store.TakeConfirmation(ctx, "tok")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
