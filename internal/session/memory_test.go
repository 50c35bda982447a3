package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, Session{ID: "a", UserID: 7, BarbershopID: 1, Role: "owner"}, time.Hour))
	require.NoError(t, store.Save(ctx, Session{ID: "b", UserID: 7, BarbershopID: 1, Role: "owner"}, time.Hour))
	require.NoError(t, store.Save(ctx, Session{ID: "c", UserID: 8, BarbershopID: 1, Role: "barber"}, time.Hour))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	require.NoError(t, store.Revoke(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.RevokeAllForUser(ctx, 7))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, Session{ID: "x", UserID: 1}, 30*time.Minute))

	now = now.Add(31 * time.Minute)
	_, err := store.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
