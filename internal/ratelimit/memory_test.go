package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salwynchristopher/portfolio/internal/logging"
)

func TestMemoryStoreSweep(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err = store.Hit(ctx, "old", start, time.Hour, 5)
	require.NoError(t, err)
	_, err = store.Hit(ctx, "recent", start.Add(30*time.Minute), time.Hour, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	removed, err := store.Sweep(start.Add(70*time.Minute), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	res, err := store.Hit(ctx, "recent", start.Add(71*time.Minute), time.Hour, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.True(t, start.Add(30*time.Minute).Equal(res.Oldest), "oldest = %s", res.Oldest)
}

func TestMemoryStoreOldestIsUTC(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	_, err = store.Hit(ctx, "zoned", start, time.Hour, 5)
	require.NoError(t, err)
	res, err := store.Hit(ctx, "zoned", start.Add(time.Minute), time.Hour, 5)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, res.Oldest.Location())
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), res.Oldest)
}

func TestSweeperRun(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err = store.Hit(context.Background(), "idle", start, time.Hour, 5)
	require.NoError(t, err)

	sweeper := NewSweeper(store, time.Hour, time.Minute, logging.NewNop())
	sweeper.clock = func() time.Time { return start.Add(2 * time.Hour) }
	sweeper.Run()

	assert.Equal(t, 0, store.Len())
}
