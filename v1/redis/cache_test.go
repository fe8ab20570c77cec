package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/registry"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*PlacementCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(Config{Host: mr.Host(), Port: port, TTL: time.Hour}, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewPlacementCache(client), mr
}

func TestPlacementCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, ok)

	p := registry.Placement{Namespace: "doc-1", IndexName: "index-1a2b3c4d", Project: "QA1"}
	require.NoError(t, cache.Set(ctx, p))

	got, ok, err := cache.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, p, got)

	key := DefaultKeyPrefix + "doc-1"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, ok, err = cache.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, ok, "entry expires after its TTL")
}

func TestPlacementCacheCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	require.NoError(t, mr.Set(DefaultKeyPrefix+"doc-2", "{not json"))

	_, ok, err := cache.Get(context.Background(), "doc-2")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPlacementCacheServerDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "doc-1")
	assert.Error(t, err)
}
