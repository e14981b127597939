package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "match:projects:1", []byte(`[1]`), time.Minute))

	data, ok, err := c.Get(ctx, "match:projects:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[1]`), data)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_InvalidatePrefix(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "match:similar:a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "match:similar:b", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "match:projects:a", []byte("3"), time.Minute))

	require.NoError(t, c.InvalidatePrefix(ctx, "match:similar:"))

	_, ok, _ := c.Get(ctx, "match:similar:a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "match:projects:a")
	assert.True(t, ok)
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
