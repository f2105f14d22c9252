package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultCacheContract exercises the behaviors every ResultCache
// implementation must honor. Adapter packages call it from their own
// tests against a live instance.
func RunResultCacheContract(t *testing.T, cache ResultCache) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Miss", func(t *testing.T) {
		_, found, err := cache.Get(ctx, key+"-absent")
		require.NoError(t, err)
		assert.False(t, found, "a key never set must be a miss, not an error")
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "42"))

		got, found, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "42", got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "first"))
		require.NoError(t, cache.Set(ctx, key, "second"))

		got, found, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "second", got)
	})

	t.Run("Empty value round-trips", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key+"-empty", ""))

		got, found, err := cache.Get(ctx, key+"-empty")
		require.NoError(t, err)
		require.True(t, found, "an empty cached value is still a hit")
		assert.Equal(t, "", got)
	})
}
