package cache_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/smilefnb/smile_backend/cache"
	"github.com/smilefnb/smile_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledStore(t *testing.T) {
	store := cache.NewStore(cache.Options{})
	ctx := context.Background()

	assert.False(t, store.Enabled())

	_, err := store.Size(ctx)
	assert.ErrorIs(t, err, utils.ErrorCacheUnavailable)

	_, _, err = store.Get(ctx)
	assert.ErrorIs(t, err, utils.ErrorCacheUnavailable)

	assert.ErrorIs(t, store.Set(ctx, map[string]any{"a": 1}), utils.ErrorCacheUnavailable)
	assert.ErrorIs(t, store.Clear(ctx), utils.ErrorCacheUnavailable)
	assert.NoError(t, store.Close())
}

func TestUnreachableAddressDegradesToDisabled(t *testing.T) {
	store := cache.NewStore(cache.Options{Addr: "127.0.0.1:1"})
	assert.False(t, store.Enabled())
}

func TestStoreRoundTrip(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDRESS"))
	if addr == "" {
		t.Skip("set REDIS_ADDRESS to run redis-backed cache tests")
	}

	store := cache.NewStore(cache.Options{
		Addr:     addr,
		Username: os.Getenv("REDIS_USERNAME"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	require.True(t, store.Enabled())
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Clear(ctx))

	_, found, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, map[string]any{"orders": []any{"Pho"}}))

	value, found, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	decoded, ok := value.(map[string]any)
	require.True(t, ok, "expected JSON object, got %T", value)
	assert.Contains(t, decoded, "orders")

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, size)

	require.NoError(t, store.Clear(ctx))
	size, err = store.Size(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, size)
}
