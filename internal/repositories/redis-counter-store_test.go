package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "project-registry/pkg/errors"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisCounterStore_Increment(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisCounterStore(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "projectCode:PRJ:2026")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	other, err := store.Increment(ctx, "projectCode:PRJ:2027")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)

	raw, err := mr.Get("seq:projectCode:PRJ:2026")
	require.NoError(t, err)
	assert.Equal(t, "3", raw)
}

func TestRedisCounterStore_ConcurrentUnique(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisCounterStore(client)

	const n = 100
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.Increment(context.Background(), "k")
			assert.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "пропущено значение %d", i)
	}
}

func TestRedisCounterStore_CurrentAndFloor(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisCounterStore(client)
	ctx := context.Background()

	current, err := store.Current(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, current)

	value, err := store.EnsureFloor(ctx, "k", 137)
	require.NoError(t, err)
	assert.Equal(t, int64(137), value)

	// ниже текущего не опускается
	value, err = store.EnsureFloor(ctx, "k", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(137), value)

	next, err := store.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(138), next)
	assert.Equal(t, "redis", store.Backend())
}

func TestRedisCounterStore_Unavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisCounterStore(client)
	mr.Close()

	_, err := store.Increment(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
