package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-registry/pkg/config"
	apperrors "project-registry/pkg/errors"
)

func TestSequenceRepository_Integration_Increment(t *testing.T) {
	pool := requirePool(t)
	repo := NewSequenceRepository()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Increment(ctx, pool, "projectCode:PRJ:2026")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	current, err := repo.Current(ctx, pool, "projectCode:PRJ:2026")
	require.NoError(t, err)
	assert.Equal(t, int64(3), current)

	missing, err := repo.Current(ctx, pool, "projectCode:PRJ:1999")
	require.NoError(t, err)
	assert.Zero(t, missing)

	counter, err := repo.Find(ctx, pool, "projectCode:PRJ:2026")
	require.NoError(t, err)
	assert.Equal(t, "projectCode:PRJ:2026", counter.PartitionKey)
	assert.False(t, counter.UpdatedAt.Before(counter.CreatedAt))

	_, err = repo.Find(ctx, pool, "projectCode:PRJ:1999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSequenceRepository_Integration_CompareAndSwap(t *testing.T) {
	pool := requirePool(t)
	repo := NewSequenceRepository()
	ctx := context.Background()

	first, err := repo.CompareAndSwap(ctx, pool, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := repo.CompareAndSwap(ctx, pool, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}

func TestSequenceRepository_Integration_EnsureFloor(t *testing.T) {
	pool := requirePool(t)
	repo := NewSequenceRepository()
	ctx := context.Background()

	value, err := repo.EnsureFloor(ctx, pool, "k", 137)
	require.NoError(t, err)
	assert.Equal(t, int64(137), value)

	value, err = repo.EnsureFloor(ctx, pool, "k", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(137), value)

	next, err := repo.Increment(ctx, pool, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(138), next)
}

func TestPostgresCounterStore_Integration_ConcurrentUnique(t *testing.T) {
	pool := requirePool(t)

	for _, strategy := range []string{config.StrategyUpsert, config.StrategyCAS} {
		t.Run(strategy, func(t *testing.T) {
			store := NewPostgresCounterStore(pool, NewSequenceRepository(), strategy)
			key := "concurrent:" + strategy

			const n = 100
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				seen      = make(map[int64]bool, n)
				conflicts int
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						v, err := store.Increment(context.Background(), key)
						if apperrors.IsContention(err) {
							mu.Lock()
							conflicts++
							mu.Unlock()
							continue
						}
						if !assert.NoError(t, err) {
							return
						}
						mu.Lock()
						assert.False(t, seen[v], "значение %d выдано дважды", v)
						seen[v] = true
						mu.Unlock()
						return
					}
				}()
			}
			wg.Wait()

			assert.Len(t, seen, n)
			for i := int64(1); i <= n; i++ {
				assert.True(t, seen[i])
			}
			if strategy == config.StrategyUpsert {
				assert.Zero(t, conflicts)
			}
			t.Logf("%s: конфликтов %d", store.Backend(), conflicts)
		})
	}
}
