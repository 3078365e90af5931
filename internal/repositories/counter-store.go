package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"project-registry/pkg/config"
)

// CounterStoreInterface - долговременное хранилище счётчиков, с которым работает аллокатор.
// Increment должен сохранить новое значение до того, как вернуть его.
type CounterStoreInterface interface {
	Increment(ctx context.Context, key string) (int64, error)
	Current(ctx context.Context, key string) (int64, error)
	EnsureFloor(ctx context.Context, key string, floor int64) (int64, error)
	Backend() string
}

type postgresCounterStore struct {
	pool     *pgxpool.Pool
	repo     SequenceRepositoryInterface
	strategy string
}

// NewPostgresCounterStore: strategy "upsert" - атомарный инкремент, "cas" - сравнение с обменом.
func NewPostgresCounterStore(pool *pgxpool.Pool, repo SequenceRepositoryInterface, strategy string) CounterStoreInterface {
	return &postgresCounterStore{pool: pool, repo: repo, strategy: strategy}
}

func (s *postgresCounterStore) Increment(ctx context.Context, key string) (int64, error) {
	if s.strategy == config.StrategyCAS {
		return s.repo.CompareAndSwap(ctx, s.pool, key)
	}
	return s.repo.Increment(ctx, s.pool, key)
}

func (s *postgresCounterStore) Current(ctx context.Context, key string) (int64, error) {
	return s.repo.Current(ctx, s.pool, key)
}

func (s *postgresCounterStore) EnsureFloor(ctx context.Context, key string, floor int64) (int64, error) {
	return s.repo.EnsureFloor(ctx, s.pool, key, floor)
}

func (s *postgresCounterStore) Backend() string {
	return config.BackendPostgres + "/" + s.strategy
}
