package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"project-registry/internal/entities"
	apperrors "project-registry/pkg/errors"
)

const (
	incrementCounterQuery = `
		INSERT INTO sequence_counters (partition_key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (partition_key) DO UPDATE
			SET last_value = sequence_counters.last_value + 1,
			    updated_at = now()
		RETURNING last_value`

	selectCounterQuery = `SELECT last_value FROM sequence_counters WHERE partition_key = $1`

	findCounterQuery = `
		SELECT partition_key, last_value, created_at, updated_at
		FROM sequence_counters WHERE partition_key = $1`

	insertFirstCounterQuery = `
		INSERT INTO sequence_counters (partition_key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (partition_key) DO NOTHING`

	compareAndSwapCounterQuery = `
		UPDATE sequence_counters
		SET last_value = $3, updated_at = now()
		WHERE partition_key = $1 AND last_value = $2`

	ensureFloorQuery = `
		INSERT INTO sequence_counters (partition_key, last_value)
		VALUES ($1, $2)
		ON CONFLICT (partition_key) DO UPDATE
			SET last_value = GREATEST(sequence_counters.last_value, EXCLUDED.last_value),
			    updated_at = now()
		RETURNING last_value`
)

// SequenceRepositoryInterface - единственный код, который пишет sequence_counters.last_value.
type SequenceRepositoryInterface interface {
	// Increment - атомарный инкремент одним оператором (строка блокируется до конца транзакции).
	Increment(ctx context.Context, q Querier, key string) (int64, error)
	// CompareAndSwap читает значение и пишет value+1 только если оно не изменилось.
	// Проигранная гонка возвращает ErrConflict.
	CompareAndSwap(ctx context.Context, q Querier, key string) (int64, error)
	Current(ctx context.Context, q Querier, key string) (int64, error)
	Find(ctx context.Context, q Querier, key string) (*entities.SequenceCounter, error)
	EnsureFloor(ctx context.Context, q Querier, key string, floor int64) (int64, error)
}

type sequenceRepository struct{}

func NewSequenceRepository() SequenceRepositoryInterface {
	return &sequenceRepository{}
}

func (r *sequenceRepository) Increment(ctx context.Context, q Querier, key string) (int64, error) {
	var value int64
	if err := q.QueryRow(ctx, incrementCounterQuery, key).Scan(&value); err != nil {
		return 0, fmt.Errorf("инкремент счётчика %q: %w", key, apperrors.Classify(err))
	}
	return value, nil
}

func (r *sequenceRepository) CompareAndSwap(ctx context.Context, q Querier, key string) (int64, error) {
	var current int64
	err := q.QueryRow(ctx, selectCounterQuery, key).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		tag, err := q.Exec(ctx, insertFirstCounterQuery, key)
		if err != nil {
			return 0, fmt.Errorf("создание счётчика %q: %w", key, apperrors.Classify(err))
		}
		if tag.RowsAffected() == 0 {
			// кто-то создал строку между нашим SELECT и INSERT
			return 0, fmt.Errorf("счётчик %q создан параллельно: %w", key, apperrors.ErrConflict)
		}
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("чтение счётчика %q: %w", key, apperrors.Classify(err))
	}

	tag, err := q.Exec(ctx, compareAndSwapCounterQuery, key, current, current+1)
	if err != nil {
		return 0, fmt.Errorf("CAS счётчика %q: %w", key, apperrors.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("счётчик %q изменён с %d: %w", key, current, apperrors.ErrConflict)
	}
	return current + 1, nil
}

// Current - 0, если для ключа ещё ничего не выдавалось.
func (r *sequenceRepository) Current(ctx context.Context, q Querier, key string) (int64, error) {
	counter, err := r.Find(ctx, q, key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.LastValue, nil
}

func (r *sequenceRepository) Find(ctx context.Context, q Querier, key string) (*entities.SequenceCounter, error) {
	var c entities.SequenceCounter
	err := q.QueryRow(ctx, findCounterQuery, key).Scan(&c.PartitionKey, &c.LastValue, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение счётчика %q: %w", key, apperrors.Classify(err))
	}
	return &c, nil
}

func (r *sequenceRepository) EnsureFloor(ctx context.Context, q Querier, key string, floor int64) (int64, error) {
	var value int64
	if err := q.QueryRow(ctx, ensureFloorQuery, key, floor).Scan(&value); err != nil {
		return 0, fmt.Errorf("поднятие счётчика %q до %d: %w", key, floor, apperrors.Classify(err))
	}
	return value, nil
}
