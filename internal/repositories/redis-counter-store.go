package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-redis/redis/v8"

	"project-registry/pkg/config"
	apperrors "project-registry/pkg/errors"
)

const redisCounterPrefix = "seq:"

// ensureFloorScript поднимает значение до floor и никогда не опускает его.
var ensureFloorScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if floor > current then
	redis.call('SET', KEYS[1], floor)
	return floor
end
return current
`)

// RedisCounterStore использует нативный INCR. Долговечность значений
// обеспечивается настройками самого Redis (appendonly yes, appendfsync always).
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) CounterStoreInterface {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Increment(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Incr(ctx, redisCounterPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("INCR %q: %w", key, classifyRedis(err))
	}
	return value, nil
}

func (s *RedisCounterStore) Current(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Get(ctx, redisCounterPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("GET %q: %w", key, classifyRedis(err))
	}
	return value, nil
}

func (s *RedisCounterStore) EnsureFloor(ctx context.Context, key string, floor int64) (int64, error) {
	value, err := ensureFloorScript.Run(ctx, s.client, []string{redisCounterPrefix + key}, floor).Int64()
	if err != nil {
		return 0, fmt.Errorf("подъём %q до %d: %w", key, floor, classifyRedis(err))
	}
	return value, nil
}

func (s *RedisCounterStore) Backend() string {
	return config.BackendRedis
}

func classifyRedis(err error) error {
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return apperrors.Classify(err)
}
