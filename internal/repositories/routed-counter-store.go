package repositories

import (
	"context"
	"strings"
)

// keyRoutedCounterStore отправляет ключи с заданным префиксом в отдельное хранилище,
// остальные - в основное.
type keyRoutedCounterStore struct {
	primary CounterStoreInterface
	prefix  string
	routed  CounterStoreInterface
}

func NewKeyRoutedCounterStore(primary CounterStoreInterface, prefix string, routed CounterStoreInterface) CounterStoreInterface {
	return &keyRoutedCounterStore{primary: primary, prefix: prefix, routed: routed}
}

func (s *keyRoutedCounterStore) storeFor(key string) CounterStoreInterface {
	if strings.HasPrefix(key, s.prefix) {
		return s.routed
	}
	return s.primary
}

func (s *keyRoutedCounterStore) Increment(ctx context.Context, key string) (int64, error) {
	return s.storeFor(key).Increment(ctx, key)
}

func (s *keyRoutedCounterStore) Current(ctx context.Context, key string) (int64, error) {
	return s.storeFor(key).Current(ctx, key)
}

func (s *keyRoutedCounterStore) EnsureFloor(ctx context.Context, key string, floor int64) (int64, error) {
	return s.storeFor(key).EnsureFloor(ctx, key, floor)
}

// Backend - бэкенд основного хранилища.
func (s *keyRoutedCounterStore) Backend() string {
	return s.primary.Backend()
}
