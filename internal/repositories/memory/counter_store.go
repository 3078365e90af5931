// Package memory - хранилища в памяти процесса с той же семантикой, что и у Postgres.
// Подходят для тестов и для одиночного процесса без базы (SEQUENCE_BACKEND=memory).
package memory

import (
	"context"
	"sync"

	"project-registry/pkg/config"
)

type CounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewCounterStore() *CounterStore {
	return &CounterStore{counters: make(map[string]int64)}
}

func (s *CounterStore) Increment(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

func (s *CounterStore) Current(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[key], nil
}

func (s *CounterStore) EnsureFloor(ctx context.Context, key string, floor int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if floor > s.counters[key] {
		s.counters[key] = floor
	}
	return s.counters[key], nil
}

func (s *CounterStore) Backend() string {
	return config.BackendMemory
}

// raise поднимает счётчик до value при коммите транзакции вложений.
func (s *CounterStore) raise(key string, value int64) {
	s.mu.Lock()
	if value > s.counters[key] {
		s.counters[key] = value
	}
	s.mu.Unlock()
}
