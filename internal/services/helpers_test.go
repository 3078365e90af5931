package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	apperrors "project-registry/pkg/errors"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

// scriptedCounterStore возвращает ошибки из failures по очереди, потом работает как обычный счётчик.
type scriptedCounterStore struct {
	mu       sync.Mutex
	failures []error
	always   error
	block    bool
	value    int64
	calls    atomic.Int32
}

func (s *scriptedCounterStore) Increment(ctx context.Context, key string) (int64, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.always != nil {
		return 0, s.always
	}
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return 0, err
	}
	s.value++
	return s.value, nil
}

func (s *scriptedCounterStore) Current(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *scriptedCounterStore) EnsureFloor(ctx context.Context, key string, floor int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if floor > s.value {
		s.value = floor
	}
	return s.value, nil
}

func (s *scriptedCounterStore) Backend() string { return "scripted" }

var (
	errConflict = apperrors.ErrConflict
	errAborted  = apperrors.ErrTransactionAborted
)
