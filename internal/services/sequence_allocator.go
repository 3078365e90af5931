// Файл: internal/services/sequence_allocator.go

package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"project-registry/internal/repositories"
	apperrors "project-registry/pkg/errors"
	"project-registry/pkg/metrics"
)

const maxPartitionKeyLen = 512

// SequenceAllocatorInterface выдаёт следующее целое для ключа партиции.
// Два вызова для одного ключа никогда не получают одно и то же значение.
type SequenceAllocatorInterface interface {
	Allocate(ctx context.Context, partitionKey string) (int64, error)
	Current(ctx context.Context, partitionKey string) (int64, error)
	EnsureFloor(ctx context.Context, partitionKey string, floor int64) (int64, error)
}

type SequenceAllocator struct {
	store   repositories.CounterStoreInterface
	policy  RetryPolicy
	timeout time.Duration
	logger  *zap.Logger
}

// NewSequenceAllocator: timeout применяется, только если у контекста вызывающего нет дедлайна.
func NewSequenceAllocator(
	store repositories.CounterStoreInterface,
	policy RetryPolicy,
	timeout time.Duration,
	logger *zap.Logger,
) *SequenceAllocator {
	return &SequenceAllocator{
		store:   store,
		policy:  policy,
		timeout: timeout,
		logger:  logger,
	}
}

// Allocate повторяет только конфликты (ErrConflict, ErrTransactionAborted).
// ErrStorageUnavailable возвращается сразу: повторять с задержкой - дело вызывающего.
func (s *SequenceAllocator) Allocate(ctx context.Context, partitionKey string) (int64, error) {
	backend := s.store.Backend()
	if err := validatePartitionKey(partitionKey); err != nil {
		metrics.SequenceAllocations.WithLabelValues(backend, metrics.OutcomeInvalid).Inc()
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.SequenceDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	}()

	var (
		value    int64
		attempts int
		lastErr  error
	)
	operation := func() error {
		attempts++
		v, err := s.store.Increment(ctx, partitionKey)
		if err != nil {
			lastErr = err
			if apperrors.IsContention(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		value = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		metrics.SequenceRetries.WithLabelValues(backend).Inc()
		s.logger.Warn("конфликт при выделении значения, повтор",
			zap.String("partitionKey", partitionKey),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, s.policy.newBackOff(ctx), notify)
	if err != nil {
		err = retryError(err, lastErr, attempts)
		metrics.SequenceAllocations.WithLabelValues(backend, metrics.OutcomeError).Inc()
		s.logger.Error("не удалось выделить значение",
			zap.String("partitionKey", partitionKey),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return 0, err
	}

	metrics.SequenceAllocations.WithLabelValues(backend, metrics.OutcomeOK).Inc()
	s.logger.Debug("значение выделено",
		zap.String("partitionKey", partitionKey),
		zap.Int64("value", value),
		zap.Int("attempts", attempts),
	)
	return value, nil
}

func (s *SequenceAllocator) Current(ctx context.Context, partitionKey string) (int64, error) {
	if err := validatePartitionKey(partitionKey); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.Current(ctx, partitionKey)
}

// EnsureFloor поднимает счётчик минимум до floor (перенос старых данных). Значение никогда не уменьшается.
func (s *SequenceAllocator) EnsureFloor(ctx context.Context, partitionKey string, floor int64) (int64, error) {
	if err := validatePartitionKey(partitionKey); err != nil {
		return 0, err
	}
	if floor < 0 {
		return 0, apperrors.InvalidInput("floor не может быть отрицательным: %d", floor)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	value, err := s.store.EnsureFloor(ctx, partitionKey, floor)
	if err != nil {
		s.logger.Error("не удалось поднять счётчик", zap.String("partitionKey", partitionKey), zap.Int64("floor", floor), zap.Error(err))
		return 0, err
	}
	s.logger.Info("счётчик поднят", zap.String("partitionKey", partitionKey), zap.Int64("floor", floor), zap.Int64("value", value))
	return value, nil
}

func (s *SequenceAllocator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func validatePartitionKey(partitionKey string) error {
	if partitionKey == "" {
		return apperrors.InvalidInput("пустой ключ партиции")
	}
	if len(partitionKey) > maxPartitionKeyLen {
		return apperrors.InvalidInput("ключ партиции длиннее %d байт", maxPartitionKeyLen)
	}
	return nil
}
