package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"project-registry/pkg/config"
	apperrors "project-registry/pkg/errors"
)

// RetryPolicy - ограниченное число попыток с экспоненциальной задержкой и джиттером.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: 10 * time.Millisecond, MaxDelay: 200 * time.Millisecond}
}

func RetryPolicyFromConfig(cfg config.SequenceConfig) RetryPolicy {
	return RetryPolicy{MaxAttempts: cfg.MaxAttempts, BaseDelay: cfg.BaseDelay, MaxDelay: cfg.MaxDelay}
}

// newBackOff: MaxAttempts попыток всего, т.е. MaxAttempts-1 повторов.
func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.MaxInterval = p.MaxDelay
	exp.RandomizationFactor = 0.5
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// retryError приводит ошибку backoff.Retry к таксономии: исчерпанные повторы
// конфликта или прерванной транзакции всегда видны как ErrConflict.
func retryError(err, lastErr error, attempts int) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Classify(err)
	}
	if lastErr != nil && apperrors.IsContention(lastErr) && errors.Is(err, lastErr) {
		if errors.Is(lastErr, apperrors.ErrConflict) {
			return fmt.Errorf("исчерпано попыток: %d: %w", attempts, lastErr)
		}
		return fmt.Errorf("исчерпано попыток: %d: %w: %w", attempts, apperrors.ErrConflict, lastErr)
	}
	return err
}
