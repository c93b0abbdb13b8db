package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds retries of storage writes. Delays double after each attempt.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func withRetry(ctx context.Context, policy RetryPolicy, logger *zap.Logger, op string, fn func(context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := policy.Backoff
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}
		logger.Warn("retrying", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
