package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Bounded retry for lock contention. The delay is fixed rather than
// exponential: contention on this store is short-lived row locking, and the
// cap keeps worst-case latency predictable.
const (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// withRetry runs fn, retrying only on lock-contention errors. After the last
// attempt the original error is returned unchanged.
func (d *DB) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = fn()
		if err == nil || !isLockContention(err) {
			return err
		}

		if attempt == retryAttempts {
			break
		}

		d.logger.Warn("Retrying after lock contention",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return err
		}
	}
	return err
}
