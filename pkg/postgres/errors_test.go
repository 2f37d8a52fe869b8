package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lucabarin/turnario/pkg/core/model"
)

func TestMapConstraintErr(t *testing.T) {
	t.Run("unique violation becomes duplicate booking", func(t *testing.T) {
		err := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "bookings_shift_user_key"}
		assert.ErrorIs(t, mapConstraintErr(err), model.ErrDuplicateBooking)
	})

	t.Run("check violation becomes capacity exceeded", func(t *testing.T) {
		err := &pgconn.PgError{Code: codeCheckViolation}
		assert.ErrorIs(t, mapConstraintErr(err), model.ErrCapacityExceeded)
	})

	t.Run("other pg errors pass through", func(t *testing.T) {
		err := &pgconn.PgError{Code: "42P01"}
		assert.Equal(t, error(err), mapConstraintErr(err))
	})

	t.Run("non-pg errors pass through", func(t *testing.T) {
		err := errors.New("plain")
		assert.Equal(t, err, mapConstraintErr(err))
	})
}

func TestIsLockContention(t *testing.T) {
	assert.True(t, isLockContention(&pgconn.PgError{Code: codeLockNotAvailable}))
	assert.True(t, isLockContention(&pgconn.PgError{Code: codeSerializationFailed}))
	assert.True(t, isLockContention(&pgconn.PgError{Code: codeDeadlockDetected}))
	assert.False(t, isLockContention(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isLockContention(errors.New("plain")))
}

func TestWithRetry(t *testing.T) {
	d := &DB{logger: zap.NewNop()}
	lockErr := &pgconn.PgError{Code: codeDeadlockDetected}

	t.Run("succeeds after transient contention", func(t *testing.T) {
		calls := 0
		err := d.withRetry(context.Background(), "test", func() error {
			calls++
			if calls < 2 {
				return lockErr
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("exhaustion re-raises the original error", func(t *testing.T) {
		calls := 0
		err := d.withRetry(context.Background(), "test", func() error {
			calls++
			return lockErr
		})
		assert.Equal(t, retryAttempts, calls)
		var pgErr *pgconn.PgError
		assert.ErrorAs(t, err, &pgErr)
		assert.Equal(t, codeDeadlockDetected, pgErr.Code)
	})

	t.Run("non-contention failures are not retried", func(t *testing.T) {
		calls := 0
		plain := errors.New("connection reset")
		err := d.withRetry(context.Background(), "test", func() error {
			calls++
			return plain
		})
		assert.Equal(t, plain, err)
		assert.Equal(t, 1, calls)
	})
}
