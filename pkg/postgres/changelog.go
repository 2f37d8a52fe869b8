package postgres

import (
	"context"
	"fmt"

	"github.com/lucabarin/turnario/pkg/db"
)

// LogShiftChange appends one audit record. Callers treat the trail as best
// effort, but the write itself is a plain insert.
func (d *DB) LogShiftChange(ctx context.Context, change db.ShiftChange) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO shift_change_log (shift_id, action, original_user, new_user, performed_by)
		VALUES ($1, $2, $3, $4, $5)
	`, change.ShiftID, change.Action, change.OriginalUser, change.NewUser, change.PerformedBy)
	if err != nil {
		return fmt.Errorf("failed to log shift change: %w", err)
	}
	return nil
}
