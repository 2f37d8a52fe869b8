package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/core/rotation"
	"github.com/lucabarin/turnario/pkg/db"
)

// SyncOnCallStore is the storage surface the rotation sync job needs
type SyncOnCallStore interface {
	ListShifts(ctx context.Context, from, to time.Time) ([]model.Shift, error)
	InsertShift(ctx context.Context, shift *model.Shift) error
}

// SyncResult reports what the sync run created and skipped
type SyncResult struct {
	Created []model.Shift
	Skipped int
}

// SyncOnCallShifts materializes the on-call rotation as bookable shifts for
// the coming weeks. The job is idempotent: Fridays that already carry an
// on-call shift are skipped, so it can run on a timer without duplicating
// rows.
func SyncOnCallShifts(ctx context.Context, store SyncOnCallStore, cal *rotation.Calendar, logger *zap.Logger, from time.Time, weeks int, tmpl db.OnCallShiftTemplate) (*SyncResult, error) {
	planned, err := db.PlanOnCallShifts(cal, from, weeks, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to plan on-call shifts: %w", err)
	}

	logger.Debug("Planned on-call shifts", zap.Int("count", len(planned)))

	existing, err := store.ListShifts(ctx, planned[0].Date, planned[len(planned)-1].Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing shifts: %w", err)
	}

	covered := make(map[string]bool)
	for _, s := range existing {
		if s.Type == model.ShiftOnCall {
			covered[s.Date.Format("2006-01-02")] = true
		}
	}

	result := &SyncResult{}
	for _, shift := range planned {
		if covered[shift.Date.Format("2006-01-02")] {
			result.Skipped++
			continue
		}

		if err := store.InsertShift(ctx, &shift); err != nil {
			return nil, fmt.Errorf("failed to insert on-call shift for %s: %w",
				shift.Date.Format("2006-01-02"), err)
		}
		result.Created = append(result.Created, shift)
	}

	logger.Info("On-call rotation synced",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", result.Skipped))

	return result, nil
}
