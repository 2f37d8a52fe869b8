package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucabarin/turnario/internal/observability"
	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/core/rotation"
	"github.com/lucabarin/turnario/pkg/db"
)

// Store is the storage surface the booking engine needs.
// Lookups must hit current state on every call: capacity is re-counted per
// attempt because other sessions book concurrently against the same store.
type Store interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetShift(ctx context.Context, id string) (*model.Shift, error)
	ListBookings(ctx context.Context, shiftID string) ([]model.Booking, error)
	InsertBooking(ctx context.Context, booking *model.Booking) error
	DeleteBooking(ctx context.Context, shiftID, userID string) error
}

// Engine enforces seat capacity and conflict rules around shift reservations
type Engine struct {
	store     Store
	rotation  *rotation.Calendar
	changeLog db.ChangeLog
	logger    *zap.Logger
}

// NewEngine creates a booking engine
func NewEngine(store Store, cal *rotation.Calendar, changeLog db.ChangeLog, logger *zap.Logger) *Engine {
	return &Engine{
		store:     store,
		rotation:  cal,
		changeLog: changeLog,
		logger:    logger,
	}
}

// Book reserves a seat for the user on the shift.
// Checks run in order: shift existence, on-call conflict, duplicate booking,
// seat capacity. The storage layer's constraints are the final backstop under
// concurrency, so a constraint violation at insert time surfaces as the
// matching business outcome rather than a storage fault.
func (e *Engine) Book(ctx context.Context, userID, shiftID string, role model.Role) (*model.Booking, error) {
	shift, err := e.store.GetShift(ctx, shiftID)
	if err != nil {
		observability.RecordBooking(outcomeLabel(err))
		return nil, err
	}

	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		observability.RecordBooking(outcomeLabel(err))
		return nil, err
	}

	// A user on call cannot also hold an ordinary shift the same day
	if shift.Type == model.ShiftOrdinary && e.rotation.OnCallOn(user.Name, shift.Date) {
		e.logger.Debug("Booking rejected, user on call",
			zap.String("user_id", userID),
			zap.String("shift_id", shiftID),
			zap.Time("date", shift.Date))
		observability.RecordBooking("oncall_conflict")
		return nil, model.ErrConflictOnCall
	}

	bookings, err := e.store.ListBookings(ctx, shiftID)
	if err != nil {
		observability.RecordBooking(outcomeLabel(err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	taken := 0
	for _, b := range bookings {
		if b.UserID == userID {
			observability.RecordBooking("duplicate")
			return nil, model.ErrDuplicateBooking
		}
		if b.Role == role {
			taken++
		}
	}

	if taken >= shift.SeatsFor(role) {
		observability.RecordBooking("capacity_exceeded")
		return nil, model.ErrCapacityExceeded
	}

	booking := &model.Booking{
		ID:        uuid.New().String(),
		ShiftID:   shiftID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now(),
	}

	if err := e.store.InsertBooking(ctx, booking); err != nil {
		observability.RecordBooking(outcomeLabel(err))
		return nil, err
	}

	e.logChange(ctx, db.ShiftChange{
		ShiftID:     shiftID,
		Action:      db.ActionBooked,
		NewUser:     userID,
		PerformedBy: userID,
	})

	e.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", userID),
		zap.String("shift_id", shiftID),
		zap.String("role", string(role)))
	observability.RecordBooking("booked")

	return booking, nil
}

// Cancel removes the user's booking on the shift. Cancelling a booking that
// does not exist is a success: the end state is the same either way.
func (e *Engine) Cancel(ctx context.Context, userID, shiftID string) error {
	if err := e.store.DeleteBooking(ctx, shiftID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	e.logChange(ctx, db.ShiftChange{
		ShiftID:      shiftID,
		Action:       db.ActionCancelled,
		OriginalUser: userID,
		PerformedBy:  userID,
	})

	e.logger.Info("Booking cancelled",
		zap.String("user_id", userID),
		zap.String("shift_id", shiftID))

	return nil
}

// logChange appends to the audit trail; the trail is best effort
func (e *Engine) logChange(ctx context.Context, change db.ShiftChange) {
	if err := e.changeLog.LogShiftChange(ctx, change); err != nil {
		e.logger.Warn("Failed to append shift change log",
			zap.String("shift_id", change.ShiftID),
			zap.String("action", string(change.Action)),
			zap.Error(err))
	}
}

// outcomeLabel maps an error to its metrics label
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrDuplicateBooking):
		return "duplicate"
	case errors.Is(err, model.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, model.ErrConflictOnCall):
		return "oncall_conflict"
	default:
		return "storage_error"
	}
}
