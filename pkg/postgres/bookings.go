package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// ListBookings retrieves all bookings on a shift
func (d *DB) ListBookings(ctx context.Context, shiftID string) ([]model.Booking, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, shift_id, user_id, role, created_at
		FROM bookings WHERE shift_id = $1
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ShiftID, &b.UserID, &b.Role, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// GetBooking retrieves the booking held by a user on a shift
func (d *DB) GetBooking(ctx context.Context, shiftID, userID string) (*model.Booking, error) {
	var b model.Booking
	err := d.pool.QueryRow(ctx, `
		SELECT id, shift_id, user_id, role, created_at
		FROM bookings WHERE shift_id = $1 AND user_id = $2
	`, shiftID, userID).Scan(&b.ID, &b.ShiftID, &b.UserID, &b.Role, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return &b, nil
}

// InsertBooking persists a booking. The unique (shift, user) constraint and
// the seat-capacity trigger are the backstop against races between the
// engine's checks and the insert; their violations come back as the matching
// business outcome.
func (d *DB) InsertBooking(ctx context.Context, booking *model.Booking) error {
	err := d.withRetry(ctx, "insert booking", func() error {
		_, err := d.pool.Exec(ctx, `
			INSERT INTO bookings (id, shift_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, booking.ID, booking.ShiftID, booking.UserID, booking.Role, booking.CreatedAt)
		return err
	})
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// DeleteBooking removes a user's booking from a shift.
// Returns model.ErrNotFound when no such booking exists.
func (d *DB) DeleteBooking(ctx context.Context, shiftID, userID string) error {
	err := d.withRetry(ctx, "delete booking", func() error {
		ct, err := d.pool.Exec(ctx, `
			DELETE FROM bookings WHERE shift_id = $1 AND user_id = $2
		`, shiftID, userID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
