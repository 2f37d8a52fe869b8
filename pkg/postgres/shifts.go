package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// GetUser retrieves a user by employee code
func (d *DB) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, role FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// ListUsers retrieves all users ordered by name
func (d *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, role FROM users ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetShift retrieves a shift by id
func (d *DB) GetShift(ctx context.Context, id string) (*model.Shift, error) {
	var s model.Shift
	err := d.pool.QueryRow(ctx, `
		SELECT id, description, shift_date, start_time, end_time,
		       seats_technician, seats_helper, shift_type
		FROM shifts WHERE id = $1
	`, id).Scan(&s.ID, &s.Description, &s.Date, &s.Start, &s.End,
		&s.SeatsTechnician, &s.SeatsHelper, &s.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query shift: %w", err)
	}
	return &s, nil
}

// InsertShift inserts a shift record
func (d *DB) InsertShift(ctx context.Context, shift *model.Shift) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO shifts (id, description, shift_date, start_time, end_time,
		                    seats_technician, seats_helper, shift_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, shift.ID, shift.Description, shift.Date, shift.Start, shift.End,
		shift.SeatsTechnician, shift.SeatsHelper, shift.Type)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// ListShifts retrieves shifts with dates in [from, to], ordered by date
func (d *DB) ListShifts(ctx context.Context, from, to time.Time) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, description, shift_date, start_time, end_time,
		       seats_technician, seats_helper, shift_type
		FROM shifts
		WHERE shift_date BETWEEN $1 AND $2
		ORDER BY shift_date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(&s.ID, &s.Description, &s.Date, &s.Start, &s.End,
			&s.SeatsTechnician, &s.SeatsHelper, &s.Type); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}
