package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// GetSubstitutionRequest retrieves a substitution request by id
func (d *DB) GetSubstitutionRequest(ctx context.Context, id string) (*model.SubstitutionRequest, error) {
	var r model.SubstitutionRequest
	err := d.pool.QueryRow(ctx, `
		SELECT id, shift_id, requester, recipient, created_at
		FROM substitution_requests WHERE id = $1
	`, id).Scan(&r.ID, &r.ShiftID, &r.Requester, &r.Recipient, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query substitution request: %w", err)
	}
	return &r, nil
}

// InsertSubstitutionRequest persists a substitution request
func (d *DB) InsertSubstitutionRequest(ctx context.Context, req *model.SubstitutionRequest) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO substitution_requests (id, shift_id, requester, recipient, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, req.ID, req.ShiftID, req.Requester, req.Recipient, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert substitution request: %w", err)
	}
	return nil
}

// AcceptSubstitution transfers the requester's booking to the new user and
// deletes the request in one transaction. The booking row is updated in
// place, keeping its identity and timestamp.
func (d *DB) AcceptSubstitution(ctx context.Context, requestID, newUserID string) error {
	err := d.withRetry(ctx, "accept substitution", func() error {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		var shiftID, requester string
		err = tx.QueryRow(ctx, `
			SELECT shift_id, requester FROM substitution_requests WHERE id = $1
		`, requestID).Scan(&shiftID, &requester)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrNotFound
			}
			return err
		}

		ct, err := tx.Exec(ctx, `
			UPDATE bookings SET user_id = $1 WHERE shift_id = $2 AND user_id = $3
		`, newUserID, shiftID, requester)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			// The requester no longer holds the seat
			return model.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM substitution_requests WHERE id = $1
		`, requestID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to accept substitution: %w", err)
	}
	return nil
}

// DeleteSubstitutionRequest removes a request without touching any booking
func (d *DB) DeleteSubstitutionRequest(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM substitution_requests WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete substitution request: %w", err)
	}
	return nil
}
