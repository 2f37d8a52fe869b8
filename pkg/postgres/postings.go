package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// GetPosting retrieves a board posting by id
func (d *DB) GetPosting(ctx context.Context, id string) (*model.BoardPosting, error) {
	var p model.BoardPosting
	var claimant *string
	err := d.pool.QueryRow(ctx, `
		SELECT id, shift_id, original_user, original_role, published_at,
		       status, claimant, assigned_at
		FROM board_postings WHERE id = $1
	`, id).Scan(&p.ID, &p.ShiftID, &p.OriginalUser, &p.OriginalRole,
		&p.PublishedAt, &p.Status, &claimant, &p.AssignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query posting: %w", err)
	}
	if claimant != nil {
		p.Claimant = *claimant
	}
	return &p, nil
}

// ListAvailablePostings retrieves every posting still open on the board
func (d *DB) ListAvailablePostings(ctx context.Context) ([]model.BoardPosting, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, shift_id, original_user, original_role, published_at,
		       status, claimant, assigned_at
		FROM board_postings
		WHERE status = $1
		ORDER BY published_at
	`, model.PostingAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []model.BoardPosting
	for rows.Next() {
		var p model.BoardPosting
		var claimant *string
		if err := rows.Scan(&p.ID, &p.ShiftID, &p.OriginalUser, &p.OriginalRole,
			&p.PublishedAt, &p.Status, &claimant, &p.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		if claimant != nil {
			p.Claimant = *claimant
		}
		postings = append(postings, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postings: %w", err)
	}

	return postings, nil
}

// PublishPosting inserts the posting and removes the holder's booking in one
// transaction. The seat must never be both held and offered.
func (d *DB) PublishPosting(ctx context.Context, posting *model.BoardPosting) error {
	err := d.withRetry(ctx, "publish posting", func() error {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		_, err = tx.Exec(ctx, `
			INSERT INTO board_postings (id, shift_id, original_user, original_role,
			                            published_at, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, posting.ID, posting.ShiftID, posting.OriginalUser, posting.OriginalRole,
			posting.PublishedAt, posting.Status)
		if err != nil {
			return err
		}

		ct, err := tx.Exec(ctx, `
			DELETE FROM bookings WHERE shift_id = $1 AND user_id = $2
		`, posting.ShiftID, posting.OriginalUser)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return model.ErrNotFound
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to publish posting: %w", err)
	}
	return nil
}

// AssignPosting flips an available posting to assigned and books the claimant
// in one transaction. The guarded UPDATE makes concurrent claims lose cleanly
// with AlreadyAssigned.
func (d *DB) AssignPosting(ctx context.Context, postingID string, booking *model.Booking, at time.Time) error {
	err := d.withRetry(ctx, "assign posting", func() error {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		ct, err := tx.Exec(ctx, `
			UPDATE board_postings
			SET status = $1, claimant = $2, assigned_at = $3
			WHERE id = $4 AND status = $5
		`, model.PostingAssigned, booking.UserID, at, postingID, model.PostingAvailable)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return model.ErrAlreadyAssigned
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, shift_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, booking.ID, booking.ShiftID, booking.UserID, booking.Role, booking.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyAssigned) {
			return model.ErrAlreadyAssigned
		}
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to assign posting: %w", err)
	}
	return nil
}

// WithdrawPosting deletes a still-available posting and restores the holder's
// booking in one transaction
func (d *DB) WithdrawPosting(ctx context.Context, postingID string, restored *model.Booking) error {
	err := d.withRetry(ctx, "withdraw posting", func() error {
		tx, err := d.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		ct, err := tx.Exec(ctx, `
			DELETE FROM board_postings WHERE id = $1 AND status = $2
		`, postingID, model.PostingAvailable)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return model.ErrAlreadyAssigned
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, shift_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, restored.ID, restored.ShiftID, restored.UserID, restored.Role, restored.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyAssigned) {
			return model.ErrAlreadyAssigned
		}
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to withdraw posting: %w", err)
	}
	return nil
}
