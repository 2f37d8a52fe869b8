package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucabarin/turnario/internal/observability"
	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/db"
)

// Store is the storage surface the marketplace needs. PublishPosting,
// AssignPosting, WithdrawPosting and AcceptSubstitution each bundle their
// writes into a single transaction: a failure partway through keeps the prior
// state intact.
type Store interface {
	GetBooking(ctx context.Context, shiftID, userID string) (*model.Booking, error)
	GetPosting(ctx context.Context, id string) (*model.BoardPosting, error)
	PublishPosting(ctx context.Context, posting *model.BoardPosting) error
	AssignPosting(ctx context.Context, postingID string, booking *model.Booking, at time.Time) error
	WithdrawPosting(ctx context.Context, postingID string, restored *model.Booking) error

	GetSubstitutionRequest(ctx context.Context, id string) (*model.SubstitutionRequest, error)
	InsertSubstitutionRequest(ctx context.Context, req *model.SubstitutionRequest) error
	AcceptSubstitution(ctx context.Context, requestID, newUserID string) error
	DeleteSubstitutionRequest(ctx context.Context, id string) error
}

// Engine runs the shift handoff workflows: the open board and targeted
// substitution requests
type Engine struct {
	store     Store
	notifier  db.Notifier
	changeLog db.ChangeLog
	logger    *zap.Logger
}

// NewEngine creates a marketplace engine
func NewEngine(store Store, notifier db.Notifier, changeLog db.ChangeLog, logger *zap.Logger) *Engine {
	return &Engine{
		store:     store,
		notifier:  notifier,
		changeLog: changeLog,
		logger:    logger,
	}
}

// Publish offers the user's seat on the open board. The posting insert and
// the removal of the holder's booking happen in one transaction; the seat is
// never both held and offered.
func (e *Engine) Publish(ctx context.Context, userID, shiftID string) (*model.BoardPosting, error) {
	booking, err := e.store.GetBooking(ctx, shiftID, userID)
	if err != nil {
		return nil, err
	}

	posting := &model.BoardPosting{
		ID:           uuid.New().String(),
		ShiftID:      shiftID,
		OriginalUser: userID,
		OriginalRole: booking.Role,
		PublishedAt:  time.Now(),
		Status:       model.PostingAvailable,
	}

	if err := e.store.PublishPosting(ctx, posting); err != nil {
		return nil, fmt.Errorf("failed to publish posting: %w", err)
	}

	e.logChange(ctx, db.ShiftChange{
		ShiftID:      shiftID,
		Action:       db.ActionPublished,
		OriginalUser: userID,
		PerformedBy:  userID,
	})

	e.logger.Info("Seat published to board",
		zap.String("posting_id", posting.ID),
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID),
		zap.String("role", string(posting.OriginalRole)))

	return posting, nil
}

// Claim takes an available posting. Eligibility is role identity: the
// claimant's role must equal the posting's original role, a helper can never
// cover a technician seat regardless of seniority.
func (e *Engine) Claim(ctx context.Context, userID string, role model.Role, postingID string) (*model.Booking, error) {
	posting, err := e.store.GetPosting(ctx, postingID)
	if err != nil {
		observability.RecordClaim("not_found")
		return nil, err
	}

	if posting.Status != model.PostingAvailable {
		observability.RecordClaim("already_assigned")
		return nil, model.ErrAlreadyAssigned
	}

	if role != posting.OriginalRole {
		observability.RecordClaim("role_mismatch")
		return nil, model.ErrRoleMismatch
	}

	booking := &model.Booking{
		ID:        uuid.New().String(),
		ShiftID:   posting.ShiftID,
		UserID:    userID,
		Role:      posting.OriginalRole,
		CreatedAt: time.Now(),
	}

	now := time.Now()
	if err := e.store.AssignPosting(ctx, postingID, booking, now); err != nil {
		observability.RecordClaim("storage_error")
		return nil, err
	}

	e.logChange(ctx, db.ShiftChange{
		ShiftID:      posting.ShiftID,
		Action:       db.ActionClaimed,
		OriginalUser: posting.OriginalUser,
		NewUser:      userID,
		PerformedBy:  userID,
	})

	e.notify(ctx, posting.OriginalUser,
		"Il tuo turno pubblicato in bacheca è stato preso in carico",
		"/turni/"+posting.ShiftID)

	e.logger.Info("Posting claimed",
		zap.String("posting_id", postingID),
		zap.String("claimant", userID),
		zap.String("original_user", posting.OriginalUser))
	observability.RecordClaim("claimed")

	return booking, nil
}

// Withdraw removes the holder's own still-available posting from the board
// and restores their booking. A claimed posting cannot be withdrawn.
func (e *Engine) Withdraw(ctx context.Context, userID, postingID string) error {
	posting, err := e.store.GetPosting(ctx, postingID)
	if err != nil {
		return err
	}

	// Another user's posting is invisible to the caller
	if posting.OriginalUser != userID {
		return model.ErrNotFound
	}

	if posting.Status != model.PostingAvailable {
		return model.ErrAlreadyAssigned
	}

	restored := &model.Booking{
		ID:        uuid.New().String(),
		ShiftID:   posting.ShiftID,
		UserID:    userID,
		Role:      posting.OriginalRole,
		CreatedAt: time.Now(),
	}

	if err := e.store.WithdrawPosting(ctx, postingID, restored); err != nil {
		return fmt.Errorf("failed to withdraw posting: %w", err)
	}

	e.logChange(ctx, db.ShiftChange{
		ShiftID:      posting.ShiftID,
		Action:       db.ActionWithdrawn,
		OriginalUser: userID,
		PerformedBy:  userID,
	})

	e.logger.Info("Posting withdrawn",
		zap.String("posting_id", postingID),
		zap.String("user_id", userID))

	return nil
}

// RequestSubstitution asks a specific colleague to take over the requester's
// seat. The request row lives until the recipient responds.
func (e *Engine) RequestSubstitution(ctx context.Context, requesterID, recipientID, shiftID string) (*model.SubstitutionRequest, error) {
	if _, err := e.store.GetBooking(ctx, shiftID, requesterID); err != nil {
		return nil, err
	}

	req := &model.SubstitutionRequest{
		ID:        uuid.New().String(),
		ShiftID:   shiftID,
		Requester: requesterID,
		Recipient: recipientID,
		CreatedAt: time.Now(),
	}

	if err := e.store.InsertSubstitutionRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create substitution request: %w", err)
	}

	e.notify(ctx, recipientID,
		"Un collega ti ha chiesto di coprire un suo turno",
		"/sostituzioni/"+req.ID)

	e.logger.Info("Substitution requested",
		zap.String("request_id", req.ID),
		zap.String("requester", requesterID),
		zap.String("recipient", recipientID),
		zap.String("shift_id", shiftID))

	return req, nil
}

// Respond resolves a substitution request exactly once. Acceptance transfers
// the requester's booking to the responder in place, keeping the booking's
// identity; both branches delete the request row, the outcome is recorded in
// the change log only.
func (e *Engine) Respond(ctx context.Context, requestID, responderID string, accepted bool) error {
	req, err := e.store.GetSubstitutionRequest(ctx, requestID)
	if err != nil {
		return err
	}

	// The request only exists for its designated recipient
	if req.Recipient != responderID {
		return model.ErrNotFound
	}

	if accepted {
		if err := e.store.AcceptSubstitution(ctx, requestID, responderID); err != nil {
			return fmt.Errorf("failed to accept substitution: %w", err)
		}

		e.logChange(ctx, db.ShiftChange{
			ShiftID:      req.ShiftID,
			Action:       db.ActionSubstituted,
			OriginalUser: req.Requester,
			NewUser:      responderID,
			PerformedBy:  responderID,
		})

		e.notify(ctx, req.Requester,
			"La tua richiesta di sostituzione è stata accettata",
			"/turni/"+req.ShiftID)
		observability.RecordSubstitution("accepted")
	} else {
		if err := e.store.DeleteSubstitutionRequest(ctx, requestID); err != nil {
			return fmt.Errorf("failed to delete substitution request: %w", err)
		}

		e.logChange(ctx, db.ShiftChange{
			ShiftID:      req.ShiftID,
			Action:       db.ActionRejected,
			OriginalUser: req.Requester,
			PerformedBy:  responderID,
		})

		e.notify(ctx, req.Requester,
			"La tua richiesta di sostituzione è stata rifiutata",
			"/turni/"+req.ShiftID)
		observability.RecordSubstitution("rejected")
	}

	e.logger.Info("Substitution resolved",
		zap.String("request_id", requestID),
		zap.String("responder", responderID),
		zap.Bool("accepted", accepted))

	return nil
}

// notify delivers best effort; a dead notification sink never fails a workflow
func (e *Engine) notify(ctx context.Context, userID, message, actionLink string) {
	if err := e.notifier.Notify(ctx, userID, message, actionLink); err != nil {
		e.logger.Warn("Failed to send notification",
			zap.String("user_id", userID),
			zap.Error(err))
	}
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
