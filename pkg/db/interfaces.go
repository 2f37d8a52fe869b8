package db

import (
	"context"
	"errors"
	"time"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// ErrSheetNotFound signals that no daily sheet exists for the requested date.
// Importer callers treat it as an empty day, not a failure.
var ErrSheetNotFound = errors.New("daily sheet not found")

// ChangeAction labels an entry in the shift change log
type ChangeAction string

const (
	ActionBooked      ChangeAction = "booked"
	ActionCancelled   ChangeAction = "cancelled"
	ActionPublished   ChangeAction = "published"
	ActionClaimed     ChangeAction = "claimed"
	ActionWithdrawn   ChangeAction = "withdrawn"
	ActionSubstituted ChangeAction = "substituted"
	ActionRejected    ChangeAction = "rejected"
)

// ShiftChange is one append-only audit record of a seat changing hands
type ShiftChange struct {
	ShiftID      string
	Action       ChangeAction
	OriginalUser string
	NewUser      string
	PerformedBy  string
}

// ChangeLog records shift changes. Best effort: engines log failures and move on.
type ChangeLog interface {
	LogShiftChange(ctx context.Context, change ShiftChange) error
}

// Notifier delivers a message to a user. Fire and forget: a delivery failure
// must never roll back the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID, message, actionLink string) error
}

// ActivitySource provides one day's raw activity rows, positionally indexed.
// A missing daily sheet is reported as ErrSheetNotFound.
type ActivitySource interface {
	DailyRows(ctx context.Context, day, month, year int) ([][]string, error)
}

// Store is the full storage contract, implemented by postgres.DB.
// Engines depend on narrower interfaces declared where they are consumed;
// this aggregate exists for wiring in the CLI.
type Store interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	GetShift(ctx context.Context, id string) (*model.Shift, error)
	InsertShift(ctx context.Context, shift *model.Shift) error
	ListShifts(ctx context.Context, from, to time.Time) ([]model.Shift, error)

	ListBookings(ctx context.Context, shiftID string) ([]model.Booking, error)
	GetBooking(ctx context.Context, shiftID, userID string) (*model.Booking, error)
	InsertBooking(ctx context.Context, booking *model.Booking) error
	DeleteBooking(ctx context.Context, shiftID, userID string) error

	GetPosting(ctx context.Context, id string) (*model.BoardPosting, error)
	ListAvailablePostings(ctx context.Context) ([]model.BoardPosting, error)
	PublishPosting(ctx context.Context, posting *model.BoardPosting) error
	AssignPosting(ctx context.Context, postingID string, booking *model.Booking, at time.Time) error
	WithdrawPosting(ctx context.Context, postingID string, restored *model.Booking) error

	GetSubstitutionRequest(ctx context.Context, id string) (*model.SubstitutionRequest, error)
	InsertSubstitutionRequest(ctx context.Context, req *model.SubstitutionRequest) error
	AcceptSubstitution(ctx context.Context, requestID, newUserID string) error
	DeleteSubstitutionRequest(ctx context.Context, id string) error

	ChangeLog
}
