package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// BookCmd creates the book command
func BookCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "book <user_id> <shift_id> <role>",
		Short: "Book a seat on a shift for a user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[2])
			if err != nil {
				return err
			}

			b, err := app.Booking.Book(app.Ctx, args[0], args[1], role)
			if err != nil {
				return describeBookingError(err)
			}

			fmt.Printf("\n✓ Booking created: %s on shift %s as %s\n\n", b.UserID, b.ShiftID, b.Role)
			return nil
		},
	}
}

// CancelCmd creates the cancel command
func CancelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <user_id> <shift_id>",
		Short: "Cancel a user's booking on a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Booking.Cancel(app.Ctx, args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Booking cancelled for %s on shift %s\n\n", args[0], args[1])
			return nil
		},
	}
}

// describeBookingError turns the engine's sentinel errors into operator-facing
// messages. Unknown errors pass through unchanged.
func describeBookingError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return fmt.Errorf("user or shift not found: %w", err)
	case errors.Is(err, model.ErrDuplicateBooking):
		return fmt.Errorf("user already holds a seat on this shift: %w", err)
	case errors.Is(err, model.ErrCapacityExceeded):
		return fmt.Errorf("no free seats for this role on the shift: %w", err)
	case errors.Is(err, model.ErrConflictOnCall):
		return fmt.Errorf("user is on call that week and cannot take ordinary shifts: %w", err)
	default:
		return err
	}
}
