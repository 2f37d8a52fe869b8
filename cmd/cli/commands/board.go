package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// BoardCmd creates the board command
func BoardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "List the shifts currently published on the marketplace board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			postings, err := app.Store.ListAvailablePostings(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list board postings: %w", err)
			}

			if len(postings) == 0 {
				fmt.Println("\nThe board is empty.")
				return nil
			}

			fmt.Printf("\n%d shifts on the board:\n\n", len(postings))
			for _, p := range postings {
				fmt.Printf("  %s  shift %s (%s seat, published by %s)\n",
					p.ID, p.ShiftID, p.OriginalRole, p.OriginalUser)
			}
			fmt.Println()

			return nil
		},
	}
}

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <user_id> <shift_id>",
		Short: "Publish a held seat to the marketplace board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			posting, err := app.Marketplace.Publish(app.Ctx, args[0], args[1])
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return fmt.Errorf("user holds no seat on this shift: %w", err)
				}
				return err
			}

			fmt.Printf("\n✓ Seat published on the board\n\nPosting ID: %s\n\n", posting.ID)
			return nil
		},
	}
}

// ClaimCmd creates the claim command
func ClaimCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <user_id> <role> <posting_id>",
		Short: "Claim a published shift from the board",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			b, err := app.Marketplace.Claim(app.Ctx, args[0], role, args[2])
			if err != nil {
				switch {
				case errors.Is(err, model.ErrAlreadyAssigned):
					return fmt.Errorf("posting was already claimed: %w", err)
				case errors.Is(err, model.ErrRoleMismatch):
					return fmt.Errorf("posting is for a different role: %w", err)
				default:
					return err
				}
			}

			fmt.Printf("\n✓ Shift claimed: %s now holds shift %s as %s\n\n", b.UserID, b.ShiftID, b.Role)
			return nil
		},
	}
}

// WithdrawCmd creates the withdraw command
func WithdrawCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <user_id> <posting_id>",
		Short: "Withdraw an unclaimed posting and restore the original booking",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Marketplace.Withdraw(app.Ctx, args[0], args[1]); err != nil {
				if errors.Is(err, model.ErrAlreadyAssigned) {
					return fmt.Errorf("posting was already claimed and cannot be withdrawn: %w", err)
				}
				return err
			}

			fmt.Printf("\n✓ Posting withdrawn, booking restored\n\n")
			return nil
		},
	}
}
