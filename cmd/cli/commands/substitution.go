package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucabarin/turnario/pkg/core/model"
)

// RequestSubCmd creates the requestSub command
func RequestSubCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "requestSub <requester_id> <recipient_id> <shift_id>",
		Short: "Ask a named colleague to take over a held seat",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.Marketplace.RequestSubstitution(app.Ctx, args[0], args[1], args[2])
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return fmt.Errorf("requester holds no seat on this shift: %w", err)
				}
				return err
			}

			fmt.Printf("\n✓ Substitution requested\n\nRequest ID: %s\nRecipient:  %s\n\n",
				req.ID, req.Recipient)
			return nil
		},
	}
}

// RespondCmd creates the respond command
func RespondCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "respond <request_id> <responder_id> <accept|reject>",
		Short: "Accept or reject a substitution request addressed to you",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accepted bool
			switch args[2] {
			case "accept":
				accepted = true
			case "reject":
				accepted = false
			default:
				return fmt.Errorf("decision must be accept or reject, got: %s", args[2])
			}

			if err := app.Marketplace.Respond(app.Ctx, args[0], args[1], accepted); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return fmt.Errorf("no pending request with this id for this responder: %w", err)
				}
				return err
			}

			if accepted {
				fmt.Printf("\n✓ Substitution accepted, seat transferred\n\n")
			} else {
				fmt.Printf("\n✓ Substitution rejected\n\n")
			}
			return nil
		},
	}
}
