package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucabarin/turnario/pkg/core/services"
	"github.com/lucabarin/turnario/pkg/db"
)

// SyncOncallCmd creates the syncOncall command
func SyncOncallCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "syncOncall <weeks>",
		Short: "Create the on-call shifts for the next N rotation weeks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, err := strconv.Atoi(args[0])
			if err != nil || weeks < 1 {
				return fmt.Errorf("weeks must be a positive integer, got: %s", args[0])
			}

			tmpl := db.OnCallShiftTemplate{
				Start:           app.Cfg.OnCallShift.Start,
				End:             app.Cfg.OnCallShift.End,
				SeatsTechnician: app.Cfg.OnCallShift.SeatsTechnician,
				SeatsHelper:     app.Cfg.OnCallShift.SeatsHelper,
			}

			result, err := services.SyncOnCallShifts(
				app.Ctx, app.Store, app.Rotation, app.Logger,
				time.Now().In(app.Location), weeks, tmpl,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ On-call sync completed: %d created, %d already present\n\n",
				len(result.Created), result.Skipped)
			for _, shift := range result.Created {
				fmt.Printf("  %s  %s (%s - %s)\n",
					shift.Date.Format("2006-01-02"), shift.Description, shift.Start, shift.End)
			}
			if len(result.Created) > 0 {
				fmt.Println()
			}

			return nil
		},
	}
}

// NextOncallCmd creates the nextOncall command
func NextOncallCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nextOncall <surname>",
		Short: "Show the next on-call week for a rotation member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			friday, err := app.Rotation.NextOnCallWeek(args[0], time.Now().In(app.Location))
			if err != nil {
				return fmt.Errorf("%s is not in the on-call rotation", args[0])
			}

			fmt.Printf("\n%s is next on call the week of Friday %s\n\n",
				args[0], friday.Format("2006-01-02"))
			return nil
		},
	}
}
