package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucabarin/turnario/pkg/core/timeutil"
)

// ImportActivitiesCmd creates the importActivities command
func ImportActivitiesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importActivities <user_id> <dd-mm-yyyy>",
		Short: "List the field activities a user took part in on a given day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			day, err := time.ParseInLocation("02-01-2006", args[1], app.Location)
			if err != nil {
				return fmt.Errorf("date must be dd-mm-yyyy, got: %s", args[1])
			}

			contacts, err := app.Store.ListUsers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to load contacts: %w", err)
			}

			activities, err := app.Importer.FindActivities(
				app.Ctx, userID,
				day.Day(), int(day.Month()), day.Year(),
				contacts, app.Cfg.ExcludedPdL,
			)
			if err != nil {
				return err
			}

			if len(activities) == 0 {
				fmt.Printf("\nNo activities found for %s on %s\n", userID, args[1])
				return nil
			}

			app.Logger.Debug("importActivities command",
				zap.String("user_id", userID),
				zap.Int("activities", len(activities)))

			fmt.Printf("\n%d activities for %s on %s:\n\n", len(activities), userID, args[1])
			for _, a := range activities {
				names := make([]string, 0, len(a.Team))
				for _, member := range a.Team {
					names = append(names, member.Name)
				}

				fmt.Printf("  PdL %s  %s\n", a.PdL, a.Description)
				for _, slot := range timeutil.MergeTimeSlots(a.Slots) {
					fmt.Printf("    %s (%s)\n", slot, slotDuration(slot, day, app.Location))
				}
				fmt.Printf("    Team: %s\n\n", strings.Join(names, ", "))
			}

			return nil
		},
	}
}

// slotDuration renders the elapsed hours of one merged "HH:MM - HH:MM" slot on
// the given day. Slots crossing midnight roll into the next day.
func slotDuration(slot string, day time.Time, loc *time.Location) string {
	parts := strings.SplitN(slot, " - ", 2)
	if len(parts) != 2 {
		return "?"
	}

	date := day.Format("2006-01-02")
	hours, err := timeutil.ShiftDuration(date+"T"+parts[0]+":00", date+"T"+parts[1]+":00", loc)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%.1fh", hours)
}
