package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucabarin/turnario/cmd/cli/commands"
	"github.com/lucabarin/turnario/internal/config"
	"github.com/lucabarin/turnario/pkg/clients/kafkanotifier"
	"github.com/lucabarin/turnario/pkg/clients/sheetsclient"
	"github.com/lucabarin/turnario/pkg/clients/xlsxclient"
	"github.com/lucabarin/turnario/pkg/core/booking"
	"github.com/lucabarin/turnario/pkg/core/importer"
	"github.com/lucabarin/turnario/pkg/core/marketplace"
	"github.com/lucabarin/turnario/pkg/db"
	"github.com/lucabarin/turnario/pkg/postgres"
	"github.com/lucabarin/turnario/pkg/utils/logging"
)

var (
	app      *commands.AppContext
	database *postgres.DB
	notifier *kafkanotifier.Notifier
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "turnario",
		Short: "Turnario CLI - Manage maintenance team shifts",
		Long:  `A CLI tool for managing shift bookings, the on-call rotation, the marketplace board, and daily activity imports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if notifier != nil {
				notifier.Close()
			}
			if database != nil {
				database.Close()
			}
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(commands.SyncOncallCmd(appRef()))
	rootCmd.AddCommand(commands.NextOncallCmd(appRef()))
	rootCmd.AddCommand(commands.BookCmd(appRef()))
	rootCmd.AddCommand(commands.CancelCmd(appRef()))
	rootCmd.AddCommand(commands.BoardCmd(appRef()))
	rootCmd.AddCommand(commands.PublishCmd(appRef()))
	rootCmd.AddCommand(commands.ClaimCmd(appRef()))
	rootCmd.AddCommand(commands.WithdrawCmd(appRef()))
	rootCmd.AddCommand(commands.RequestSubCmd(appRef()))
	rootCmd.AddCommand(commands.RespondCmd(appRef()))
	rootCmd.AddCommand(commands.ImportActivitiesCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext. Commands are built before initApp
// runs, so they must all close over the same struct that initApp fills in.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{Ctx: context.Background()}
	}
	return app
}

// initApp sets up logger, config, clients, engines, and database
func initApp() error {
	var err error
	app = appRef()

	app.Logger, err = logging.InitLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Rotation, err = app.Cfg.RotationCalendar()
	if err != nil {
		return fmt.Errorf("failed to build rotation calendar: %w", err)
	}
	app.Location, err = app.Cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Store = database

	notifier = kafkanotifier.NewNotifier(app.Cfg.Kafka.Brokers, app.Cfg.Kafka.Topic)

	source, err := buildActivitySource()
	if err != nil {
		return err
	}

	app.Booking = booking.NewEngine(database, app.Rotation, database, app.Logger)
	app.Marketplace = marketplace.NewEngine(database, notifier, database, app.Logger)
	app.Importer = importer.NewImporter(source, app.Logger)

	app.Logger.Debug("Application initialized",
		zap.String("activity_source", app.Cfg.ActivitySheet.Source))

	return nil
}

// buildActivitySource picks the daily-sheet backend from config
func buildActivitySource() (db.ActivitySource, error) {
	switch app.Cfg.ActivitySheet.Source {
	case "gsheets":
		oauthCfg, err := config.LoadOAuthClient()
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Cfg.ActivitySheet.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return client, nil
	case "xlsx":
		return xlsxclient.NewClient(app.Cfg.ActivitySheet.WorkbookDir), nil
	default:
		return nil, fmt.Errorf("unknown activity source: %s", app.Cfg.ActivitySheet.Source)
	}
}
