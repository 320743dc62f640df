package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/cmd/cli/commands"
	"github.com/mattdrummond/netroster/internal/config"
	"github.com/mattdrummond/netroster/pkg/clients/gmailclient"
	"github.com/mattdrummond/netroster/pkg/postgres"
	"github.com/mattdrummond/netroster/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "netroster",
		Short: "netroster - Manage NCS duty rotations for recurring nets",
		Long:  `A tool for managing net control station rotations: recurring schedules, swaps and cancellations, and duty reminder emails.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Database != nil {
					app.Database.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(appRef()))
	rootCmd.AddCommand(commands.ScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.NextCmd(appRef()))
	rootCmd.AddCommand(commands.MembersCmd(appRef()))
	rootCmd.AddCommand(commands.OverrideCmd(appRef()))
	rootCmd.AddCommand(commands.RemindCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, created empty so commands can be
// registered before initApp populates it
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, gmail client, and database
func initApp() error {
	var err error
	a := appRef()
	a.Ctx = context.Background()

	a.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Logger.Info("Starting application", zap.String("environment", env))

	a.Logger.Info("Loading configuration")
	a.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded successfully")

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	a.Logger.Debug("OAuth configuration loaded successfully")

	a.Logger.Info("Initializing gmail client")
	a.GmailClient, err = gmailclient.NewClient(a.Ctx, oauthCfg, env, a.Cfg.GmailSender)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}
	a.Logger.Debug("Gmail client initialized successfully")

	a.Logger.Info("Connecting to database")
	a.Database, err = postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.Logger.Info("Database connected successfully")

	return nil
}
