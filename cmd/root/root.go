// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fjacquet/pcrecon/internal/config"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/models"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "pcrecon",
		Short: "Reconcile custodian data feeds for PortfolioCenter.",
		Long: `pcrecon converts custodian export files to the PortfolioCenter
interchange format, processes Batch Status Reports and downloads the
historical prices needed to resolve unpriced positions.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to pcrecon!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg

			// A broken code table must fail the run before any file is
			// touched.
			if err := models.ValidateTxnCodes(); err != nil {
				Log.Fatalf("Invalid transaction code table: %v", err)
			}
		},
	}
)

// Logger returns the shared logger wrapped in the logging abstraction.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
