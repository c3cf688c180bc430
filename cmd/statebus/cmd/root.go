package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nfrund/statebus/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "statebus",
	Short: "Inspect and exercise statebus topic configurations",
	Long: `statebus is a command-line companion for the statebus broker library.

Available commands:
  topics list    List the topics declared in a topics file
  topics get     Show one topic's configuration
  demo           Run a publish/subscribe/clear walkthrough

Use "statebus [command] --help" for more information about a specific command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// No .env file is fine; the environment still applies.
		_ = godotenv.Load()
		logging.New()
		slog.Debug("statebus CLI initialized")
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
