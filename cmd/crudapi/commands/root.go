package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	environment string
	verbose     bool

	// serviceVersion is reported in traces.
	serviceVersion string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	serviceVersion = version

	rootCmd := &cobra.Command{
		Use:   "crudapi",
		Short: "crudapi - items and todos over HTTP/JSON",
		Long: `crudapi serves a small CRUD API for items and todos backed by
PostgreSQL or SQLite.

Database and listener settings come from the environment (DB_*, HTTP_ADDR,
CORS_ORIGINS). Logging, tracing and metrics are read from an optional YAML
file given with --config; its log level is reloaded while serving.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "telemetry config file path")
	rootCmd.PersistentFlags().StringVar(&environment, "env", "development", "telemetry preset (development, production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newBackupCommand())

	return rootCmd
}
