package commands

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Create or upgrade the items and todos tables, then exit.

Running it against an up-to-date database is a no-op.`,
		Example: `  # Migrate a PostgreSQL database
  DB_HOST=db DB_PASSWORD=secret crudapi migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Migrate(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("migrations applied")
			return nil
		},
	}

	return cmd
}
