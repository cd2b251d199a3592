package commands

import (
	"github.com/spf13/cobra"
)

func newBackupCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up a SQLite database",
		Long: `Write a consistent copy of the SQLite database while it stays online.

Only the sqlite driver is supported; use pg_dump for PostgreSQL.`,
		Example: `  # Hot-copy the database
  DB_DRIVER=sqlite DB_PATH=./crudapi.db crudapi backup --out backup.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Backup(cmd.Context(), outFile); err != nil {
				return err
			}
			a.logger.WithField("out", outFile).Info("backup written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "crudapi-backup.db", "backup output file")

	return cmd
}
