package stores

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrBackupUnsupported is returned by Backup for dialects without a hot-copy.
var ErrBackupUnsupported = errors.New("backup is only supported for sqlite")

// Backup writes a consistent copy of a SQLite database to dest using VACUUM INTO.
// The store stays online while the copy is made. dest must not exist.
func (s *SQLStore) Backup(ctx context.Context, dest string) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if s.dialect != DialectSQLite {
		return ErrBackupUnsupported
	}
	if dest == "" {
		return fmt.Errorf("backup destination is required")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup destination %s already exists", dest)
	}

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	return nil
}
