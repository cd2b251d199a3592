package stores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestBackup(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateItem(ctx, "kept"); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := store.Backup(ctx, dest); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	if err := store.Backup(ctx, dest); err == nil {
		t.Fatal("expected error when destination exists")
	}

	restored, err := NewSQLStore(Config{Dialect: DialectSQLite, Path: dest})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := restored.Init(ctx); err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer restored.Close()

	items, err := restored.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "kept" {
		t.Errorf("backup items = %+v, want one item titled kept", items)
	}
}

func TestBackupUnsupportedDialect(t *testing.T) {
	store := &SQLStore{dialect: DialectPostgres, db: setupTestStore(t).db}

	err := store.Backup(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	if !errors.Is(err, ErrBackupUnsupported) {
		t.Errorf("Backup() error = %v, want ErrBackupUnsupported", err)
	}
}
