package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// memoryPath is the SQLite path that selects a private in-memory database.
const memoryPath = ":memory:"

// idPredicate binds the id as BIGINT. A bare "id = $1" is typed int4 against
// SERIAL keys and pgx cannot encode ids above 2^31-1 into it.
const idPredicate = `id = CAST(? AS BIGINT)`

// Statements addressing a single record by id.
const (
	queryGetItem         = `SELECT id, title FROM items WHERE ` + idPredicate
	queryUpdateItem      = `UPDATE items SET title = ? WHERE ` + idPredicate + ` RETURNING id, title`
	queryDeleteItem      = `DELETE FROM items WHERE ` + idPredicate
	queryUpdateTodoTitle = `UPDATE todos SET title = ? WHERE ` + idPredicate
	queryToggleTodo      = `UPDATE todos SET completed = NOT completed WHERE ` + idPredicate
	queryDeleteTodo      = `DELETE FROM todos WHERE ` + idPredicate
)

// SQLStore implements the Store interface over database/sql
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	cfg     Config
}

// Config holds SQL store configuration
type Config struct {
	Dialect Dialect

	// Path is the SQLite database file; ":memory:" keeps everything in process.
	Path string

	// DSN is the Postgres connection string.
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLStore creates a new SQL store instance
func NewSQLStore(cfg Config) (*SQLStore, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = DialectSQLite
	}

	switch cfg.Dialect {
	case DialectSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is required")
		}
	case DialectPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database DSN is required")
		}
	default:
		return nil, fmt.Errorf("unsupported database dialect: %q", cfg.Dialect)
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	// Every connection to ":memory:" opens its own database.
	if cfg.Dialect == DialectSQLite && cfg.Path == memoryPath {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	return &SQLStore{
		dialect: cfg.Dialect,
		cfg:     cfg,
	}, nil
}

// Dialect reports the SQL backend of the store.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// Init opens the connection pool and verifies the store is reachable.
func (s *SQLStore) Init(ctx context.Context) error {
	db, err := sql.Open(s.dialect.driverName(), s.dialect.dataSource(s.cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates or upgrades the schema. It is safe to call repeatedly.
func (s *SQLStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, s.dialect.migrationsDir())
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, driverName, err := s.dialect.migrationDriver(s.db)
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, driverName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// BeginTx starts a new transaction
func (s *SQLStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// CommitTx commits a transaction
func (s *SQLStore) CommitTx(tx *sql.Tx) error {
	return tx.Commit()
}

// RollbackTx rolls back a transaction
func (s *SQLStore) RollbackTx(tx *sql.Tx) error {
	return tx.Rollback()
}

// withTx runs fn inside a transaction. The transaction is committed only when
// fn succeeds and is rolled back on every other path.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// ErrTxDone after a successful commit
		_ = s.RollbackTx(tx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := s.CommitTx(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// execAffectingOne runs a single-row write and maps zero affected rows to ErrNotFound.
func (s *SQLStore) execAffectingOne(ctx context.Context, op, query string, args ...any) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.dialect.rebind(query), args...)
		if err != nil {
			return fmt.Errorf("failed to %s: %w", op, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListItems lists all items, newest first
func (s *SQLStore) ListItems(ctx context.Context) ([]*Item, error) {
	query := `SELECT id, title FROM items ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// GetItem retrieves an item by ID
func (s *SQLStore) GetItem(ctx context.Context, id int64) (*Item, error) {
	query := queryGetItem

	item := &Item{}
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(query), id).Scan(&item.ID, &item.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// CreateItem inserts a new item and returns it with its assigned ID
func (s *SQLStore) CreateItem(ctx context.Context, title string) (*Item, error) {
	query := `INSERT INTO items (title) VALUES (?) RETURNING id, title`

	item := &Item{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, s.dialect.rebind(query), title).Scan(&item.ID, &item.Title); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem replaces an item's title and returns the updated row
func (s *SQLStore) UpdateItem(ctx context.Context, id int64, title string) (*Item, error) {
	query := queryUpdateItem

	item := &Item{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, s.dialect.rebind(query), title, id).Scan(&item.ID, &item.Title)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem deletes an item by ID
func (s *SQLStore) DeleteItem(ctx context.Context, id int64) error {
	return s.execAffectingOne(ctx, "delete item", queryDeleteItem, id)
}

// ListTodos lists all todos, newest first
func (s *SQLStore) ListTodos(ctx context.Context) ([]*Todo, error) {
	query := `SELECT id, title, completed FROM todos ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*Todo{}
	for rows.Next() {
		todo := &Todo{}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// CreateTodo inserts a new, not yet completed todo
func (s *SQLStore) CreateTodo(ctx context.Context, title string) (*Todo, error) {
	query := `INSERT INTO todos (title, completed) VALUES (?, ?) RETURNING id, title, completed`

	todo := &Todo{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, s.dialect.rebind(query), title, false)
		if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed); err != nil {
			return fmt.Errorf("failed to create todo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return todo, nil
}

// UpdateTodoTitle replaces a todo's title, leaving completed untouched
func (s *SQLStore) UpdateTodoTitle(ctx context.Context, id int64, title string) error {
	return s.execAffectingOne(ctx, "update todo", queryUpdateTodoTitle, title, id)
}

// ToggleTodo flips a todo's completed flag in a single statement
func (s *SQLStore) ToggleTodo(ctx context.Context, id int64) error {
	return s.execAffectingOne(ctx, "toggle todo", queryToggleTodo, id)
}

// DeleteTodo deletes a todo by ID
func (s *SQLStore) DeleteTodo(ctx context.Context, id int64) error {
	return s.execAffectingOne(ctx, "delete todo", queryDeleteTodo, id)
}

// HealthCheck verifies the database connection is healthy
func (s *SQLStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}
