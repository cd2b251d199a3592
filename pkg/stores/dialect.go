package stores

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"

	// Postgres driver (registers "pgx")
	_ "github.com/jackc/pgx/v5/stdlib"
	// SQLite driver (registers "sqlite")
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL backend a store talks to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect converts a driver name into a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case DialectSQLite:
		return DialectSQLite, nil
	case DialectPostgres:
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", name)
	}
}

// driverName returns the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// migrationsDir is the embedded directory holding the dialect's migrations.
func (d Dialect) migrationsDir() string {
	return "migrations/" + string(d)
}

// dataSource builds the connection string handed to sql.Open.
func (d Dialect) dataSource(cfg Config) string {
	if d == DialectPostgres {
		return cfg.DSN
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate", cfg.Path)
}

// migrationDriver wraps an open pool in the golang-migrate driver for the dialect.
func (d Dialect) migrationDriver(db *sql.DB) (database.Driver, string, error) {
	switch d {
	case DialectPostgres:
		driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
		return driver, "pgx5", err
	default:
		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		return driver, "sqlite", err
	}
}

// rebind rewrites ? placeholders into the dialect's bind syntax.
// Queries in this package never contain a literal '?'.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
