// Package stores provides the persistence layer for the crudapi service.
// It includes a database/sql backed store with SQLite and Postgres dialects,
// embedded schema migrations, and the item and todo CRUD operations.
package stores
