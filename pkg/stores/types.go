package stores

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the targeted record does not exist.
var ErrNotFound = errors.New("record not found")

// Item is a titled record.
type Item struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Todo is a titled record with a completion flag.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Store defines the interface for the persistence layer
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Item operations
	ListItems(ctx context.Context) ([]*Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	CreateItem(ctx context.Context, title string) (*Item, error)
	UpdateItem(ctx context.Context, id int64, title string) (*Item, error)
	DeleteItem(ctx context.Context, id int64) error

	// Todo operations
	ListTodos(ctx context.Context) ([]*Todo, error)
	CreateTodo(ctx context.Context, title string) (*Todo, error)
	UpdateTodoTitle(ctx context.Context, id int64, title string) error
	ToggleTodo(ctx context.Context, id int64) error
	DeleteTodo(ctx context.Context, id int64) error

	// Utility
	HealthCheck(ctx context.Context) error
}
