package stores_test

import (
	"context"
	"fmt"
	"log"

	"github.com/openfroyo/crudapi/pkg/stores"
)

// ExampleNewSQLStore demonstrates creating and initializing a new SQLite store.
func ExampleNewSQLStore() {
	store, err := stores.NewSQLStore(stores.Config{
		Dialect: stores.DialectSQLite,
		Path:    ":memory:", // Use in-memory database for example
	})
	if err != nil {
		log.Fatal(err)
	}

	// Initialize the database connection
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Store initialized successfully")
	// Output: Store initialized successfully
}

// ExampleSQLStore_ToggleTodo demonstrates flipping a todo's completed flag.
func ExampleSQLStore_ToggleTodo() {
	store, _ := stores.NewSQLStore(stores.Config{Path: ":memory:"})
	ctx := context.Background()
	_ = store.Init(ctx)
	_ = store.Migrate(ctx)
	defer store.Close()

	todo, err := store.CreateTodo(ctx, "Buy milk")
	if err != nil {
		log.Fatal(err)
	}

	if err := store.ToggleTodo(ctx, todo.ID); err != nil {
		log.Fatal(err)
	}

	todos, _ := store.ListTodos(ctx)
	fmt.Printf("%s completed=%v\n", todos[0].Title, todos[0].Completed)
	// Output: Buy milk completed=true
}
