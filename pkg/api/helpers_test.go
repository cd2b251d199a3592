package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openfroyo/crudapi/pkg/stores"
	"github.com/openfroyo/crudapi/pkg/telemetry"
)

var testOrigins = []string{"http://localhost:5173", "http://localhost"}

func newTestTelemetry(t *testing.T) *telemetry.Telemetry {
	t.Helper()

	cfg := telemetry.DefaultConfig()
	logger := telemetry.NewLoggerWithWriter(cfg.Logging, io.Discard)
	tel, err := telemetry.NewTelemetryWithLogger(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	return tel
}

// newSQLiteServer returns a server over a migrated SQLite store in a temp dir.
func newSQLiteServer(t *testing.T) http.Handler {
	t.Helper()

	store, err := stores.NewSQLStore(stores.Config{
		Dialect: stores.DialectSQLite,
		Path:    filepath.Join(t.TempDir(), "api.db"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })

	return NewServer(store, newTestTelemetry(t), Options{AllowedOrigins: testOrigins}).Handler()
}

func newFakeServer(t *testing.T, store *fakeStore) http.Handler {
	t.Helper()
	return NewServer(store, newTestTelemetry(t), Options{AllowedOrigins: testOrigins}).Handler()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorResponse](t, rec).Detail
}

// fakeStore records which operations were called and fails on demand.
type fakeStore struct {
	mu        sync.Mutex
	calls     []string
	err       error
	healthErr error
	panicOn   string
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, op)
	if f.panicOn == op {
		panic("boom in " + op)
	}
	return f.err
}

func (f *fakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) Init(context.Context) error    { return nil }
func (f *fakeStore) Close() error                  { return nil }
func (f *fakeStore) Migrate(context.Context) error { return nil }

func (f *fakeStore) HealthCheck(context.Context) error {
	_ = f.record("HealthCheck")
	return f.healthErr
}

func (f *fakeStore) ListItems(context.Context) ([]*stores.Item, error) {
	return nil, f.record("ListItems")
}

func (f *fakeStore) GetItem(_ context.Context, id int64) (*stores.Item, error) {
	if err := f.record("GetItem"); err != nil {
		return nil, err
	}
	return &stores.Item{ID: id, Title: "fake"}, nil
}

func (f *fakeStore) CreateItem(_ context.Context, title string) (*stores.Item, error) {
	if err := f.record("CreateItem"); err != nil {
		return nil, err
	}
	return &stores.Item{ID: 1, Title: title}, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, id int64, title string) (*stores.Item, error) {
	if err := f.record("UpdateItem"); err != nil {
		return nil, err
	}
	return &stores.Item{ID: id, Title: title}, nil
}

func (f *fakeStore) DeleteItem(context.Context, int64) error {
	return f.record("DeleteItem")
}

func (f *fakeStore) ListTodos(context.Context) ([]*stores.Todo, error) {
	return nil, f.record("ListTodos")
}

func (f *fakeStore) CreateTodo(_ context.Context, title string) (*stores.Todo, error) {
	if err := f.record("CreateTodo"); err != nil {
		return nil, err
	}
	return &stores.Todo{ID: 1, Title: title}, nil
}

func (f *fakeStore) UpdateTodoTitle(context.Context, int64, string) error {
	return f.record("UpdateTodoTitle")
}

func (f *fakeStore) ToggleTodo(context.Context, int64) error {
	return f.record("ToggleTodo")
}

func (f *fakeStore) DeleteTodo(context.Context, int64) error {
	return f.record("DeleteTodo")
}
