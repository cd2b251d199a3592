package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfroyo/crudapi/pkg/stores"
)

func TestMalformedRequestsNeverReachStore(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		detail string
	}{
		{"non-integer item id", http.MethodGet, "/api/items/abc", "", "Invalid id"},
		{"non-integer delete id", http.MethodDelete, "/api/items/1.5", "", "Invalid id"},
		{"non-integer todo id", http.MethodPatch, "/api/todos/x/toggle", "", "Invalid id"},
		{"bad id before blank title", http.MethodPut, "/api/todos/x", `{"title":""}`, "Invalid id"},
		{"missing body", http.MethodPost, "/api/items", "", "Request body is required"},
		{"invalid json", http.MethodPost, "/api/items", `{"title":`, "Malformed JSON body"},
		{"array body", http.MethodPost, "/api/todos", `["x"]`, "Request body must be a JSON object"},
		{"missing title", http.MethodPost, "/api/items", `{"name":"x"}`, "Field required: title"},
		{"null title", http.MethodPut, "/api/items/1", `{"title":null}`, "Field required: title"},
		{"numeric title", http.MethodPost, "/api/todos", `{"title":5}`, "Field title must be a string"},
		{"trailing garbage", http.MethodPost, "/api/items", `{"title":"a"} garbage`, "Malformed JSON body"},
		{"second json value", http.MethodPut, "/api/todos/1", `{"title":"a"}{}`, "Malformed JSON body"},
		{"oversized body", http.MethodPost, "/api/todos", `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`, "Request body too large"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			h := newFakeServer(t, store)

			rec := doRequest(t, h, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Equal(t, tc.detail, detailOf(t, rec))
			assert.Empty(t, store.Calls())
		})
	}
}

func TestBlankTitleBeforeNotFound(t *testing.T) {
	store := &fakeStore{err: stores.ErrNotFound}
	h := newFakeServer(t, store)

	rec := doRequest(t, h, http.MethodPut, "/api/items/999", `{"title":" "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required.", detailOf(t, rec))
	assert.Empty(t, store.Calls())

	rec = doRequest(t, h, http.MethodPut, "/api/items/999", `{"title":"ok"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"UpdateItem"}, store.Calls())
}

func TestUnknownFieldsIgnored(t *testing.T) {
	store := &fakeStore{}
	h := newFakeServer(t, store)

	rec := doRequest(t, h, http.MethodPost, "/api/items", `{"title":"x","extra":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"CreateItem"}, store.Calls())

	rec = doRequest(t, h, http.MethodPost, "/api/items", "{\"title\":\"y\"}\n\n")
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestStoreFailureIsInternalError(t *testing.T) {
	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/items", ""},
		{http.MethodGet, "/api/items/1", ""},
		{http.MethodPost, "/api/items", `{"title":"x"}`},
		{http.MethodPut, "/api/items/1", `{"title":"x"}`},
		{http.MethodDelete, "/api/items/1", ""},
		{http.MethodGet, "/api/todos", ""},
		{http.MethodPost, "/api/todos", `{"title":"x"}`},
		{http.MethodPut, "/api/todos/1", `{"title":"x"}`},
		{http.MethodPatch, "/api/todos/1/toggle", ""},
		{http.MethodDelete, "/api/todos/1", ""},
	}

	h := newFakeServer(t, &fakeStore{err: errors.New("connection refused: secret-host")})
	for _, tc := range cases {
		rec := doRequest(t, h, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusInternalServerError, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Internal Server Error", detailOf(t, rec))
		assert.NotContains(t, rec.Body.String(), "secret-host")
	}
}

func TestReadiness(t *testing.T) {
	store := &fakeStore{}
	h := newFakeServer(t, store)

	rec := doRequest(t, h, http.MethodGet, "/api/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	store.healthErr = errors.New("ping failed")
	rec = doRequest(t, h, http.MethodGet, "/api/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Store unavailable", detailOf(t, rec))
}

func TestHealthDoesNotTouchStore(t *testing.T) {
	store := &fakeStore{healthErr: errors.New("down")}
	h := newFakeServer(t, store)

	rec := doRequest(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.Calls())
}

func TestRouting(t *testing.T) {
	store := &fakeStore{}
	h := newFakeServer(t, store)

	rec := doRequest(t, h, http.MethodPost, "/api/health", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Method Not Allowed", detailOf(t, rec))
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)

	rec = doRequest(t, h, http.MethodDelete, "/api/items", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", detailOf(t, rec))
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodPost)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodPatch, "/api/items/1/toggle"},
		{http.MethodGet, "/"},
	} {
		rec = doRequest(t, h, tc.method, tc.path, "")
		require.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Not Found", detailOf(t, rec))
	}
	assert.Empty(t, store.Calls())
}

func TestErrorClassification(t *testing.T) {
	err := NewNotFoundError("Item")
	assert.Equal(t, ErrorClassNotFound, asError(err).Class)
	assert.Equal(t, "Item not found", err.Detail)
	assert.Equal(t, http.StatusNotFound, err.Status)

	route := NewRouteNotFoundError()
	assert.Equal(t, ErrorClassNotFound, route.Class)
	assert.Equal(t, "Not Found", route.Detail)

	method := NewMethodNotAllowedError()
	assert.Equal(t, ErrorClassMethodNotAllowed, method.Class)
	assert.Equal(t, http.StatusMethodNotAllowed, method.Status)

	cause := errors.New("disk full")
	internal := asError(cause)
	assert.Equal(t, ErrorClassInternal, internal.Class)
	assert.ErrorIs(t, internal, cause)
	assert.Contains(t, internal.Error(), "disk full")

	validation := NewValidationError("Title is required.")
	assert.Same(t, validation, asError(validation))
	assert.Equal(t, "[validation] Title is required.", validation.Error())
}
