// Package api implements the HTTP/JSON surface of crudapi.
//
// Routes live under /api/ and cover two resources, items and todos, backed by
// a stores.Store injected at construction. Every request is validated before
// the store is touched: malformed ids and bodies are rejected with 422, a
// blank title with 400, and only then is the store called. Not-found is
// derived from the store's own result, never from a separate lookup.
//
// Error bodies always have the form {"detail": "..."}.
package api
