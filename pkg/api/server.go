package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/openfroyo/crudapi/pkg/stores"
	"github.com/openfroyo/crudapi/pkg/telemetry"
)

// Options configures a Server.
type Options struct {
	// AllowedOrigins is the CORS allow-list. An empty list disables CORS headers.
	AllowedOrigins []string
}

// Server serves the /api routes over an injected store.
type Server struct {
	store    stores.Store
	tel      *telemetry.Telemetry
	logger   *telemetry.Logger
	validate *validator.Validate
	opts     Options

	mux     *http.ServeMux
	handler http.Handler
}

// handlerFunc is a route handler that reports failures as errors instead of
// writing them itself.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// NewServer creates a Server and registers its routes.
func NewServer(store stores.Store, tel *telemetry.Telemetry, opts Options) *Server {
	s := &Server{
		store:    store,
		tel:      tel,
		logger:   tel.Logger.NewComponentLogger("api"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
		mux:      http.NewServeMux(),
	}
	s.routes()
	s.handler = s.middleware(s.dispatch())
	return s
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() {
	s.handle("GET /api/health", "health", s.handleHealth)
	s.handle("GET /api/ready", "ready", s.handleReady)

	s.handle("GET /api/items", "items.list", s.handleListItems)
	s.handle("POST /api/items", "items.create", s.handleCreateItem)
	s.handle("GET /api/items/{id}", "items.get", s.handleGetItem)
	s.handle("PUT /api/items/{id}", "items.update", s.handleUpdateItem)
	s.handle("DELETE /api/items/{id}", "items.delete", s.handleDeleteItem)

	s.handle("GET /api/todos", "todos.list", s.handleListTodos)
	s.handle("POST /api/todos", "todos.create", s.handleCreateTodo)
	s.handle("PUT /api/todos/{id}", "todos.update", s.handleUpdateTodo)
	s.handle("PATCH /api/todos/{id}/toggle", "todos.toggle", s.handleToggleTodo)
	s.handle("DELETE /api/todos/{id}", "todos.delete", s.handleDeleteTodo)

	if path := s.tel.Metrics.Path(); path != "" {
		s.mux.Handle("GET "+path, s.tel.Metrics.Handler())
	}
}

func (s *Server) handle(pattern, operation string, h handlerFunc) {
	s.mux.Handle(pattern, s.instrument(operation, h))
}

// dispatch serves matched routes from the mux and sends everything else to
// handleUnmatched so that 404 and 405 answers carry a JSON body too.
func (s *Server) dispatch() http.Handler {
	unmatched := s.instrument("unmatched", s.handleUnmatched)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := s.mux.Handler(r); pattern == "" {
			unmatched.ServeHTTP(w, r)
			return
		}
		s.mux.ServeHTTP(w, r)
	})
}

// handleUnmatched keeps the mux's own 404/405 decision and Allow header.
func (s *Server) handleUnmatched(w http.ResponseWriter, r *http.Request) error {
	h, _ := s.mux.Handler(r)
	decision := &headerRecorder{header: http.Header{}, status: http.StatusOK}
	h.ServeHTTP(decision, r)

	if decision.status == http.StatusMethodNotAllowed {
		if allow := decision.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		return NewMethodNotAllowedError()
	}
	return NewRouteNotFoundError()
}

// instrument wraps h in a span, records request metrics and turns a returned
// error into its JSON response. A panic is recorded as a 500 and re-raised
// for recoverPanics to answer.
func (s *Server) instrument(operation string, h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource, _, _ := strings.Cut(operation, ".")
		ic := s.tel.StartOperation(r.Context(), operation,
			telemetry.AttrResource.String(resource),
			telemetry.AttrHTTPMethod.String(r.Method),
			telemetry.AttrHTTPRoute.String(r.Pattern),
			telemetry.AttrRequestID.String(w.Header().Get(RequestIDHeader)),
		)
		s.tel.Metrics.RequestStarted()

		rec := newStatusRecorder(w)
		var spanErr error
		defer func() {
			v := recover()
			status := rec.status
			if v != nil {
				spanErr = fmt.Errorf("panic: %v", v)
				status = http.StatusInternalServerError
			}

			ic.Span.SetAttributes(telemetry.AttrHTTPStatus.Int(status))
			s.tel.Metrics.RecordRequest(operation, r.Method, status, ic.Timer.Duration())
			s.tel.Metrics.RequestFinished()
			ic.End(spanErr)

			if v != nil {
				panic(v)
			}
		}()

		err := h(rec, r.WithContext(ic.Ctx))
		if err == nil {
			return
		}

		apiErr := asError(err)
		s.tel.Metrics.RecordError(string(apiErr.Class), apiErr.Code)
		ic.Span.SetAttributes(
			telemetry.AttrErrorClass.String(string(apiErr.Class)),
			telemetry.AttrErrorCode.String(apiErr.Code),
		)
		logger := ic.Logger
		if id, err := strconv.ParseInt(r.PathValue("id"), 10, 64); err == nil {
			logger = logger.WithRecordID(id)
		}
		if apiErr.Status >= http.StatusInternalServerError {
			spanErr = apiErr
			logger.WithError(apiErr.Err).Error(apiErr.Detail)
		} else {
			logger.Debugf("request rejected: %s", apiErr.Detail)
		}
		writeError(rec, apiErr)
	})
}
