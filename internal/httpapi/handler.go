// Package httpapi exposes the todo service over HTTP/JSON.
package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todoapi/docs/schema/openapi"
	"todoapi/internal/blob"
	"todoapi/internal/core"
	"todoapi/internal/export"
	todolog "todoapi/internal/log"
	"todoapi/pkg/domain"
)

// Greeting is the body served at GET /.
const Greeting = "Hello todoapi!!"

const maxBodyBytes = 1 << 20

// Handler routes todo, user and operational endpoints.
type Handler struct {
	svc      *core.Service
	exports  *export.Exporter
	logger   *slog.Logger
	registry *prometheus.Registry
	root     http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithExporter enables the /todos/exports endpoints.
func WithExporter(e *export.Exporter) Option {
	return func(h *Handler) { h.exports = e }
}

// WithLogger sets the access and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRegistry sets the Prometheus registry served at /metrics. HTTP
// collectors are registered on it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(h *Handler) {
		if reg != nil {
			h.registry = reg
		}
	}
}

// NewHandler builds the HTTP surface for svc.
func NewHandler(svc *core.Service, opts ...Option) (*Handler, error) {
	h := &Handler{svc: svc, logger: todolog.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = prometheus.NewRegistry()
	}
	metrics, err := newHTTPMetrics(h.registry)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /todos", h.handleListTodos)
	mux.HandleFunc("POST /todos", h.handleCreateTodo)
	mux.HandleFunc("GET /todos/{id}", h.handleFindTodo)
	mux.HandleFunc("PATCH /todos/{id}", h.handleUpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", h.handleDeleteTodo)
	mux.HandleFunc("GET /todos/exports", h.handleListExports)
	mux.HandleFunc("POST /todos/exports", h.handleCreateExport)
	mux.HandleFunc("POST /users", h.handleCreateUser)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /openapi.yaml", h.handleOpenAPI)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /debug/vars", expvar.Handler())

	h.root = requestID(accessLog(h.logger, metrics.instrument(mux)))
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Greeting))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapi.Spec())
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateTodo
	if !decodeBody(w, r, &in) {
		return
	}
	todo, err := h.svc.CreateTodo(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) handleFindTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	todo, err := h.svc.FindTodo(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.UpdateTodo
	if !decodeBody(w, r, &in) {
		return
	}
	todo, err := h.svc.UpdateTodo(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTodo(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateUser
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	if h.exports == nil {
		writeError(w, http.StatusServiceUnavailable, blob.ErrDisabled.Error())
		return
	}
	info, err := h.exports.Export(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *Handler) handleListExports(w http.ResponseWriter, r *http.Request) {
	if h.exports == nil {
		writeError(w, http.StatusServiceUnavailable, blob.ErrDisabled.Error())
		return
	}
	infos, err := h.exports.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": infos})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

// decodeBody reads exactly one JSON value from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body: unexpected data after JSON value")
		return false
	}
	return true
}

// writeServiceError maps the domain error taxonomy onto status codes.
// Unexpected errors are logged and reported without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
