// Package handlers implements the mock API endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	httpContracts "github.com/alexieremia/burgersocial/internal/http"
	"github.com/alexieremia/burgersocial/internal/store"
)

// Metrics receives the domain measurements the handlers produce
type Metrics interface {
	ObserveResults(source string, n int)
	LiveSessions(delta float64)
	Totals() (requests, live float64)
}

type nopMetrics struct{}

func (nopMetrics) ObserveResults(string, int) {}
func (nopMetrics) LiveSessions(float64)       {}
func (nopMetrics) Totals() (float64, float64) { return 0, 0 }

// Options configure the handlers
type Options struct {
	Version      string
	LiveDebounce time.Duration
	Metrics      Metrics
}

// Handlers manages all HTTP endpoint handlers
type Handlers struct {
	store        store.Store
	version      string
	started      time.Time
	liveDebounce time.Duration
	metrics      Metrics
	upgrader     websocket.Upgrader
}

// NewHandlers creates a new handlers instance over s
func NewHandlers(s store.Store, opts Options) *Handlers {
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	if opts.LiveDebounce < 0 {
		opts.LiveDebounce = 0
	}
	return &Handlers{
		store:        s,
		version:      opts.Version,
		started:      time.Now(),
		liveDebounce: opts.LiveDebounce,
		metrics:      opts.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// any origin, same as the CORS policy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id stored by WithRequestID, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// writeJSON writes JSON response with proper error handling
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// writeError writes the standard error body
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteError(w, r, status, message)
}

// WriteError writes {"error": message} with the request id attached.
// The server uses it for responses produced outside the handlers.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := httpContracts.ErrorResponse{Error: message, RequestID: RequestID(r.Context())}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("encode error response")
	}
}

// NotFound handles 404 responses
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, "Not found")
}

// MethodNotAllowed handles requests to a known path with the wrong method
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
