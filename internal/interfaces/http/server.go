package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/alexieremia/burgersocial/internal/interfaces/http/handlers"
	"github.com/alexieremia/burgersocial/internal/net/ratelimit"
	"github.com/alexieremia/burgersocial/internal/store"
)

// Server is the mock API server
type Server struct {
	router   *mux.Router
	handler  http.Handler
	handlers *handlers.Handlers
	metrics  *MetricsRegistry
	limiter  *ratelimit.Limiter
	config   ServerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	// RateLimit is requests per second per client address; 0 disables limiting
	RateLimit    float64
	RateBurst    int
	LiveDebounce time.Duration
	Version      string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "127.0.0.1",
		Port:            3001,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,
		RateLimit:       20,
		RateBurst:       40,
		LiveDebounce:    300 * time.Millisecond,
		Version:         "dev",
	}
}

// NewServer creates a new HTTP server over s
func NewServer(config ServerConfig, s store.Store) *Server {
	metrics := NewMetricsRegistry()
	server := &Server{
		router:  mux.NewRouter(),
		metrics: metrics,
		limiter: ratelimit.NewLimiter(config.RateLimit, config.RateBurst),
		handlers: handlers.NewHandlers(s, handlers.Options{
			Version:      config.Version,
			LiveDebounce: config.LiveDebounce,
			Metrics:      metrics,
		}),
		config: config,
	}
	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// websocket first: it must not get the request timeout and must win over /restaurants/{id}
	s.router.HandleFunc("/api/restaurants/live", s.handlers.Live).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.timeoutMiddleware)
	// a subrouter does not inherit the parent's fallbacks
	api.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(s.handlers.MethodNotAllowed)

	api.HandleFunc("/users", s.handlers.Users).Methods("GET")
	api.HandleFunc("/users/{id}", s.handlers.User).Methods("GET")
	api.HandleFunc("/users/{id}/reviews", s.handlers.UserReviews).Methods("GET")

	api.HandleFunc("/restaurants", s.handlers.Restaurants).Methods("GET")
	api.HandleFunc("/restaurants/search", s.handlers.Search).Methods("GET")
	api.HandleFunc("/restaurants/{id}", s.handlers.Restaurant).Methods("GET")
	api.HandleFunc("/restaurants/{id}/reviews", s.handlers.RestaurantReviews).Methods("GET")

	api.HandleFunc("/reviews", s.handlers.Reviews).Methods("GET")
	api.HandleFunc("/reviews", s.handlers.CreateReview).Methods("POST")

	api.HandleFunc("/posts", s.handlers.Posts).Methods("GET")

	s.router.HandleFunc("/health", s.handlers.Health).Methods("GET")
	s.router.Handle("/metrics", s.metrics.MetricsHandler()).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.handlers.MethodNotAllowed)

	// wrapped outside the router so unmatched routes and preflights see it too
	var h http.Handler = s.router
	h = s.rateLimitMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.requestLoggingMiddleware(h)
	h = s.requestIDMiddleware(h)
	s.handler = h
}

// Handler returns the root handler with all middleware applied
func (s *Server) Handler() http.Handler { return s.handler }

// Metrics returns the server's metrics registry
func (s *Server) Metrics() *MetricsRegistry { return s.metrics }

// requestIDMiddleware adds unique request ID to each request
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(handlers.WithRequestID(r.Context(), requestID)))
	})
}

// requestLoggingMiddleware logs and measures every request
func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := s.routeTemplate(r)

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		duration := time.Since(start)

		s.metrics.RecordRequest(r.Method, route, wrapper.statusCode, duration)
		log.Info().
			Str("request_id", handlers.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// routeTemplate keeps metric label cardinality bounded
func (s *Server) routeTemplate(r *http.Request) string {
	var match mux.RouteMatch
	if !s.router.Match(r, &match) || match.MatchErr != nil || match.Route == nil {
		return "unmatched"
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}

// timeoutMiddleware enforces request timeouts
func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	if s.config.RequestTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware allows any origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware applies the per-client token bucket to /api routes
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") && !s.limiter.Allow(clientKey(r)) {
			s.metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			handlers.WriteError(w, r, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Address())
	if err != nil {
		return fmt.Errorf("port %d is busy or unavailable: %w", s.config.Port, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	if s.limiter.Enabled() {
		go s.limiter.RunPruner(pruneCtx, time.Minute, 10*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listener.Addr().String()).Str("version", s.config.Version).Msg("mock API listening")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Address returns the listen address
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// responseWrapper captures HTTP status codes for logging
type responseWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWrapper) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *responseWrapper) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack is required for the websocket upgrade
func (rw *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}
