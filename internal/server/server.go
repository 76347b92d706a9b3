// package server contains middleware & handlers for the song recommendation web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/tasks"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request ids, CORS, metrics, etc.
type Middleware func(http.Handler) http.Handler

// Route is a method and path pair served by a [Handler].
type Route struct {
	Method string
	Path   string
}

// Handler defines the interface for HTTP request handlers in the recommendation service.
// Implementations handle specific endpoints (recommendations, health).
type Handler interface {
	http.Handler    // ServeHTTP handles the HTTP request and writes the response
	Routes() []Route // Routes returns the method and path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures a [Server].
type Options struct {
	Addr            string        // Listen address, host:port
	AllowedOrigins  []string      // CORS origins (default "*")
	ShutdownTimeout time.Duration // Grace period for in-flight requests (default 10s)
	Metrics         *Metrics      // Collectors, created when nil
	Logger          *log.Logger
}

// Server exposes a [tasks.Pipeline] over HTTP.
type Server struct {
	router  *BasicRouter
	http    *http.Server
	metrics *Metrics
	timeout time.Duration
	logger  *log.Logger
}

// NewServer builds the router with all middleware and routes.
func NewServer(pipeline tasks.Pipeline, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	router := NewBasicRouter()
	router.Use(
		RequestID,
		Logging(opts.Logger),
		CORS(opts.AllowedOrigins),
		opts.Metrics.Middleware,
	)
	router.Handler(NewRecommendationsHandler(pipeline, opts.Metrics, opts.Logger))
	router.Handler(NewHealthHandler())
	router.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())

	return &Server{
		router:  router,
		metrics: opts.Metrics,
		timeout: opts.ShutdownTimeout,
		logger:  opts.Logger,
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and calls [Server.Run].
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.Run(ctx, ln)
}
