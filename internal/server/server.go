package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/bft-labs/knapsack/internal/ports"
)

// Readiness reports whether the service should receive traffic and, when
// it should not, why.
type Readiness interface {
	Ready() (bool, string)
}

// Server represents the HTTP server
type Server struct {
	config      Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	store       ports.TaskStore
	queue       ports.TaskQueue
	readiness   Readiness
	logger      ports.Logger
	now         func() time.Time
}

// New creates a server submitting tasks to store and queue.
func New(config Config, store ports.TaskStore, queue ports.TaskQueue, readiness Readiness, logger ports.Logger) *Server {
	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		store:       store,
		queue:       queue,
		readiness:   readiness,
		logger:      logger,
		now:         time.Now,
	}
	s.httpServer = &http.Server{
		Addr:         config.Addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	// API endpoints with middleware
	mux.HandleFunc("POST /knapsack", s.withMiddleware(s.handleSubmit))
	mux.HandleFunc("GET /knapsack/{id}", s.withMiddleware(s.handleGetTask))
	mux.HandleFunc("/knapsack", s.withMiddleware(s.methodNotAllowed(http.MethodPost)))
	mux.HandleFunc("/knapsack/{id}", s.withMiddleware(s.methodNotAllowed(http.MethodGet)))

	return mux
}

// Start serves on the configured address until ctx ends, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", ports.String("addr", ln.Addr().String()))

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}
