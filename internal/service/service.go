// Package service runs the knapsack API server and its optimizer workers.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	logadapter "github.com/bft-labs/knapsack/internal/adapters/log"
	"github.com/bft-labs/knapsack/internal/adapters/memory"
	"github.com/bft-labs/knapsack/internal/app"
	"github.com/bft-labs/knapsack/internal/ports"
	"github.com/bft-labs/knapsack/internal/server"
	"github.com/bft-labs/knapsack/internal/solver"
)

// Service accepts problems over HTTP and solves them in the background.
// Use New() to create an instance, then Start() or Run().
type Service struct {
	config    Config
	lifecycle *app.Lifecycle
	store     ports.TaskStore
	solver    *solver.Tunable
	logger    ports.Logger
	emitter   Emitter

	mu     sync.Mutex
	queue  *memory.TaskQueue
	cancel context.CancelFunc
	addr   net.Addr
	done   chan error
}

// New creates a Service in StateStopped.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:  logadapter.NewNoopLogger(),
		emitter: app.MetricsEmitter{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.NewTaskStore()
	}

	tunable, err := solver.NewTunable(cfg.Solver)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:    cfg,
		lifecycle: app.NewLifecycle(o.logger, o.emitter),
		store:     o.store,
		solver:    tunable,
		logger:    o.logger,
		emitter:   o.emitter,
	}, nil
}

// Start binds the listener and launches the server and workers in the background.
// Tasks from a previous run stay readable, but ones that were never
// solved are not queued again.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		err = fmt.Errorf("listen on %s: %w", s.config.Server.Addr, err)
		_ = s.lifecycle.Crash(err)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	queue := memory.NewTaskQueue(s.config.QueueSize)
	srv := server.New(s.config.Server, s.store, queue, s.lifecycle, s.logger)
	s.queue = queue
	s.addr = ln.Addr()
	s.done = make(chan error, 1)

	g, gctx := errgroup.WithContext(runCtx)
	s.spawn(g, app.RoleServer, func() error {
		return srv.Serve(gctx, ln)
	})
	for i := 0; i < s.config.Workers; i++ {
		opt := app.NewOptimizer(s.config.Optimizer, queue, s.store, s.solver, s.logger, s.emitter)
		s.spawn(g, app.RoleOptimizer, func() error {
			if err := opt.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	done := s.done
	go func() {
		err := g.Wait()
		if err != nil {
			_ = s.lifecycle.Crash(err)
		}
		done <- err
	}()

	s.logger.Info("service started",
		ports.String("addr", s.addr.String()),
		ports.Int("workers", s.config.Workers),
		ports.String("strategy", s.solver.Name()),
	)
	return s.lifecycle.TransitionTo(app.StateRunning, "listening")
}

func (s *Service) spawn(g *errgroup.Group, role app.Role, fn func() error) {
	done := s.lifecycle.Track(role)
	g.Go(func() error {
		defer done()
		return fn()
	})
}

// Stop shuts down the server and workers.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (s *Service) Stop() error {
	s.mu.Lock()
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	_ = s.queue.Close()
	s.cancel()
	s.mu.Unlock()

	err := s.lifecycle.Wait(s.config.Server.ShutdownTimeout)
	if err != nil {
		_ = s.lifecycle.Crash(err)
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Run starts the service and blocks until ctx ends or the service crashes.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-done:
		return err
	}
}

// Addr returns the bound listen address, or nil before the first Start.
func (s *Service) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// State returns the current lifecycle state.
func (s *Service) State() app.State {
	return s.lifecycle.State()
}

// Ready reports whether the service is accepting tasks.
func (s *Service) Ready() bool {
	ok, _ := s.lifecycle.Ready()
	return ok
}

// Status returns the lifecycle state, why it was entered and the running
// server and optimizer goroutines.
func (s *Service) Status() app.Status {
	return s.lifecycle.Status()
}

// SolverConfig returns the active solver tuning.
func (s *Service) SolverConfig() solver.Config {
	return s.solver.Config()
}

// UpdateSolver swaps the solver tuning. Tasks already being solved keep the
// old tuning. An invalid cfg is rejected and the current tuning stays.
func (s *Service) UpdateSolver(cfg solver.Config) error {
	if err := s.solver.Update(cfg); err != nil {
		return err
	}
	s.logger.Info("solver updated",
		ports.String("strategy", string(cfg.Strategy)),
		ports.Int("population", cfg.PopulationSize),
		ports.Int("generations", cfg.Generations),
	)
	return nil
}
