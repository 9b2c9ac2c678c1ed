package cliconfig

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/bft-labs/knapsack/internal/app"
	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/service"
	"github.com/bft-labs/knapsack/internal/solver"
)

// SolverConfig is the [solver] table of the server configuration.
// It can be reloaded while the server runs.
type SolverConfig struct {
	Strategy         string
	PopulationSize   int
	Generations      int
	SelectionRatio   float64
	MutationRate     float64
	ReinsertionRatio float64
	MaxExactCells    int
	Seed             uint64
}

// Solver converts to the solver package configuration.
func (c SolverConfig) Solver() (solver.Config, error) {
	strategy, err := solver.ParseStrategy(c.Strategy)
	if err != nil {
		return solver.Config{}, err
	}
	cfg := solver.Config{
		Strategy:         strategy,
		PopulationSize:   c.PopulationSize,
		Generations:      c.Generations,
		SelectionRatio:   c.SelectionRatio,
		MutationRate:     c.MutationRate,
		ReinsertionRatio: c.ReinsertionRatio,
		MaxExactCells:    c.MaxExactCells,
		Seed:             c.Seed,
	}
	return cfg, cfg.Validate()
}

// ServerConfig holds CLI configuration for knapsackd.
type ServerConfig struct {
	// ConfigPath is the file the configuration was loaded from, if any.
	ConfigPath string
	// Watch reloads the [solver] table when ConfigPath changes.
	Watch bool

	Addr     string
	LogLevel string

	Workers      int
	QueueSize    int
	SolveTimeout time.Duration

	RateLimit      float64
	RateLimitBurst int
	MaxBodyBytes   int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BackoffInitial time.Duration
	BackoffMax     time.Duration

	Solver SolverConfig
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() ServerConfig {
	d := service.DefaultConfig()
	return ServerConfig{
		Watch:           true,
		Addr:            d.Server.Addr,
		LogLevel:        "info",
		Workers:         d.Workers,
		QueueSize:       d.QueueSize,
		SolveTimeout:    d.Optimizer.SolveTimeout,
		RateLimit:       float64(d.Server.RateLimit),
		RateLimitBurst:  d.Server.RateLimitBurst,
		MaxBodyBytes:    int(d.Server.MaxBodyBytes),
		ReadTimeout:     d.Server.ReadTimeout,
		WriteTimeout:    d.Server.WriteTimeout,
		IdleTimeout:     d.Server.IdleTimeout,
		ShutdownTimeout: d.Server.ShutdownTimeout,
		BackoffInitial:  d.Optimizer.BackoffInitial,
		BackoffMax:      d.Optimizer.BackoffMax,
		Solver: SolverConfig{
			Strategy:         string(d.Solver.Strategy),
			PopulationSize:   d.Solver.PopulationSize,
			Generations:      d.Solver.Generations,
			SelectionRatio:   d.Solver.SelectionRatio,
			MutationRate:     d.Solver.MutationRate,
			ReinsertionRatio: d.Solver.ReinsertionRatio,
			MaxExactCells:    d.Solver.MaxExactCells,
		},
	}
}

// Service converts to the service configuration and validates it.
func (c ServerConfig) Service() (service.Config, error) {
	if c.MaxBodyBytes < 1 {
		return service.Config{}, fmt.Errorf("%w: max body bytes must be positive", domain.ErrInvalidConfig)
	}
	sc, err := c.Solver.Solver()
	if err != nil {
		return service.Config{}, err
	}

	cfg := service.DefaultConfig()
	cfg.Server.Addr = c.Addr
	cfg.Server.RateLimit = rate.Limit(c.RateLimit)
	cfg.Server.RateLimitBurst = c.RateLimitBurst
	cfg.Server.MaxBodyBytes = int64(c.MaxBodyBytes)
	cfg.Server.ReadTimeout = c.ReadTimeout
	cfg.Server.WriteTimeout = c.WriteTimeout
	cfg.Server.IdleTimeout = c.IdleTimeout
	cfg.Server.ShutdownTimeout = c.ShutdownTimeout
	cfg.Solver = sc
	cfg.Optimizer = app.OptimizerConfig{
		SolveTimeout:   c.SolveTimeout,
		BackoffInitial: c.BackoffInitial,
		BackoffMax:     c.BackoffMax,
	}
	cfg.Workers = c.Workers
	cfg.QueueSize = c.QueueSize

	if err := cfg.Validate(); err != nil {
		return service.Config{}, err
	}
	return cfg, nil
}
