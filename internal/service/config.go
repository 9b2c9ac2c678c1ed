package service

import (
	"fmt"

	"github.com/bft-labs/knapsack/internal/adapters/memory"
	"github.com/bft-labs/knapsack/internal/app"
	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/server"
	"github.com/bft-labs/knapsack/internal/solver"
)

// DefaultWorkers is the number of optimizer goroutines.
const DefaultWorkers = 1

// Config holds the configuration for the solver service.
type Config struct {
	Server    server.Config
	Solver    solver.Config
	Optimizer app.OptimizerConfig

	// Workers is the number of concurrent optimizer loops.
	Workers int

	// QueueSize bounds the number of submitted tasks waiting for a worker.
	QueueSize int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Server: server.DefaultConfig(),
		Solver: solver.DefaultConfig(),
		Optimizer: app.OptimizerConfig{
			BackoffInitial: app.DefaultBackoffInitial,
			BackoffMax:     app.DefaultBackoffMax,
		},
		Workers:   DefaultWorkers,
		QueueSize: memory.DefaultQueueSize,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue size must be positive", domain.ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: listen address is required", domain.ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("%w: max body bytes must be positive", domain.ErrInvalidConfig)
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate limit and burst must be positive", domain.ErrInvalidConfig)
	}
	if c.Optimizer.SolveTimeout < 0 {
		return fmt.Errorf("%w: solve timeout must not be negative", domain.ErrInvalidConfig)
	}
	return c.Solver.Validate()
}
