// Package knapsack embeds the knapsack solver service and the random
// instance generator.
//
// Example usage:
//
//	cfg := knapsack.DefaultConfig()
//	cfg.Server.Addr = ":6543"
//	svc, err := knapsack.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package knapsack

import (
	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/generator"
	"github.com/bft-labs/knapsack/internal/service"
)

// Problem is a 0-1 knapsack instance.
type Problem = domain.Problem

// Solution is the item selection found for a Problem.
type Solution = domain.Solution

// Config holds the service configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = service.Config

// Service accepts instances over HTTP and solves them in the background.
type Service = service.Service

// Option customizes a Service.
type Option = service.Option

// Ranges bounds the quantities drawn by Generate.
type Ranges = generator.Ranges

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return service.DefaultConfig()
}

// New creates a Service. It does not start listening until Start or Run.
func New(cfg Config, opts ...Option) (*Service, error) {
	return service.New(cfg, opts...)
}

// WithLogger, WithTaskStore and WithEmitter re-export the service options.
var (
	WithLogger    = service.WithLogger
	WithTaskStore = service.WithTaskStore
	WithEmitter   = service.WithEmitter
)

// DefaultRanges returns the generator's default ranges.
func DefaultRanges() Ranges {
	return generator.DefaultRanges()
}

// Generate draws a random instance within r. A seed of 0 uses the clock.
func Generate(seed uint64, r Ranges) Problem {
	return generator.Generate(generator.NewRand(seed), r)
}
