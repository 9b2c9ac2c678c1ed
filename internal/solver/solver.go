// Package solver implements 0-1 knapsack solving strategies.
package solver

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
)

// Strategy names a solving algorithm.
type Strategy string

const (
	// StrategyGenetic evolves a population of packings.
	StrategyGenetic Strategy = "genetic"
	// StrategyExact runs dynamic programming over the capacity.
	StrategyExact Strategy = "exact"
)

// ParseStrategy converts a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyGenetic, StrategyExact:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: unsupported solver strategy %q", domain.ErrInvalidConfig, s)
	}
}

// Default tuning values.
const (
	DefaultPopulationSize   = 400
	DefaultGenerations      = 20
	DefaultSelectionRatio   = 0.85
	DefaultMutationRate     = 0.2
	DefaultReinsertionRatio = 0.85
	DefaultMaxExactCells    = 1 << 24
)

// Config tunes the solvers.
type Config struct {
	Strategy Strategy

	// Genetic parameters.
	PopulationSize   int
	Generations      int
	SelectionRatio   float64
	MutationRate     float64
	ReinsertionRatio float64

	// MaxExactCells bounds items*(capacity+1) for the exact strategy.
	// Larger instances are solved with the genetic strategy instead.
	MaxExactCells int

	// Seed makes runs reproducible. 0 seeds from the clock.
	Seed uint64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Strategy:         StrategyGenetic,
		PopulationSize:   DefaultPopulationSize,
		Generations:      DefaultGenerations,
		SelectionRatio:   DefaultSelectionRatio,
		MutationRate:     DefaultMutationRate,
		ReinsertionRatio: DefaultReinsertionRatio,
		MaxExactCells:    DefaultMaxExactCells,
	}
}

// Validate checks the tuning.
func (c Config) Validate() error {
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	if c.PopulationSize < 2 {
		return fmt.Errorf("%w: population size must be at least 2", domain.ErrInvalidConfig)
	}
	if c.Generations < 1 {
		return fmt.Errorf("%w: generations must be positive", domain.ErrInvalidConfig)
	}
	if c.SelectionRatio <= 0 || c.SelectionRatio > 1 {
		return fmt.Errorf("%w: selection ratio must be in (0,1]", domain.ErrInvalidConfig)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0,1]", domain.ErrInvalidConfig)
	}
	if c.ReinsertionRatio < 0 || c.ReinsertionRatio > 1 {
		return fmt.Errorf("%w: reinsertion ratio must be in [0,1]", domain.ErrInvalidConfig)
	}
	if c.MaxExactCells < 1 {
		return fmt.Errorf("%w: max exact cells must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// New is a factory that creates the Solver for cfg.Strategy.
func New(cfg Config) (ports.Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Strategy {
	case StrategyGenetic:
		return NewGenetic(cfg), nil
	case StrategyExact:
		return NewExact(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported solver strategy: %v", cfg.Strategy)
	}
}

// newRand returns a per-solve generator. A fixed seed yields identical runs.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
