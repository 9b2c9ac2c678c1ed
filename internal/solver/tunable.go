package solver

import (
	"context"
	"sync/atomic"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
)

type tuned struct {
	cfg    Config
	solver ports.Solver
}

// Tunable is a Solver whose configuration can be replaced while in use.
// A Solve in progress finishes with the configuration it started with.
type Tunable struct {
	cur atomic.Pointer[tuned]
}

// NewTunable creates a Tunable solving with cfg.
func NewTunable(cfg Config) (*Tunable, error) {
	t := &Tunable{}
	if err := t.Update(cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// Update swaps in cfg. An invalid cfg leaves the current solver in place.
func (t *Tunable) Update(cfg Config) error {
	s, err := New(cfg)
	if err != nil {
		return err
	}
	t.cur.Store(&tuned{cfg: cfg, solver: s})
	return nil
}

// Config returns the active configuration.
func (t *Tunable) Config() Config {
	return t.cur.Load().cfg
}

// Name returns the active strategy name.
func (t *Tunable) Name() string {
	return t.cur.Load().solver.Name()
}

// Solve delegates to the active solver.
func (t *Tunable) Solve(ctx context.Context, p domain.Problem) (domain.Solution, error) {
	return t.cur.Load().solver.Solve(ctx, p)
}
