package ports

import (
	"context"

	"github.com/bft-labs/knapsack/internal/domain"
)

// Solver finds a feasible packing for a problem.
type Solver interface {
	// Name identifies the strategy in logs and metrics.
	Name() string

	// Solve returns a feasible solution or an error if ctx ends first.
	Solve(ctx context.Context, p domain.Problem) (domain.Solution, error)
}
