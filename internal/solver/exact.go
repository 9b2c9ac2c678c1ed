package solver

import (
	"context"

	"github.com/bft-labs/knapsack/internal/domain"
)

// Exact solves by dynamic programming over the capacity and is optimal.
// Instances whose table would exceed MaxExactCells go to the genetic solver.
type Exact struct {
	maxCells int
	fallback *Genetic
}

// NewExact creates an exact solver. cfg must have passed Validate.
func NewExact(cfg Config) *Exact {
	return &Exact{
		maxCells: cfg.MaxExactCells,
		fallback: NewGenetic(cfg),
	}
}

// Name returns "exact".
func (e *Exact) Name() string {
	return string(StrategyExact)
}

// Solve returns an optimal packing, or the genetic result for oversized instances.
func (e *Exact) Solve(ctx context.Context, p domain.Problem) (domain.Solution, error) {
	if err := p.Validate(); err != nil {
		return domain.Solution{}, err
	}
	n := p.Len()
	if n > 0 && p.Capacity+1 > e.maxCells/n {
		return e.fallback.Solve(ctx, p)
	}

	// best[w] is the highest value reachable with weight <= w using the items
	// seen so far; take[i][w] records whether item i improved best[w].
	best := make([]int, p.Capacity+1)
	take := make([][]bool, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Solution{}, err
		}
		take[i] = make([]bool, p.Capacity+1)
		wi, vi := p.Weights[i], p.Values[i]
		for w := p.Capacity; w >= wi; w-- {
			if v := best[w-wi] + vi; v > best[w] {
				best[w] = v
				take[i][w] = true
			}
		}
	}

	selected := make([]bool, n)
	w := p.Capacity
	for i := n - 1; i >= 0; i-- {
		if take[i][w] {
			selected[i] = true
			w -= p.Weights[i]
		}
	}
	return domain.NewSolution(p, selected), nil
}
