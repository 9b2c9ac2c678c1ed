package domain

import (
	"fmt"
	"math"
	"slices"
)

// MaxQuantity is the largest capacity, weight or value a problem may carry.
const MaxQuantity = math.MaxInt32

// Problem is a 0-1 knapsack instance.
// Weights[i] and Values[i] describe item i.
type Problem struct {
	Capacity int   `json:"capacity"`
	Weights  []int `json:"weights"`
	Values   []int `json:"values"`
}

// Len returns the number of items.
func (p Problem) Len() int {
	return len(p.Weights)
}

// Validate checks that weights and values pair up and that every quantity
// is within [0, MaxQuantity].
func (p Problem) Validate() error {
	if len(p.Weights) != len(p.Values) {
		return fmt.Errorf("%w: %d weights but %d values", ErrInvalidProblem, len(p.Weights), len(p.Values))
	}
	if p.Capacity < 0 || p.Capacity > MaxQuantity {
		return fmt.Errorf("%w: capacity %d out of range", ErrInvalidProblem, p.Capacity)
	}
	for i, w := range p.Weights {
		if w < 0 || w > MaxQuantity {
			return fmt.Errorf("%w: weight[%d]=%d out of range", ErrInvalidProblem, i, w)
		}
	}
	for i, v := range p.Values {
		if v < 0 || v > MaxQuantity {
			return fmt.Errorf("%w: value[%d]=%d out of range", ErrInvalidProblem, i, v)
		}
	}
	return nil
}

// Clone returns a deep copy of the problem.
func (p Problem) Clone() Problem {
	return Problem{
		Capacity: p.Capacity,
		Weights:  slices.Clone(p.Weights),
		Values:   slices.Clone(p.Values),
	}
}
