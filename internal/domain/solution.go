package domain

import (
	"fmt"
	"slices"
)

// Solution is a packing of a Problem.
type Solution struct {
	// PackedItems holds item indices in ascending order.
	PackedItems []int `json:"packed_items"`

	// TotalValue is the sum of the values of PackedItems.
	TotalValue int `json:"total_value"`
}

// NewSolution builds a Solution from a selection mask over p's items.
func NewSolution(p Problem, selected []bool) Solution {
	s := Solution{PackedItems: make([]int, 0)}
	for i, ok := range selected {
		if ok {
			s.PackedItems = append(s.PackedItems, i)
			s.TotalValue += p.Values[i]
		}
	}
	return s
}

// Weight returns the total weight of the packed items.
func (s Solution) Weight(p Problem) int {
	total := 0
	for _, i := range s.PackedItems {
		total += p.Weights[i]
	}
	return total
}

// Verify checks that s is a feasible packing of p and that TotalValue is consistent.
func (s Solution) Verify(p Problem) error {
	prev := -1
	weight, value := 0, 0
	for _, i := range s.PackedItems {
		if i < 0 || i >= p.Len() {
			return fmt.Errorf("%w: item %d out of range", ErrInvalidSolution, i)
		}
		if i <= prev {
			return fmt.Errorf("%w: items not strictly ascending at %d", ErrInvalidSolution, i)
		}
		prev = i
		weight += p.Weights[i]
		value += p.Values[i]
	}
	if weight > p.Capacity {
		return fmt.Errorf("%w: weight %d exceeds capacity %d", ErrInvalidSolution, weight, p.Capacity)
	}
	if value != s.TotalValue {
		return fmt.Errorf("%w: total value %d, packed items sum to %d", ErrInvalidSolution, s.TotalValue, value)
	}
	return nil
}

// Clone returns a deep copy of the solution.
func (s Solution) Clone() Solution {
	return Solution{
		PackedItems: slices.Clone(s.PackedItems),
		TotalValue:  s.TotalValue,
	}
}
