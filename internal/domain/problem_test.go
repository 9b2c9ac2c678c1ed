package domain

import (
	"errors"
	"testing"
)

func TestProblem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		wantErr bool
	}{
		{"valid", Problem{Capacity: 10, Weights: []int{5, 6}, Values: []int{1, 2}}, false},
		{"empty items", Problem{Capacity: 10}, false},
		{"length mismatch", Problem{Capacity: 10, Weights: []int{5}, Values: []int{1, 2}}, true},
		{"negative capacity", Problem{Capacity: -1}, true},
		{"capacity too large", Problem{Capacity: MaxQuantity + 1}, true},
		{"negative weight", Problem{Capacity: 10, Weights: []int{-5}, Values: []int{1}}, true},
		{"value too large", Problem{Capacity: 10, Weights: []int{5}, Values: []int{MaxQuantity + 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.problem.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidProblem) {
				t.Errorf("Validate() error = %v, want ErrInvalidProblem", err)
			}
		})
	}
}

func TestProblem_CloneDoesNotAlias(t *testing.T) {
	p := Problem{Capacity: 10, Weights: []int{1, 2}, Values: []int{3, 4}}
	c := p.Clone()
	c.Weights[0] = 99
	c.Values[1] = 99

	if p.Weights[0] != 1 || p.Values[1] != 4 {
		t.Fatalf("Clone shares backing arrays: %+v", p)
	}
}

func TestSolution_Verify(t *testing.T) {
	p := Problem{Capacity: 10, Weights: []int{4, 5, 6}, Values: []int{10, 20, 30}}

	tests := []struct {
		name     string
		solution Solution
		wantErr  bool
	}{
		{"feasible", Solution{PackedItems: []int{0, 2}, TotalValue: 40}, false},
		{"empty", Solution{}, false},
		{"overweight", Solution{PackedItems: []int{1, 2}, TotalValue: 50}, true},
		{"wrong total", Solution{PackedItems: []int{0}, TotalValue: 11}, true},
		{"out of range", Solution{PackedItems: []int{3}, TotalValue: 0}, true},
		{"not ascending", Solution{PackedItems: []int{2, 0}, TotalValue: 40}, true},
		{"duplicate", Solution{PackedItems: []int{0, 0}, TotalValue: 20}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.solution.Verify(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSolution) {
				t.Errorf("Verify() error = %v, want ErrInvalidSolution", err)
			}
		})
	}
}

func TestNewSolution(t *testing.T) {
	p := Problem{Capacity: 10, Weights: []int{4, 5, 6}, Values: []int{10, 20, 30}}
	s := NewSolution(p, []bool{true, false, true})

	if len(s.PackedItems) != 2 || s.PackedItems[0] != 0 || s.PackedItems[1] != 2 {
		t.Fatalf("PackedItems = %v, want [0 2]", s.PackedItems)
	}
	if s.TotalValue != 40 {
		t.Errorf("TotalValue = %d, want 40", s.TotalValue)
	}
	if w := s.Weight(p); w != 10 {
		t.Errorf("Weight() = %d, want 10", w)
	}
}
