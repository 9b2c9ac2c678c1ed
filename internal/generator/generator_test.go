package generator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bft-labs/knapsack/internal/domain"
)

func TestGenerate_DefaultBounds(t *testing.T) {
	rng := NewRand(42)
	r := DefaultRanges()

	for run := 0; run < 500; run++ {
		p := Generate(rng, r)

		if p.Capacity < 10 || p.Capacity > 1000 {
			t.Fatalf("run %d: capacity %d out of [10,1000]", run, p.Capacity)
		}
		if len(p.Weights) != 100 || len(p.Values) != 100 {
			t.Fatalf("run %d: got %d weights and %d values, want 100 each", run, len(p.Weights), len(p.Values))
		}
		for i := range p.Weights {
			if p.Weights[i] < 5 || p.Weights[i] > 100 {
				t.Fatalf("run %d: weight[%d]=%d out of [5,100]", run, i, p.Weights[i])
			}
			if p.Values[i] < 5 || p.Values[i] > 100 {
				t.Fatalf("run %d: value[%d]=%d out of [5,100]", run, i, p.Values[i])
			}
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("run %d: generated invalid problem: %v", run, err)
		}
	}
}

func TestGenerate_HitsBothEnds(t *testing.T) {
	rng := NewRand(7)
	r := Ranges{Items: 2000, CapacityMin: 1, CapacityMax: 1, WeightMin: 1, WeightMax: 3, ValueMin: 0, ValueMax: 1}
	p := Generate(rng, r)

	seen := map[int]bool{}
	for _, w := range p.Weights {
		seen[w] = true
	}
	for _, want := range []int{1, 2, 3} {
		if !seen[want] {
			t.Errorf("weight %d never drawn from [1,3]", want)
		}
	}
	if p.Capacity != 1 {
		t.Errorf("capacity = %d, want 1 for a degenerate range", p.Capacity)
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a := Generate(NewRand(1234), DefaultRanges())
	b := Generate(NewRand(1234), DefaultRanges())

	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different instances")
	}
}

func TestGenerate_NoItems(t *testing.T) {
	r := DefaultRanges()
	r.Items = 0
	p := Generate(NewRand(1), r)

	if p.Len() != 0 || len(p.Values) != 0 {
		t.Fatalf("expected no items, got %d", p.Len())
	}
}

func TestRanges_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Ranges)
		wantErr bool
	}{
		{"defaults", func(*Ranges) {}, false},
		{"negative items", func(r *Ranges) { r.Items = -1 }, true},
		{"inverted capacity", func(r *Ranges) { r.CapacityMin, r.CapacityMax = 50, 10 }, true},
		{"negative weight min", func(r *Ranges) { r.WeightMin = -1 }, true},
		{"value max too large", func(r *Ranges) { r.ValueMax = domain.MaxQuantity + 1 }, true},
		{"single point ranges", func(r *Ranges) { r.WeightMin, r.WeightMax = 7, 7 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRanges()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
