// Package generator produces random 0-1 knapsack instances.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bft-labs/knapsack/internal/domain"
)

// Default bounds for generated instances.
const (
	DefaultItems       = 100
	DefaultCapacityMin = 10
	DefaultCapacityMax = 1000
	DefaultWeightMin   = 5
	DefaultWeightMax   = 100
	DefaultValueMin    = 5
	DefaultValueMax    = 100
)

// Ranges bounds a generated instance. All bounds are inclusive.
type Ranges struct {
	Items       int
	CapacityMin int
	CapacityMax int
	WeightMin   int
	WeightMax   int
	ValueMin    int
	ValueMax    int
}

// DefaultRanges returns the stock bounds: capacity in [10,1000] and
// 100 items with weight and value in [5,100].
func DefaultRanges() Ranges {
	return Ranges{
		Items:       DefaultItems,
		CapacityMin: DefaultCapacityMin,
		CapacityMax: DefaultCapacityMax,
		WeightMin:   DefaultWeightMin,
		WeightMax:   DefaultWeightMax,
		ValueMin:    DefaultValueMin,
		ValueMax:    DefaultValueMax,
	}
}

// Validate rejects ranges that cannot produce a valid problem.
func (r Ranges) Validate() error {
	if r.Items < 0 {
		return fmt.Errorf("%w: items must not be negative", domain.ErrInvalidConfig)
	}
	if err := checkRange("capacity", r.CapacityMin, r.CapacityMax); err != nil {
		return err
	}
	if err := checkRange("weight", r.WeightMin, r.WeightMax); err != nil {
		return err
	}
	return checkRange("value", r.ValueMin, r.ValueMax)
}

func checkRange(name string, lo, hi int) error {
	if lo < 0 {
		return fmt.Errorf("%w: %s min must not be negative", domain.ErrInvalidConfig, name)
	}
	if hi > domain.MaxQuantity {
		return fmt.Errorf("%w: %s max must not exceed %d", domain.ErrInvalidConfig, name, domain.MaxQuantity)
	}
	if lo > hi {
		return fmt.Errorf("%w: %s min %d greater than max %d", domain.ErrInvalidConfig, name, lo, hi)
	}
	return nil
}

// NewRand returns a generator seeded with seed, or with the clock when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate draws a problem from r using rng.
// r must have passed Validate.
func Generate(rng *rand.Rand, r Ranges) domain.Problem {
	p := domain.Problem{
		Capacity: between(rng, r.CapacityMin, r.CapacityMax),
		Weights:  make([]int, r.Items),
		Values:   make([]int, r.Items),
	}
	for i := 0; i < r.Items; i++ {
		p.Weights[i] = between(rng, r.WeightMin, r.WeightMax)
		p.Values[i] = between(rng, r.ValueMin, r.ValueMax)
	}
	return p
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
