package solver

import (
	"cmp"
	"context"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/bft-labs/knapsack/internal/domain"
)

// Genetic solves by evolving a population of item selections.
//
// Each generation keeps the fittest SelectionRatio of the population as the
// parent pool, breeds offspring with single-point crossover, mutates each gene
// to a random value with probability MutationRate, and builds the next
// population from the best ReinsertionRatio share of offspring plus the best
// parents. Fitness is the total value, or 0 when the packing is overweight.
type Genetic struct {
	cfg Config
}

// NewGenetic creates a genetic solver. cfg must have passed Validate.
func NewGenetic(cfg Config) *Genetic {
	return &Genetic{cfg: cfg}
}

// Name returns "genetic".
func (g *Genetic) Name() string {
	return string(StrategyGenetic)
}

type individual struct {
	genes   []bool
	fitness int
}

// Solve returns the best feasible packing seen in any generation.
func (g *Genetic) Solve(ctx context.Context, p domain.Problem) (domain.Solution, error) {
	if err := p.Validate(); err != nil {
		return domain.Solution{}, err
	}
	n := p.Len()
	if n == 0 {
		return domain.NewSolution(p, nil), nil
	}

	rng := newRand(g.cfg.Seed)
	pop := g.seed(rng, p)

	var best []bool
	bestValue := -1
	track := func(inds []individual) {
		for _, ind := range inds {
			if ind.fitness > bestValue && feasible(p, ind.genes) {
				bestValue = ind.fitness
				best = slices.Clone(ind.genes)
			}
		}
	}
	track(pop)

	for gen := 0; gen < g.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return domain.Solution{}, err
		}

		sortByFitness(pop)
		parents := pop[:share(len(pop), g.cfg.SelectionRatio, 2)]

		offspring := make([]individual, 0, len(pop)+1)
		for len(offspring) < len(pop) {
			a := parents[rng.IntN(len(parents))]
			b := parents[rng.IntN(len(parents))]
			c1, c2 := crossover(rng, a.genes, b.genes)
			g.mutate(rng, c1)
			g.mutate(rng, c2)
			offspring = append(offspring,
				individual{genes: c1, fitness: fitness(p, c1)},
				individual{genes: c2, fitness: fitness(p, c2)},
			)
		}
		offspring = offspring[:len(pop)]
		track(offspring)

		sortByFitness(offspring)
		keep := share(len(pop), g.cfg.ReinsertionRatio, 0)
		next := make([]individual, 0, len(pop))
		next = append(next, offspring[:keep]...)
		next = append(next, pop[:len(pop)-keep]...)
		pop = next
	}

	if best == nil {
		return domain.NewSolution(p, nil), nil
	}
	return domain.NewSolution(p, best), nil
}

// seed builds the initial population. Genes are switched on with a
// probability that puts the expected weight near the capacity, so a sizeable
// share of the first generation is feasible.
func (g *Genetic) seed(rng *rand.Rand, p domain.Problem) []individual {
	total := 0
	for _, w := range p.Weights {
		total += w
	}
	on := 0.5
	if total > 0 {
		on = math.Min(0.5, float64(p.Capacity)/float64(total))
	}

	pop := make([]individual, g.cfg.PopulationSize)
	for i := range pop {
		genes := make([]bool, p.Len())
		for j := range genes {
			genes[j] = rng.Float64() < on
		}
		pop[i] = individual{genes: genes, fitness: fitness(p, genes)}
	}
	return pop
}

func (g *Genetic) mutate(rng *rand.Rand, genes []bool) {
	for i := range genes {
		if rng.Float64() < g.cfg.MutationRate {
			genes[i] = rng.IntN(2) == 1
		}
	}
}

// crossover swaps the tails of a and b after a random cut point.
func crossover(rng *rand.Rand, a, b []bool) ([]bool, []bool) {
	c1, c2 := slices.Clone(a), slices.Clone(b)
	if len(a) < 2 {
		return c1, c2
	}
	cut := 1 + rng.IntN(len(a)-1)
	copy(c1[cut:], b[cut:])
	copy(c2[cut:], a[cut:])
	return c1, c2
}

func fitness(p domain.Problem, genes []bool) int {
	weight, value := 0, 0
	for i, on := range genes {
		if on {
			weight += p.Weights[i]
			value += p.Values[i]
		}
	}
	if weight > p.Capacity {
		return 0
	}
	return value
}

func feasible(p domain.Problem, genes []bool) bool {
	weight := 0
	for i, on := range genes {
		if on {
			weight += p.Weights[i]
		}
	}
	return weight <= p.Capacity
}

func sortByFitness(pop []individual) {
	slices.SortStableFunc(pop, func(a, b individual) int {
		return cmp.Compare(b.fitness, a.fitness)
	})
}

// share returns round(n*ratio) clamped to [min(floor, n), n].
func share(n int, ratio float64, floor int) int {
	k := int(math.Round(float64(n) * ratio))
	if k < floor {
		k = floor
	}
	return min(k, n)
}
