package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/knapsack/internal/cliconfig"
	"github.com/bft-labs/knapsack/internal/service"
	"github.com/bft-labs/knapsack/internal/solver"
)

func TestSolverReloader(t *testing.T) {
	t.Setenv("KNAPSACKD_SOLVER_STRATEGY", "")
	t.Setenv("KNAPSACKD_SOLVER_GENERATIONS", "")

	svc, err := service.New(service.DefaultConfig())
	if err != nil {
		t.Fatalf("service.New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "server.toml")
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	startup := cliconfig.DefaultServerConfig()
	startup.Solver.PopulationSize = 50
	changed := map[string]bool{"population": true}
	reload := solverReloader(startup, changed, svc)

	write("[solver]\nstrategy = \"exact\"\ngenerations = 7\npopulation_size = 999\n")
	if err := reload(context.Background(), path); err != nil {
		t.Fatalf("reload() error = %v", err)
	}
	got := svc.SolverConfig()
	if got.Strategy != solver.StrategyExact {
		t.Errorf("Strategy = %v, want exact", got.Strategy)
	}
	if got.Generations != 7 {
		t.Errorf("Generations = %d, want 7", got.Generations)
	}
	if got.PopulationSize != 50 {
		t.Errorf("PopulationSize = %d, want flag value 50", got.PopulationSize)
	}

	write("[solver]\nstrategy = \"annealing\"\n")
	if err := reload(context.Background(), path); err == nil {
		t.Fatal("reload() with unknown strategy succeeded")
	}
	if got := svc.SolverConfig().Strategy; got != solver.StrategyExact {
		t.Errorf("Strategy after failed reload = %v, want exact", got)
	}
}
