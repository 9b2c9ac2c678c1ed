package cliconfig

import (
	"os"
	"time"
)

// ApplyServerEnvConfig applies KNAPSACKD_* environment variables to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyServerEnvConfig(cfg *ServerConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("addr", os.Getenv("KNAPSACKD_ADDR"), &cfg.Addr)
	s.setString("log-level", os.Getenv("KNAPSACKD_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("watch", os.Getenv("KNAPSACKD_WATCH"), &cfg.Watch)
	s.setString("strategy", os.Getenv("KNAPSACKD_SOLVER_STRATEGY"), &cfg.Solver.Strategy)

	ints := []struct {
		flag string
		env  string
		dst  *int
	}{
		{"workers", "KNAPSACKD_WORKERS", &cfg.Workers},
		{"queue-size", "KNAPSACKD_QUEUE_SIZE", &cfg.QueueSize},
		{"rate-limit-burst", "KNAPSACKD_RATE_LIMIT_BURST", &cfg.RateLimitBurst},
		{"max-body-bytes", "KNAPSACKD_MAX_BODY_BYTES", &cfg.MaxBodyBytes},
		{"population", "KNAPSACKD_SOLVER_POPULATION_SIZE", &cfg.Solver.PopulationSize},
		{"generations", "KNAPSACKD_SOLVER_GENERATIONS", &cfg.Solver.Generations},
		{"max-exact-cells", "KNAPSACKD_SOLVER_MAX_EXACT_CELLS", &cfg.Solver.MaxExactCells},
	}
	for _, f := range ints {
		if err := s.setIntFromString(f.flag, os.Getenv(f.env), f.dst); err != nil {
			return err
		}
	}

	floats := []struct {
		flag string
		env  string
		dst  *float64
	}{
		{"rate-limit", "KNAPSACKD_RATE_LIMIT", &cfg.RateLimit},
		{"selection-ratio", "KNAPSACKD_SOLVER_SELECTION_RATIO", &cfg.Solver.SelectionRatio},
		{"mutation-rate", "KNAPSACKD_SOLVER_MUTATION_RATE", &cfg.Solver.MutationRate},
		{"reinsertion-ratio", "KNAPSACKD_SOLVER_REINSERTION_RATIO", &cfg.Solver.ReinsertionRatio},
	}
	for _, f := range floats {
		if err := s.setFloatFromString(f.flag, os.Getenv(f.env), f.dst); err != nil {
			return err
		}
	}

	durations := []struct {
		flag string
		env  string
		dst  *time.Duration
	}{
		{"solve-timeout", "KNAPSACKD_SOLVE_TIMEOUT", &cfg.SolveTimeout},
		{"read-timeout", "KNAPSACKD_READ_TIMEOUT", &cfg.ReadTimeout},
		{"write-timeout", "KNAPSACKD_WRITE_TIMEOUT", &cfg.WriteTimeout},
		{"idle-timeout", "KNAPSACKD_IDLE_TIMEOUT", &cfg.IdleTimeout},
		{"shutdown-timeout", "KNAPSACKD_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
		{"backoff-initial", "KNAPSACKD_BACKOFF_INITIAL", &cfg.BackoffInitial},
		{"backoff-max", "KNAPSACKD_BACKOFF_MAX", &cfg.BackoffMax},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, os.Getenv(d.env), d.dst); err != nil {
			return err
		}
	}

	return s.setUint64FromString("seed", os.Getenv("KNAPSACKD_SOLVER_SEED"), &cfg.Solver.Seed)
}
