package cliconfig

import (
	"os"
	"path/filepath"
	"time"
)

// SolverFileConfig is the [solver] table of the server TOML file.
type SolverFileConfig struct {
	Strategy         string   `toml:"strategy"`
	PopulationSize   int      `toml:"population_size"`
	Generations      int      `toml:"generations"`
	SelectionRatio   float64  `toml:"selection_ratio"`
	MutationRate     *float64 `toml:"mutation_rate"`
	ReinsertionRatio *float64 `toml:"reinsertion_ratio"`
	MaxExactCells    int      `toml:"max_exact_cells"`
	Seed             uint64   `toml:"seed"`
}

// ServerFileConfig mirrors ServerConfig but uses strings for durations to make TOML friendly.
type ServerFileConfig struct {
	Addr            string  `toml:"addr"`
	LogLevel        string  `toml:"log_level"`
	Watch           *bool   `toml:"watch"`
	Workers         int     `toml:"workers"`
	QueueSize       int     `toml:"queue_size"`
	SolveTimeout    string  `toml:"solve_timeout"`
	RateLimit       float64 `toml:"rate_limit"`
	RateLimitBurst  int     `toml:"rate_limit_burst"`
	MaxBodyBytes    int     `toml:"max_body_bytes"`
	ReadTimeout     string  `toml:"read_timeout"`
	WriteTimeout    string  `toml:"write_timeout"`
	IdleTimeout     string  `toml:"idle_timeout"`
	ShutdownTimeout string  `toml:"shutdown_timeout"`
	BackoffInitial  string  `toml:"backoff_initial"`
	BackoffMax      string  `toml:"backoff_max"`

	Solver SolverFileConfig `toml:"solver"`
}

// LoadServerFileConfig reads and parses a TOML config file from the given path.
func LoadServerFileConfig(path string) (ServerFileConfig, error) {
	var fc ServerFileConfig
	err := loadTOML(path, &fc)
	return fc, err
}

// DefaultServerConfigPath returns ~/.knapsack/server.toml, or "" without a home directory.
func DefaultServerConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".knapsack", "server.toml")
	}
	return ""
}

// ApplyServerFileConfig applies configuration from a file to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyServerFileConfig(cfg *ServerConfig, fc ServerFileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("addr", fc.Addr, &cfg.Addr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("queue-size", fc.QueueSize, &cfg.QueueSize)
	s.setFloat("rate-limit", fc.RateLimit, &cfg.RateLimit)
	s.setInt("rate-limit-burst", fc.RateLimitBurst, &cfg.RateLimitBurst)
	s.setInt("max-body-bytes", fc.MaxBodyBytes, &cfg.MaxBodyBytes)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"solve-timeout", fc.SolveTimeout, &cfg.SolveTimeout},
		{"read-timeout", fc.ReadTimeout, &cfg.ReadTimeout},
		{"write-timeout", fc.WriteTimeout, &cfg.WriteTimeout},
		{"idle-timeout", fc.IdleTimeout, &cfg.IdleTimeout},
		{"shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout},
		{"backoff-initial", fc.BackoffInitial, &cfg.BackoffInitial},
		{"backoff-max", fc.BackoffMax, &cfg.BackoffMax},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	ApplySolverFileConfig(&cfg.Solver, fc.Solver, changed)
	return nil
}

// ApplySolverFileConfig applies the [solver] table to cfg.
func ApplySolverFileConfig(cfg *SolverConfig, fc SolverFileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("strategy", fc.Strategy, &cfg.Strategy)
	s.setInt("population", fc.PopulationSize, &cfg.PopulationSize)
	s.setInt("generations", fc.Generations, &cfg.Generations)
	s.setFloat("selection-ratio", fc.SelectionRatio, &cfg.SelectionRatio)
	s.setFloatPtr("mutation-rate", fc.MutationRate, &cfg.MutationRate)
	s.setFloatPtr("reinsertion-ratio", fc.ReinsertionRatio, &cfg.ReinsertionRatio)
	s.setInt("max-exact-cells", fc.MaxExactCells, &cfg.MaxExactCells)
	s.setUint64("seed", fc.Seed, &cfg.Seed)
}
