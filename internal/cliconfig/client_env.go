package cliconfig

import "os"

// ApplyClientEnvConfig applies KNAPSACK_* environment variables to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyClientEnvConfig(cfg *ClientConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", os.Getenv("KNAPSACK_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("encoding", os.Getenv("KNAPSACK_ENCODING"), &cfg.Encoding)
	s.setString("log-level", os.Getenv("KNAPSACK_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("print", os.Getenv("KNAPSACK_PRINT"), &cfg.Print)

	if err := s.setDuration("timeout", os.Getenv("KNAPSACK_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setUint64FromString("seed", os.Getenv("KNAPSACK_SEED"), &cfg.Seed); err != nil {
		return err
	}

	ints := []struct {
		flag string
		env  string
		dst  *int
	}{
		{"items", "KNAPSACK_ITEMS", &cfg.Items},
		{"capacity-min", "KNAPSACK_CAPACITY_MIN", &cfg.CapacityMin},
		{"capacity-max", "KNAPSACK_CAPACITY_MAX", &cfg.CapacityMax},
		{"weight-min", "KNAPSACK_WEIGHT_MIN", &cfg.WeightMin},
		{"weight-max", "KNAPSACK_WEIGHT_MAX", &cfg.WeightMax},
		{"value-min", "KNAPSACK_VALUE_MIN", &cfg.ValueMin},
		{"value-max", "KNAPSACK_VALUE_MAX", &cfg.ValueMax},
	}
	for _, f := range ints {
		if err := s.setIntFromString(f.flag, os.Getenv(f.env), f.dst); err != nil {
			return err
		}
	}

	return nil
}
