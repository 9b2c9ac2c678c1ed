package cliconfig

import (
	"os"
	"path/filepath"
)

// ClientFileConfig mirrors ClientConfig but uses strings for durations to make TOML friendly.
type ClientFileConfig struct {
	ServiceURL string `toml:"service_url"`
	Encoding   string `toml:"encoding"`
	Timeout    string `toml:"timeout"`
	Seed       uint64 `toml:"seed"`
	Print      *bool  `toml:"print"`
	LogLevel   string `toml:"log_level"`

	Items       *int `toml:"items"`
	CapacityMin *int `toml:"capacity_min"`
	CapacityMax *int `toml:"capacity_max"`
	WeightMin   *int `toml:"weight_min"`
	WeightMax   *int `toml:"weight_max"`
	ValueMin    *int `toml:"value_min"`
	ValueMax    *int `toml:"value_max"`
}

// LoadClientFileConfig reads and parses a TOML config file from the given path.
func LoadClientFileConfig(path string) (ClientFileConfig, error) {
	var fc ClientFileConfig
	err := loadTOML(path, &fc)
	return fc, err
}

// DefaultClientConfigPath returns ~/.knapsack/client.toml, or "" without a home directory.
func DefaultClientConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".knapsack", "client.toml")
	}
	return ""
}

// ApplyClientFileConfig applies configuration from a file to cfg.
// It respects flags that have been explicitly set (changed map).
func ApplyClientFileConfig(cfg *ClientConfig, fc ClientFileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("encoding", fc.Encoding, &cfg.Encoding)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setUint64("seed", fc.Seed, &cfg.Seed)
	s.setBool("print", fc.Print, &cfg.Print)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}

	s.setIntPtr("items", fc.Items, &cfg.Items)
	s.setIntPtr("capacity-min", fc.CapacityMin, &cfg.CapacityMin)
	s.setIntPtr("capacity-max", fc.CapacityMax, &cfg.CapacityMax)
	s.setIntPtr("weight-min", fc.WeightMin, &cfg.WeightMin)
	s.setIntPtr("weight-max", fc.WeightMax, &cfg.WeightMax)
	s.setIntPtr("value-min", fc.ValueMin, &cfg.ValueMin)
	s.setIntPtr("value-max", fc.ValueMax, &cfg.ValueMax)

	return nil
}
