package cliconfig

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	httpadapter "github.com/bft-labs/knapsack/internal/adapters/http"
	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/generator"
)

// DefaultServiceURL is the base URL problems are submitted to.
const DefaultServiceURL = "http://localhost:6543"

// ClientConfig holds CLI configuration for knapsack-gen.
type ClientConfig struct {
	ServiceURL string
	Encoding   string

	// Timeout bounds the request. 0 means no timeout.
	Timeout time.Duration

	// Seed makes the generated instance reproducible. 0 seeds from the clock.
	Seed  uint64
	Print bool

	LogLevel string

	Items       int
	CapacityMin int
	CapacityMax int
	WeightMin   int
	WeightMax   int
	ValueMin    int
	ValueMax    int
}

// DefaultClientConfig returns a ClientConfig with default values.
func DefaultClientConfig() ClientConfig {
	r := generator.DefaultRanges()
	return ClientConfig{
		ServiceURL:  DefaultServiceURL,
		Encoding:    string(httpadapter.EncodingForm),
		LogLevel:    "info",
		Items:       r.Items,
		CapacityMin: r.CapacityMin,
		CapacityMax: r.CapacityMax,
		WeightMin:   r.WeightMin,
		WeightMax:   r.WeightMax,
		ValueMin:    r.ValueMin,
		ValueMax:    r.ValueMax,
	}
}

// Ranges returns the generator bounds.
func (c ClientConfig) Ranges() generator.Ranges {
	return generator.Ranges{
		Items:       c.Items,
		CapacityMin: c.CapacityMin,
		CapacityMax: c.CapacityMax,
		WeightMin:   c.WeightMin,
		WeightMax:   c.WeightMax,
		ValueMin:    c.ValueMin,
		ValueMax:    c.ValueMax,
	}
}

// Validate checks the configuration for errors and normalizes it.
func (c *ClientConfig) Validate() error {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
	u, err := url.Parse(c.ServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: service url %q must be absolute", domain.ErrInvalidConfig, c.ServiceURL)
	}

	enc, err := httpadapter.ParseEncoding(c.Encoding)
	if err != nil {
		return err
	}
	c.Encoding = string(enc)

	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", domain.ErrInvalidConfig)
	}
	return c.Ranges().Validate()
}
