package server

import (
	"time"

	"golang.org/x/time/rate"
)

// Default server settings.
const (
	DefaultAddr            = ":6543"
	DefaultRateLimit       = 100
	DefaultRateLimitBurst  = 200
	DefaultMaxBodyBytes    = 1 << 20
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds server configuration
type Config struct {
	Addr string

	// Rate limiting configuration
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int

	// MaxBodyBytes caps a submitted request body.
	MaxBodyBytes int64

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the stock server settings.
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		RateLimit:       DefaultRateLimit,
		RateLimitBurst:  DefaultRateLimitBurst,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}
