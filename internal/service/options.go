package service

import (
	"github.com/bft-labs/knapsack/internal/app"
	"github.com/bft-labs/knapsack/internal/ports"
)

// Option configures optional behavior of a Service.
type Option func(*options)

type options struct {
	logger  ports.Logger
	store   ports.TaskStore
	emitter Emitter
}

// Emitter receives lifecycle and task events.
type Emitter interface {
	app.EventEmitter
	app.TaskEventEmitter
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTaskStore replaces the in-memory task store.
func WithTaskStore(store ports.TaskStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithEmitter replaces the Prometheus event emitter.
func WithEmitter(emitter Emitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}
