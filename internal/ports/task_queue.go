package ports

import (
	"context"

	"github.com/google/uuid"
)

// TaskQueue carries submitted task ids from the API to the optimizer.
type TaskQueue interface {
	// Publish enqueues id, blocking until there is room or ctx ends.
	// Returns domain.ErrQueueClosed after Close.
	Publish(ctx context.Context, id uuid.UUID) error

	// Consume blocks until an id is available or ctx ends.
	// Returns domain.ErrQueueClosed once the queue is closed and drained.
	Consume(ctx context.Context) (uuid.UUID, error)

	// Close stops accepting new ids.
	Close() error
}
