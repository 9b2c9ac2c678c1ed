package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
)

// DefaultQueueSize is the buffer used when NewTaskQueue gets a non-positive size.
const DefaultQueueSize = 1024

// TaskQueue implements ports.TaskQueue over a buffered channel.
type TaskQueue struct {
	ids    chan uuid.UUID
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// NewTaskQueue creates a queue holding up to size pending ids.
func NewTaskQueue(size int) *TaskQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &TaskQueue{
		ids:  make(chan uuid.UUID, size),
		done: make(chan struct{}),
	}
}

// Publish enqueues id.
func (q *TaskQueue) Publish(ctx context.Context, id uuid.UUID) error {
	// The read lock keeps Close from closing ids while a send is pending.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return domain.ErrQueueClosed
	}
	select {
	case q.ids <- id:
		return nil
	case <-q.done:
		return domain.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns the next id.
func (q *TaskQueue) Consume(ctx context.Context) (uuid.UUID, error) {
	select {
	case id, ok := <-q.ids:
		if !ok {
			return uuid.Nil, domain.ErrQueueClosed
		}
		return id, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
}

// Close stops accepting ids. Pending ids can still be consumed.
func (q *TaskQueue) Close() error {
	q.once.Do(func() {
		close(q.done)

		q.mu.Lock()
		defer q.mu.Unlock()
		q.closed = true
		close(q.ids)
	})
	return nil
}

// Len returns the number of ids waiting to be consumed.
func (q *TaskQueue) Len() int {
	return len(q.ids)
}
