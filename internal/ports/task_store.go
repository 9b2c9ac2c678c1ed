package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
)

// TaskStore keeps tasks through their lifecycle.
// Implementations must return copies so callers cannot mutate stored state.
type TaskStore interface {
	// Insert adds a new task. Returns domain.ErrTaskExists on a duplicate id.
	Insert(ctx context.Context, task domain.Task) error

	// Get returns the task with the given id or domain.ErrTaskNotFound.
	Get(ctx context.Context, id uuid.UUID) (domain.Task, error)

	// MarkStarted moves a submitted task to started and returns it.
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) (domain.Task, error)

	// Complete records the solution and moves a started task to completed.
	Complete(ctx context.Context, id uuid.UUID, sol domain.Solution, at time.Time) error

	// Delete removes a task. Returns domain.ErrTaskNotFound for an unknown id.
	Delete(ctx context.Context, id uuid.UUID) error
}
