package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
)

// TaskStore implements ports.TaskStore with a map guarded by a RWMutex.
// Tasks live only as long as the process.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewTaskStore creates an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Insert adds a new task.
func (s *TaskStore) Insert(_ context.Context, task domain.Task) error {
	if err := task.Problem.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskExists, task.ID)
	}
	t := task.Clone()
	s.tasks[task.ID] = &t
	return nil
}

// Get returns a copy of the stored task.
func (s *TaskStore) Get(_ context.Context, id uuid.UUID) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return t.Clone(), nil
}

// MarkStarted moves a submitted task to started.
func (s *TaskStore) MarkStarted(_ context.Context, id uuid.UUID, at time.Time) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	if err := t.Start(at); err != nil {
		return domain.Task{}, err
	}
	return t.Clone(), nil
}

// Complete records sol on a started task.
func (s *TaskStore) Complete(_ context.Context, id uuid.UUID, sol domain.Solution, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	// Complete only mutates t on success.
	return t.Complete(sol, at)
}

// Delete removes the task with the given id.
func (s *TaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	delete(s.tasks, id)
	return nil
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
