package domain

import "errors"

// Domain errors represent error conditions in the knapsack domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidProblem is returned when a problem violates its invariants.
	ErrInvalidProblem = errors.New("knapsack: invalid problem")

	// ErrInvalidSolution is returned when a solution does not fit its problem.
	ErrInvalidSolution = errors.New("knapsack: invalid solution")

	// ErrTaskNotFound is returned when a task id is unknown to the store.
	ErrTaskNotFound = errors.New("knapsack: task not found")

	// ErrTaskExists is returned when inserting a task id twice.
	ErrTaskExists = errors.New("knapsack: task already exists")

	// ErrInvalidTransition is returned when a task status change is out of order.
	ErrInvalidTransition = errors.New("knapsack: invalid status transition")

	// ErrQueueClosed is returned by a queue after Close.
	ErrQueueClosed = errors.New("knapsack: queue closed")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("knapsack: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("knapsack: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("knapsack: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("knapsack: invalid configuration")
)
