package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
)

// OptimizerConfig contains configuration for the optimizer loop.
type OptimizerConfig struct {
	// SolveTimeout bounds a single Solve call. 0 means no limit.
	SolveTimeout time.Duration

	// Retry delays for recording a solution.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Optimizer consumes submitted task ids, solves them and records the solutions.
// Each worker goroutine needs its own Optimizer.
type Optimizer struct {
	config  OptimizerConfig
	retry   *backoff
	queue   ports.TaskQueue
	store   ports.TaskStore
	solver  ports.Solver
	logger  ports.Logger
	emitter TaskEventEmitter
	now     func() time.Time
}

// TaskEventEmitter is called as tasks move through the optimizer.
type TaskEventEmitter interface {
	OnTaskStarted(id uuid.UUID)
	OnTaskCompleted(id uuid.UUID, strategy string, value int, duration time.Duration)
	OnTaskFailed(id uuid.UUID, stage string, err error)
}

// NewOptimizer creates a new optimizer with the given dependencies.
func NewOptimizer(
	config OptimizerConfig,
	queue ports.TaskQueue,
	store ports.TaskStore,
	solver ports.Solver,
	logger ports.Logger,
	emitter TaskEventEmitter,
) *Optimizer {
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultBackoffInitial
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = DefaultBackoffMax
	}
	return &Optimizer{
		config:  config,
		retry:   newBackoff(config.BackoffInitial, config.BackoffMax),
		queue:   queue,
		store:   store,
		solver:  solver,
		logger:  logger,
		emitter: emitter,
		now:     time.Now,
	}
}

// Run executes the consume loop.
// Returns nil once the queue is closed and drained, or ctx.Err() when canceled.
func (o *Optimizer) Run(ctx context.Context) error {
	for {
		id, err := o.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrQueueClosed) {
				return nil
			}
			return err
		}

		if err := o.Process(ctx, id); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Single task failures don't stop the loop
			o.logger.Error("task failed", ports.String("task", id.String()), ports.Err(err))
		}
	}
}

// Process takes one task from submitted to completed.
func (o *Optimizer) Process(ctx context.Context, id uuid.UUID) error {
	task, err := o.store.MarkStarted(ctx, id, o.now())
	if err != nil {
		o.failed(id, "start", err)
		return err
	}
	if o.emitter != nil {
		o.emitter.OnTaskStarted(id)
	}
	o.logger.Debug("task started",
		ports.String("task", id.String()),
		ports.Int("items", task.Problem.Len()),
		ports.Int("capacity", task.Problem.Capacity),
	)

	solveCtx := ctx
	if o.config.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, o.config.SolveTimeout)
		defer cancel()
	}

	start := time.Now()
	sol, err := o.solver.Solve(solveCtx, task.Problem)
	duration := time.Since(start)
	if err != nil {
		o.failed(id, "solve", err)
		return err
	}

	if err := o.commit(ctx, id, sol); err != nil {
		o.failed(id, "commit", err)
		return err
	}

	o.logger.Info("task completed",
		ports.String("task", id.String()),
		ports.String("strategy", o.solver.Name()),
		ports.Int("total_value", sol.TotalValue),
		ports.Int("packed", len(sol.PackedItems)),
		ports.Duration("duration", duration),
	)
	if o.emitter != nil {
		o.emitter.OnTaskCompleted(id, o.solver.Name(), sol.TotalValue, duration)
	}
	return nil
}

// commit records sol, retrying with backoff until it succeeds, fails
// permanently, or ctx ends.
func (o *Optimizer) commit(ctx context.Context, id uuid.UUID, sol domain.Solution) error {
	b := o.retry
	defer b.Reset()
	for {
		err := o.store.Complete(ctx, id, sol, o.now())
		if err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}

		o.logger.Warn("recording solution failed, retrying",
			ports.String("task", id.String()),
			ports.Duration("backoff", b.Current()),
			ports.Err(err),
		)
		if err := b.Sleep(ctx); err != nil {
			return err
		}
	}
}

func permanent(err error) bool {
	return errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrInvalidSolution) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (o *Optimizer) failed(id uuid.UUID, stage string, err error) {
	if o.emitter != nil {
		o.emitter.OnTaskFailed(id, stage, err)
	}
}
