package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/adapters/memory"
	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/solver"
)

// flakyStore fails Complete a fixed number of times before delegating.
type flakyStore struct {
	*memory.TaskStore
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyStore) Complete(ctx context.Context, id uuid.UUID, sol domain.Solution, at time.Time) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return errors.New("store unavailable")
	}
	return f.TaskStore.Complete(ctx, id, sol, at)
}

// stubSolver returns a fixed solution or error.
type stubSolver struct {
	sol domain.Solution
	err error
}

func (s stubSolver) Name() string { return "stub" }

func (s stubSolver) Solve(ctx context.Context, p domain.Problem) (domain.Solution, error) {
	if s.err != nil {
		return domain.Solution{}, s.err
	}
	return s.sol, nil
}

// recordingEmitter tracks task events for testing.
type recordingEmitter struct {
	mu        sync.Mutex
	started   int
	completed int
	failed    []string
}

func (r *recordingEmitter) OnTaskStarted(uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingEmitter) OnTaskCompleted(uuid.UUID, string, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recordingEmitter) OnTaskFailed(_ uuid.UUID, stage string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, stage)
}

func testProblem() domain.Problem {
	return domain.Problem{
		Capacity: 10,
		Weights:  []int{5, 4, 6},
		Values:   []int{10, 40, 30},
	}
}

func submit(t *testing.T, store *memory.TaskStore, queue *memory.TaskQueue) uuid.UUID {
	t.Helper()
	task := domain.NewTask(testProblem(), time.Now())
	if err := store.Insert(context.Background(), task); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := queue.Publish(context.Background(), task.ID); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	return task.ID
}

func TestOptimizer_Run_CompletesTasks(t *testing.T) {
	store := memory.NewTaskStore()
	queue := memory.NewTaskQueue(8)
	cfg := solver.DefaultConfig()
	cfg.Strategy = solver.StrategyExact
	s, err := solver.New(cfg)
	if err != nil {
		t.Fatalf("solver.New() error = %v", err)
	}
	emitter := &recordingEmitter{}
	opt := NewOptimizer(OptimizerConfig{}, queue, store, s, &mockLogger{}, emitter)

	ids := []uuid.UUID{submit(t, store, queue), submit(t, store, queue)}
	_ = queue.Close()

	if err := opt.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, id := range ids {
		task, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if task.Status != domain.StatusCompleted {
			t.Errorf("status = %s, want completed", task.Status)
		}
		if task.Solution == nil || task.Solution.TotalValue != 70 {
			t.Errorf("solution = %+v, want total 70", task.Solution)
		}
		if task.Timestamps.Started == nil || task.Timestamps.Completed == nil {
			t.Errorf("timestamps not set: %+v", task.Timestamps)
		}
	}
	if emitter.started != 2 || emitter.completed != 2 {
		t.Errorf("events started=%d completed=%d, want 2/2", emitter.started, emitter.completed)
	}
}

func TestOptimizer_Process_RetriesCommit(t *testing.T) {
	store := &flakyStore{TaskStore: memory.NewTaskStore(), failures: 2}
	queue := memory.NewTaskQueue(2)
	id := submit(t, store.TaskStore, queue)

	sol := domain.Solution{PackedItems: []int{1, 2}, TotalValue: 70}
	opt := NewOptimizer(OptimizerConfig{
		BackoffInitial: time.Millisecond,
		BackoffMax:     2 * time.Millisecond,
	}, queue, store, stubSolver{sol: sol}, &mockLogger{}, nil)

	if err := opt.Process(context.Background(), id); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if store.calls != 3 {
		t.Errorf("Complete called %d times, want 3", store.calls)
	}
	if opt.retry.Current() != time.Millisecond {
		t.Errorf("retry delay = %v after success, want reset to 1ms", opt.retry.Current())
	}

	// The next task starts from the initial delay again.
	store.calls, store.failures = 0, 1
	next := submit(t, store.TaskStore, queue)
	if err := opt.Process(context.Background(), next); err != nil {
		t.Fatalf("Process() second task error = %v", err)
	}
	if store.calls != 2 {
		t.Errorf("Complete called %d times for second task, want 2", store.calls)
	}
	task, _ := store.Get(context.Background(), id)
	if task.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", task.Status)
	}
}

func TestOptimizer_Process_PermanentCommitError(t *testing.T) {
	store := memory.NewTaskStore()
	queue := memory.NewTaskQueue(1)
	id := submit(t, store, queue)

	overweight := domain.Solution{PackedItems: []int{0, 1, 2}, TotalValue: 80}
	emitter := &recordingEmitter{}
	opt := NewOptimizer(OptimizerConfig{}, queue, store, stubSolver{sol: overweight}, &mockLogger{}, emitter)

	err := opt.Process(context.Background(), id)
	if !errors.Is(err, domain.ErrInvalidSolution) {
		t.Fatalf("Process() error = %v, want ErrInvalidSolution", err)
	}
	if len(emitter.failed) != 1 || emitter.failed[0] != "commit" {
		t.Errorf("failed stages = %v, want [commit]", emitter.failed)
	}
}

func TestOptimizer_Process_SkipsStartedTask(t *testing.T) {
	store := memory.NewTaskStore()
	queue := memory.NewTaskQueue(1)
	id := submit(t, store, queue)
	_, _ = store.MarkStarted(context.Background(), id, time.Now())

	emitter := &recordingEmitter{}
	opt := NewOptimizer(OptimizerConfig{}, queue, store, stubSolver{}, &mockLogger{}, emitter)

	if err := opt.Process(context.Background(), id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("Process() error = %v, want ErrInvalidTransition", err)
	}
	if len(emitter.failed) != 1 || emitter.failed[0] != "start" {
		t.Errorf("failed stages = %v, want [start]", emitter.failed)
	}
}

func TestOptimizer_Run_ContinuesAfterFailure(t *testing.T) {
	store := memory.NewTaskStore()
	queue := memory.NewTaskQueue(4)
	_ = queue.Publish(context.Background(), uuid.New())
	id := submit(t, store, queue)
	_ = queue.Close()

	sol := domain.Solution{PackedItems: []int{1}, TotalValue: 40}
	opt := NewOptimizer(OptimizerConfig{}, queue, store, stubSolver{sol: sol}, &mockLogger{}, nil)

	if err := opt.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	task, _ := store.Get(context.Background(), id)
	if task.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", task.Status)
	}
}

func TestOptimizer_Run_StopsOnCancel(t *testing.T) {
	queue := memory.NewTaskQueue(1)
	opt := NewOptimizer(OptimizerConfig{}, queue, memory.NewTaskStore(), stubSolver{}, &mockLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- opt.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
