package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// stateRecorder tracks state change events for testing.
type stateRecorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *stateRecorder) OnStateChange(previous, current State, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, previous.String()+"->"+current.String()+" ("+reason+")")
}

func (r *stateRecorder) Steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.steps...)
}

func TestLifecycle_StartStopCycle(t *testing.T) {
	rec := &stateRecorder{}
	l := NewLifecycle(mockLogger{}, rec)

	if ok, reason := l.Ready(); ok || reason != "stopped: not started" {
		t.Errorf("Ready() before start = %v, %q", ok, reason)
	}

	steps := []struct {
		to     State
		reason string
	}{
		{StateStarting, "Start() called"},
		{StateRunning, "listening"},
		{StateStopping, "Stop() called"},
		{StateStopped, "graceful shutdown"},
	}
	for _, s := range steps {
		if err := l.TransitionTo(s.to, s.reason); err != nil {
			t.Fatalf("TransitionTo(%v) error = %v", s.to, err)
		}
		if s.to == StateRunning {
			if ok, _ := l.Ready(); !ok {
				t.Error("Ready() = false while running")
			}
		}
	}

	want := []string{
		"Stopped->Starting (Start() called)",
		"Starting->Running (listening)",
		"Running->Stopping (Stop() called)",
		"Stopping->Stopped (graceful shutdown)",
	}
	got := rec.Steps()
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLifecycle_CrashRecordsCause(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	clock := time.Unix(1700000000, 0)
	l.now = func() time.Time { return clock }

	if err := l.TransitionTo(StateStarting, "Start() called"); err != nil {
		t.Fatal(err)
	}
	cause := errors.New("listen on :6543: address already in use")
	if err := l.Crash(cause); err != nil {
		t.Fatalf("Crash() error = %v", err)
	}

	st := l.Status()
	if st.State != StateCrashed || !errors.Is(st.Err, cause) || !st.Since.Equal(clock) {
		t.Errorf("Status() = %+v", st)
	}
	ok, reason := l.Ready()
	if ok || reason != "crashed: listen on :6543: address already in use" {
		t.Errorf("Ready() = %v, %q", ok, reason)
	}

	// A restart clears the crash.
	if err := l.TransitionTo(StateStarting, "Start() called"); err != nil {
		t.Fatalf("restart after crash error = %v", err)
	}
	if st := l.Status(); st.Err != nil || st.Reason != "Start() called" {
		t.Errorf("Status() after restart = %+v", st)
	}
}

func TestLifecycle_RejectedTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want error
	}{
		{"start while running", StateRunning, StateStarting, domain.ErrAlreadyRunning},
		{"start while stopping", StateStopping, StateStarting, domain.ErrAlreadyRunning},
		{"start while starting", StateStarting, StateStarting, domain.ErrAlreadyRunning},
		{"stop before start", StateStopped, StateStopping, domain.ErrNotRunning},
		{"stop after crash", StateCrashed, StateStopping, domain.ErrNotRunning},
		{"stop twice", StateStopping, StateStopping, domain.ErrNotRunning},
		{"run without starting", StateStopped, StateRunning, domain.ErrInvalidTransition},
		{"crash while stopped", StateStopped, StateCrashed, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stateRecorder{}
			l := NewLifecycle(mockLogger{}, rec)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if !errors.Is(err, tt.want) {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.want)
			}
			if l.State() != tt.from {
				t.Errorf("state = %v after rejected transition, want %v", l.State(), tt.from)
			}
			if len(rec.Steps()) != 0 {
				t.Errorf("rejected transition emitted %v", rec.Steps())
			}
		})
	}
}

func TestLifecycle_TrackCountsRoles(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)

	server := l.Track(RoleServer)
	opt1 := l.Track(RoleOptimizer)
	opt2 := l.Track(RoleOptimizer)

	active := l.Status().Active
	if active[RoleServer] != 1 || active[RoleOptimizer] != 2 {
		t.Errorf("Active = %v, want server=1 optimizer=2", active)
	}

	opt1()
	opt1() // extra calls are ignored
	server()
	if active := l.Status().Active; len(active) != 1 || active[RoleOptimizer] != 1 {
		t.Errorf("Active = %v, want optimizer=1", active)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		opt2()
	}()
	if err := l.Wait(time.Second); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
	if active := l.Status().Active; len(active) != 0 {
		t.Errorf("Active = %v after Wait, want empty", active)
	}
}

func TestLifecycle_WaitTimeoutNamesRoles(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	done := l.Track(RoleOptimizer)
	defer done()
	serverDone := l.Track(RoleServer)
	defer serverDone()

	err := l.Wait(10 * time.Millisecond)
	if !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Fatalf("Wait() = %v, want ErrShutdownTimeout", err)
	}
	if !strings.Contains(err.Error(), "optimizer=1 server=1") {
		t.Errorf("Wait() error %q does not name running roles", err)
	}
}

func TestLifecycle_ConcurrentUse(t *testing.T) {
	l := NewLifecycle(mockLogger{}, nil)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				done := l.Track(RoleOptimizer)
				_, _ = l.Ready()
				done()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.TransitionTo(StateStarting, "start")
				_ = l.TransitionTo(StateRunning, "run")
				_ = l.TransitionTo(StateStopping, "stop")
				_ = l.TransitionTo(StateStopped, "stopped")
			}
		}()
	}
	wg.Wait()

	if err := l.Wait(time.Second); err != nil {
		t.Errorf("Wait() = %v after all goroutines finished", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}
