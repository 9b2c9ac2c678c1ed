package app

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
)

// State is the service's position in its start/stop cycle.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateRunning, StateStopping, StateCrashed},
	StateRunning:  {StateStopping, StateCrashed},
	StateStopping: {StateStopped, StateCrashed},
	StateCrashed:  {StateStarting},
}

// Role names a kind of goroutine the service runs.
type Role string

const (
	RoleServer    Role = "server"
	RoleOptimizer Role = "optimizer"
)

// Status is a snapshot of a Lifecycle.
type Status struct {
	State  State
	Reason string
	Since  time.Time

	// Err is what crashed the service. Nil unless State is StateCrashed.
	Err error

	// Active counts tracked goroutines per role.
	Active map[Role]int
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle guards Start and Stop of the service, remembers why it is in
// its current state and counts the server and optimizer goroutines so
// Stop can wait for them.
type Lifecycle struct {
	mu     sync.Mutex
	state  State
	reason string
	since  time.Time
	err    error
	active map[Role]int
	wg     sync.WaitGroup

	logger  ports.Logger
	emitter EventEmitter
	now     func() time.Time
}

// NewLifecycle returns a Lifecycle in StateStopped.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:   StateStopped,
		reason:  "not started",
		since:   time.Now(),
		active:  make(map[Role]int),
		logger:  logger,
		emitter: emitter,
		now:     time.Now,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Status returns the current state with its reason and goroutine counts.
func (l *Lifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		State:  l.state,
		Reason: l.reason,
		Since:  l.since,
		Err:    l.err,
		Active: maps.Clone(l.active),
	}
}

// Ready reports whether the service accepts tasks and, if not, why.
func (l *Lifecycle) Ready() (bool, string) {
	st := l.Status()
	if st.State == StateRunning {
		return true, ""
	}
	return false, fmt.Sprintf("%s: %s", strings.ToLower(st.State.String()), st.Reason)
}

// TransitionTo moves to next. Starting from a live state fails with
// ErrAlreadyRunning, stopping a dead one with ErrNotRunning.
func (l *Lifecycle) TransitionTo(next State, reason string) error {
	return l.transition(next, reason, nil)
}

// Crash moves to StateCrashed and records err as the reason.
func (l *Lifecycle) Crash(err error) error {
	return l.transition(StateCrashed, err.Error(), err)
}

func (l *Lifecycle) transition(next State, reason string, cause error) error {
	l.mu.Lock()
	prev := l.state
	if !slices.Contains(transitions[prev], next) {
		l.mu.Unlock()
		return transitionError(prev, next)
	}
	l.state = next
	l.reason = reason
	l.since = l.now()
	l.err = cause
	l.mu.Unlock()

	if l.emitter != nil {
		l.emitter.OnStateChange(prev, next, reason)
	}

	fields := []ports.Field{
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	}
	if next == StateCrashed {
		l.logger.Error("state transition", fields...)
	} else {
		l.logger.Info("state transition", fields...)
	}
	return nil
}

func transitionError(from, to State) error {
	switch to {
	case StateStarting:
		return fmt.Errorf("%w: service is %s", domain.ErrAlreadyRunning, from)
	case StateStopping, StateStopped:
		return fmt.Errorf("%w: service is %s", domain.ErrNotRunning, from)
	default:
		return fmt.Errorf("%w: service %s -> %s", domain.ErrInvalidTransition, from, to)
	}
}

// Track registers a goroutine of the given role. Call the returned func
// exactly once when it exits.
func (l *Lifecycle) Track(role Role) (done func()) {
	l.mu.Lock()
	l.active[role]++
	l.mu.Unlock()
	l.wg.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.active[role]--
			if l.active[role] == 0 {
				delete(l.active, role)
			}
			l.mu.Unlock()
			l.wg.Done()
		})
	}
}

// Wait blocks until every tracked goroutine is done or timeout passes.
// On timeout the error names the roles still running.
func (l *Lifecycle) Wait(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-done:
		return nil
	case <-t.C:
		left := describeActive(l.Status().Active)
		l.logger.Warn("shutdown timeout",
			ports.Duration("timeout", timeout),
			ports.String("running", left),
		)
		return fmt.Errorf("%w: still running: %s", domain.ErrShutdownTimeout, left)
	}
}

// describeActive renders counts as "optimizer=2 server=1".
func describeActive(active map[Role]int) string {
	parts := make([]string, 0, len(active))
	for role, n := range active {
		parts = append(parts, fmt.Sprintf("%s=%d", role, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
