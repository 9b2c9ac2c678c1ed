package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the processing state of a Task.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
)

// ParseStatus converts the wire form of a status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusSubmitted, StatusStarted, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// String returns the wire form of the status.
func (s Status) String() string {
	return string(s)
}

// Timestamps records status changes as unix seconds.
type Timestamps struct {
	Submitted int64  `json:"submitted"`
	Started   *int64 `json:"started"`
	Completed *int64 `json:"completed"`
}

// Task is a submitted problem and, once completed, its solution.
type Task struct {
	ID         uuid.UUID  `json:"task"`
	Status     Status     `json:"status"`
	Timestamps Timestamps `json:"timestamps"`
	Problem    Problem    `json:"problem"`
	Solution   *Solution  `json:"solution"`
}

// NewTask creates a submitted task for p with a fresh random id.
func NewTask(p Problem, now time.Time) Task {
	return Task{
		ID:         uuid.New(),
		Status:     StatusSubmitted,
		Timestamps: Timestamps{Submitted: now.Unix()},
		Problem:    p.Clone(),
	}
}

// Start moves a submitted task to started.
func (t *Task) Start(at time.Time) error {
	if t.Status != StatusSubmitted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusStarted)
	}
	ts := at.Unix()
	t.Status = StatusStarted
	t.Timestamps.Started = &ts
	return nil
}

// Complete attaches sol to a started task and marks it completed.
func (t *Task) Complete(sol Solution, at time.Time) error {
	if t.Status != StatusStarted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusCompleted)
	}
	if err := sol.Verify(t.Problem); err != nil {
		return err
	}
	ts := at.Unix()
	s := sol.Clone()
	t.Status = StatusCompleted
	t.Timestamps.Completed = &ts
	t.Solution = &s
	return nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.Problem = t.Problem.Clone()
	if t.Timestamps.Started != nil {
		v := *t.Timestamps.Started
		c.Timestamps.Started = &v
	}
	if t.Timestamps.Completed != nil {
		v := *t.Timestamps.Completed
		c.Timestamps.Completed = &v
	}
	if t.Solution != nil {
		s := t.Solution.Clone()
		c.Solution = &s
	}
	return c
}

// MarshalJSON renders a missing solution as {} rather than null.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	var sol any = struct{}{}
	if t.Solution != nil {
		sol = t.Solution
	}
	return json.Marshal(struct {
		alias
		Solution any `json:"solution"`
	}{alias: alias(t), Solution: sol})
}

// UnmarshalJSON accepts {} or null as a missing solution.
func (t *Task) UnmarshalJSON(b []byte) error {
	type alias Task
	aux := struct {
		*alias
		Solution json.RawMessage `json:"solution"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.Solution = nil
	var fields map[string]json.RawMessage
	if len(aux.Solution) == 0 || string(aux.Solution) == "null" {
		return nil
	}
	if err := json.Unmarshal(aux.Solution, &fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	var s Solution
	if err := json.Unmarshal(aux.Solution, &s); err != nil {
		return err
	}
	t.Solution = &s
	return nil
}
