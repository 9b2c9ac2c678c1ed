package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
)

func TestTaskQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewTaskQueue(4)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		if err := q.Publish(ctx, id); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
	for i, want := range ids {
		got, err := q.Consume(ctx)
		if err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
		if got != want {
			t.Errorf("Consume()[%d] = %s, want %s", i, got, want)
		}
	}
}

func TestTaskQueue_PublishBlocksUntilContextDone(t *testing.T) {
	q := NewTaskQueue(1)
	if err := q.Publish(context.Background(), uuid.New()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Publish(ctx, uuid.New()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Publish() on full queue error = %v, want DeadlineExceeded", err)
	}
}

func TestTaskQueue_ConsumeHonorsContext(t *testing.T) {
	q := NewTaskQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := q.Consume(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Consume() error = %v, want Canceled", err)
	}
}

func TestTaskQueue_CloseDrains(t *testing.T) {
	ctx := context.Background()
	q := NewTaskQueue(2)
	id := uuid.New()
	_ = q.Publish(ctx, id)

	if err := q.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := q.Publish(ctx, uuid.New()); !errors.Is(err, domain.ErrQueueClosed) {
		t.Errorf("Publish() after Close error = %v, want ErrQueueClosed", err)
	}

	got, err := q.Consume(ctx)
	if err != nil || got != id {
		t.Fatalf("Consume() = %s, %v; want pending id", got, err)
	}
	if _, err := q.Consume(ctx); !errors.Is(err, domain.ErrQueueClosed) {
		t.Errorf("Consume() on drained queue error = %v, want ErrQueueClosed", err)
	}
}

func TestTaskQueue_CloseReleasesBlockedPublisher(t *testing.T) {
	q := NewTaskQueue(1)
	_ = q.Publish(context.Background(), uuid.New())

	errCh := make(chan error, 1)
	go func() {
		errCh <- q.Publish(context.Background(), uuid.New())
	}()

	time.Sleep(10 * time.Millisecond)
	_ = q.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, domain.ErrQueueClosed) {
			t.Errorf("blocked Publish() error = %v, want ErrQueueClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Publish() not released by Close")
	}
}
