package configwatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	logadapter "github.com/bft-labs/knapsack/internal/adapters/log"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	if err := os.WriteFile(path, []byte("workers = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	var lastPath atomic.Value
	w := New(path, func(_ context.Context, p string) error {
		calls.Add(1)
		lastPath.Store(p)
		return nil
	}, logadapter.NewNoopLogger())
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	// A burst of writes coalesces into a single reload.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("workers = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, func() bool { return calls.Load() >= 1 })
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("reload calls = %d, want 1", got)
	}
	if got, _ := lastPath.Load().(string); got != path {
		t.Errorf("reload path = %q, want %q", got, path)
	}

	// Other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("reload calls after unrelated write = %d, want 1", got)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatcher_ReloadErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	w := New(path, func(context.Context, string) error {
		calls.Add(1)
		return errors.New("bad config")
	}, logadapter.NewNoopLogger())
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	_ = os.WriteFile(path, []byte("a = 1\n"), 0o644)
	waitFor(t, func() bool { return calls.Load() == 1 })

	time.Sleep(50 * time.Millisecond)
	_ = os.WriteFile(path, []byte("a = 2\n"), 0o644)
	waitFor(t, func() bool { return calls.Load() == 2 })
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "server.toml"), func(context.Context, string) error {
		return nil
	}, logadapter.NewNoopLogger())

	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() on missing directory succeeded")
	}
}
