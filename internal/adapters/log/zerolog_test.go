package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/knapsack/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	a := NewZerologAdapterWithLogger(zerolog.New(&buf)).With("worker")

	a.Info("task completed",
		ports.String("task", "abc"),
		ports.Int("items", 100),
		ports.Duration("took", time.Second),
		ports.Err(errors.New("boom")),
		ports.Bool("retried", true),
	)

	out := buf.String()
	for _, want := range []string{
		`"component":"worker"`,
		`"task":"abc"`,
		`"items":100`,
		`"error":"boom"`,
		`"retried":true`,
		`"message":"task completed"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestNewConsoleLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l, err := newConsoleLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("newConsoleLogger() error = %v", err)
	}
	a := NewZerologAdapterWithLogger(l)
	a.Info("hidden")
	a.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info line written at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn line missing: %s", buf.String())
	}

	if _, err := newConsoleLogger(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
