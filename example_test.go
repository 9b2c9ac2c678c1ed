package knapsack_test

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"testing"

	"github.com/bft-labs/knapsack"
)

func ExampleNew() {
	cfg := knapsack.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:6543"
	cfg.Workers = 2

	svc, err := knapsack.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := svc.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func ExampleGenerate() {
	p := knapsack.Generate(42, knapsack.DefaultRanges())
	fmt.Println(p.Len())
	// Output: 100
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	a := knapsack.Generate(99, knapsack.DefaultRanges())
	b := knapsack.Generate(99, knapsack.DefaultRanges())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different problems")
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("generated invalid problem: %v", err)
	}
}
