package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	httpadapter "github.com/bft-labs/knapsack/internal/adapters/http"
	logadapter "github.com/bft-labs/knapsack/internal/adapters/log"
	"github.com/bft-labs/knapsack/internal/cliconfig"
	"github.com/bft-labs/knapsack/internal/generator"
	"github.com/bft-labs/knapsack/internal/ports"
)

const longHelp = `Generate a random 0-1 knapsack instance and submit it to a solver service.

Each run draws a capacity and a list of items (weight, value) from the
configured ranges and sends them in a single POST to {url}/knapsack.
The response status is logged; the response body is not inspected.

Configuration is read from $HOME/.knapsack/client.toml (if present), then
KNAPSACK_* environment variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  knapsack-gen
  knapsack-gen --encoding json --items 20 --seed 42
  knapsack-gen --print --url http://solver:6543
  knapsack-gen status 6f1c2d0e-8a51-4b6e-9f3a-2f8a8c1d5e77
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "knapsack-gen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := cliconfig.DefaultClientConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "knapsack-gen",
		Short:         "Generate a random knapsack instance and POST it to the solver service",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := loadConfig(cmd, cfgPath, &cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return generate(ctx, cmd, cfg, log)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.knapsack/client.toml)")
	pf.StringVar(&cfg.ServiceURL, "url", cfg.ServiceURL, "base URL of the solver service")
	pf.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP timeout (0 waits indefinitely)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	f := root.Flags()
	f.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "request body encoding (form or json)")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one from the clock)")
	f.BoolVar(&cfg.Print, "print", cfg.Print, "print the generated instance as JSON to stdout")
	f.IntVar(&cfg.Items, "items", cfg.Items, "number of items")
	f.IntVar(&cfg.CapacityMin, "capacity-min", cfg.CapacityMin, "minimum capacity")
	f.IntVar(&cfg.CapacityMax, "capacity-max", cfg.CapacityMax, "maximum capacity")
	f.IntVar(&cfg.WeightMin, "weight-min", cfg.WeightMin, "minimum item weight")
	f.IntVar(&cfg.WeightMax, "weight-max", cfg.WeightMax, "maximum item weight")
	f.IntVar(&cfg.ValueMin, "value-min", cfg.ValueMin, "minimum item value")
	f.IntVar(&cfg.ValueMax, "value-max", cfg.ValueMax, "maximum item value")

	root.AddCommand(newStatusCommand(&cfgPath, &cfg))
	return root
}

// loadConfig layers file, environment and flags into cfg, validates it and
// returns a logger at the configured level.
func loadConfig(cmd *cobra.Command, cfgPath string, cfg *cliconfig.ClientConfig) (*logadapter.ZerologAdapter, error) {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultClientConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadClientFileConfig(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyClientFileConfig(cfg, fc, changed); err != nil {
			return nil, err
		}
	} else if cfgPath != "" {
		return nil, fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := cliconfig.ApplyClientEnvConfig(cfg, changed); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zl, err := logadapter.NewConsoleLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logadapter.NewZerologAdapterWithLogger(zl)
	log.Debug("configuration",
		ports.String("url", cfg.ServiceURL),
		ports.String("encoding", cfg.Encoding),
		ports.Duration("timeout", cfg.Timeout),
		ports.Any("ranges", cfg.Ranges()),
	)
	return log, nil
}

func newSender(cfg cliconfig.ClientConfig, log ports.Logger) *httpadapter.ProblemSender {
	// cfg.Encoding was checked by Validate.
	enc, _ := httpadapter.ParseEncoding(cfg.Encoding)
	return httpadapter.NewProblemSender(&http.Client{Timeout: cfg.Timeout}, log, cfg.ServiceURL, enc)
}

func generate(ctx context.Context, cmd *cobra.Command, cfg cliconfig.ClientConfig, log *logadapter.ZerologAdapter) error {
	p := generator.Generate(generator.NewRand(cfg.Seed), cfg.Ranges())

	if cfg.Print {
		enc := json.NewEncoder(cmd.OutOrStdout())
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("print instance: %w", err)
		}
	}

	status, err := newSender(cfg, log).Send(ctx, p)
	if err != nil {
		return err
	}

	lvl := zerolog.InfoLevel
	if status < 200 || status > 299 {
		lvl = zerolog.WarnLevel
	}
	zl := log.Logger()
	zl.WithLevel(lvl).
		Int("status", status).
		Int("items", p.Len()).
		Int("capacity", p.Capacity).
		Msg("instance submitted")
	return nil
}
