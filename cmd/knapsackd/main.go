package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	logadapter "github.com/bft-labs/knapsack/internal/adapters/log"
	"github.com/bft-labs/knapsack/internal/cliconfig"
	"github.com/bft-labs/knapsack/internal/configwatch"
	"github.com/bft-labs/knapsack/internal/ports"
	"github.com/bft-labs/knapsack/internal/service"
)

const longHelp = `Run the knapsack solver service.

POST /knapsack accepts an instance (form or JSON) and returns a task id.
Tasks are solved in the background; GET /knapsack/{id} returns the task
with its solution once done.

Configuration is read from $HOME/.knapsack/server.toml (if present), then
KNAPSACKD_* environment variables, then flags. When --watch is set, edits
to the [solver] table of the config file are applied without a restart.`

var exampleUsage = strings.TrimSpace(`
  knapsackd
  knapsackd --addr :8080 --workers 4
  knapsackd --strategy exact --max-exact-cells 50000000
  knapsackd --config ./server.toml --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultServerConfig()

	root := &cobra.Command{
		Use:           "knapsackd",
		Short:         "Knapsack solver service",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := cfg.ConfigPath != ""
			if !explicit {
				cfg.ConfigPath = cliconfig.DefaultServerConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfg.ConfigPath != "" && cliconfig.FileExists(cfg.ConfigPath) {
				fc, err := cliconfig.LoadServerFileConfig(cfg.ConfigPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyServerFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			} else if explicit {
				return fmt.Errorf("config file %s not found", cfg.ConfigPath)
			} else {
				cfg.ConfigPath = ""
			}

			if err := cliconfig.ApplyServerEnvConfig(&cfg, changed); err != nil {
				return err
			}
			svcCfg, err := cfg.Service()
			if err != nil {
				return err
			}

			zl, err := logadapter.NewConsoleLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			log := logadapter.NewZerologAdapterWithLogger(zl)
			log.Info("configuration",
				ports.String("config", cfg.ConfigPath),
				ports.String("addr", svcCfg.Server.Addr),
				ports.Int("workers", svcCfg.Workers),
				ports.Int("queue_size", svcCfg.QueueSize),
				ports.String("strategy", string(svcCfg.Solver.Strategy)),
			)

			svc, err := service.New(svcCfg, service.WithLogger(log.With("service")))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return svc.Run(gctx)
			})
			if cfg.Watch && cfg.ConfigPath != "" {
				w := configwatch.New(cfg.ConfigPath, solverReloader(cfg, changed, svc), log.With("configwatch"))
				g.Go(func() error {
					return w.Run(gctx)
				})
			}

			err = g.Wait()
			if ctx.Err() != nil {
				log.Info("shutdown complete")
			}
			return err
		},
	}

	f := root.Flags()
	f.StringVar(&cfg.ConfigPath, "config", "", "path to config file (default: $HOME/.knapsack/server.toml)")
	f.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the [solver] table when the config file changes")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of optimizer workers")
	f.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "pending task queue capacity")
	f.DurationVar(&cfg.SolveTimeout, "solve-timeout", cfg.SolveTimeout, "per-task solve limit (0 disables)")
	f.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "API requests per second")
	f.IntVar(&cfg.RateLimitBurst, "rate-limit-burst", cfg.RateLimitBurst, "rate limiter burst")
	f.IntVar(&cfg.MaxBodyBytes, "max-body-bytes", cfg.MaxBodyBytes, "maximum request body size")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	f.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	f.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "HTTP idle timeout")
	f.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown limit")
	f.DurationVar(&cfg.BackoffInitial, "backoff-initial", cfg.BackoffInitial, "initial retry delay for storing solutions")
	f.DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "maximum retry delay for storing solutions")

	f.StringVar(&cfg.Solver.Strategy, "strategy", cfg.Solver.Strategy, "solver strategy (genetic or exact)")
	f.IntVar(&cfg.Solver.PopulationSize, "population", cfg.Solver.PopulationSize, "genetic population size")
	f.IntVar(&cfg.Solver.Generations, "generations", cfg.Solver.Generations, "genetic generation count")
	f.Float64Var(&cfg.Solver.SelectionRatio, "selection-ratio", cfg.Solver.SelectionRatio, "share of the population selected as parents")
	f.Float64Var(&cfg.Solver.MutationRate, "mutation-rate", cfg.Solver.MutationRate, "share of offspring mutated")
	f.Float64Var(&cfg.Solver.ReinsertionRatio, "reinsertion-ratio", cfg.Solver.ReinsertionRatio, "share of the population replaced by offspring")
	f.IntVar(&cfg.Solver.MaxExactCells, "max-exact-cells", cfg.Solver.MaxExactCells, "largest items*(capacity+1) solved exactly")
	f.Uint64Var(&cfg.Solver.Seed, "seed", cfg.Solver.Seed, "solver random seed (0 picks one per task)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "knapsackd: %v\n", err)
		os.Exit(1)
	}
}

// solverReloader re-reads the [solver] table on top of the startup
// configuration. Flags and environment keep precedence over the file.
func solverReloader(startup cliconfig.ServerConfig, changed map[string]bool, svc *service.Service) configwatch.ReloadFunc {
	return func(ctx context.Context, path string) error {
		fc, err := cliconfig.LoadServerFileConfig(path)
		if err != nil {
			return err
		}
		next := startup
		cliconfig.ApplySolverFileConfig(&next.Solver, fc.Solver, changed)
		if err := cliconfig.ApplyServerEnvConfig(&next, changed); err != nil {
			return err
		}
		sc, err := next.Solver.Solver()
		if err != nil {
			return err
		}
		return svc.UpdateSolver(sc)
	}
}
