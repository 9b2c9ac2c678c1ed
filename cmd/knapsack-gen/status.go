package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bft-labs/knapsack/internal/cliconfig"
)

func newStatusCommand(cfgPath *string, cfg *cliconfig.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id>",
		Short: "Print a submitted task's status and solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q: %w", args[0], err)
			}
			log, err := loadConfig(cmd, *cfgPath, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			status, body, err := newSender(*cfg, log).FetchTask(ctx, id)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(body); err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("task %s: %s", id, http.StatusText(status))
			}
			return nil
		},
	}
}
