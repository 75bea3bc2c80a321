// Package main is the lumen command: the producer API, the task worker and
// the database migration tool share one binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lumen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumen",
		Short: "Lumen learning backend",
		Long: `Lumen learning backend

serve        run the HTTP API that accepts generation requests
worker       consume the task queue and run generation handlers
migrate      apply or inspect database migrations
dead-letters list messages the worker gave up on

Configuration is read from config.yaml and LUMEN_* environment variables.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newWorkerCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newDeadLettersCommand())
	return root
}
