// Package cmd provides the command-line interface for tugboat.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hemzaz/tugboat/pkg/helper/log"
	"github.com/hemzaz/tugboat/pkg/orchestrator"
)

var opts orchestrator.Options

var rootCmd = &cobra.Command{
	Use:   "tugboat CONFIG_FILE",
	Short: "Sync container images between registries per a declarative plan",
	Long: `tugboat synchronizes container images between OCI-compatible
registries according to a declarative YAML plan: it validates the plan,
expands it into concrete per-tag copy tasks, builds a dependency-ordered
execution plan from stage-level depends_on, and executes it with bounded
parallelism.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.ConfigFile = args[0]

		logger, ctx, cancel := setupCommand(cmd.Context())
		defer cancel()

		return orchestrator.Run(ctx, opts, logger)
	},
}

// Execute runs the root command, exiting non-zero on any fatal error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	opts.AddFlags(rootCmd.Flags())

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConvertVCSURLCmd())
}

// setupCommand builds a logger at the configured level and a context that
// cancels on SIGINT/SIGTERM.
func setupCommand(ctx context.Context) (log.Logger, context.Context, context.CancelFunc) {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	logger := log.NewBasicLogger(level)
	log.SetGlobalLogger(logger)

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("received termination signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return logger, ctx, cancel
}
