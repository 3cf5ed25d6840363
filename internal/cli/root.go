// Package cli implements the chunkctl operator commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"vrmt-search/internal/app"
	"vrmt-search/internal/config"
)

// NewRootCmd builds the chunkctl command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chunkctl",
		Short: "Inspect, ingest and search the VRMT manual index",
		Long: `chunkctl is an operator tool for the VRMT search service. It uses the
same environment configuration (.env supported) as the API server.

Example usage:
  chunkctl chunk vr-system.md --dump chunks.txt   # Preview chunking offline
  chunkctl ingest                                 # Re-index SOURCE_PATH
  chunkctl search "yes" --target lehr             # Query the index`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newChunkCmd(), newIngestCmd(), newSearchCmd())
	return rootCmd
}

// Execute runs chunkctl and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadApp loads the service configuration and connects to the backends.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.SetupLogging(cfg, cmd.ErrOrStderr())

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}
