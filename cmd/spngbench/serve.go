package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison page over HTTP",
		Long: `Serve starts an HTTP server for a benchmark output directory.

GET / renders the comparison page from {dir}/test_results.json on every
request, so a new generate run shows up on reload. The manifest and the
images directory are served as static files.

Examples:
  # Serve ./benchmark on 127.0.0.1:8080
  spngbench serve

  # Serve another directory on all interfaces
  spngbench serve --dir /tmp/bench --addr :9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("dir", "d", config.DefaultOutputDir,
		"Benchmark output directory to serve")
	cmd.Flags().StringP("addr", "a", config.DefaultAddr,
		"Listen address")
	cmd.Flags().StringP("page", "p", "",
		"Host page to render into (default: built-in page)")
	cmd.Flags().StringP("images", "i", config.DefaultImageBase,
		"Prefix of every image source")
	cmd.Flags().String("selector", config.DefaultContainerSelector,
		"Class selector of the results container")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s (press Ctrl+C to stop)\n", cfg.OutputDir, cfg.Addr)

	return server.Serve(ctx, server.ConfigFromAppConfig(cfg, logger))
}
