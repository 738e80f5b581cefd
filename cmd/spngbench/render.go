package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/manifest"
	"github.com/nao1215/spngbench/internal/render"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the comparison page from a results manifest",
		Long: `Render fetches test_results.json and writes an HTML page with one
comparison block per processed image, sorted by name.

Each block shows the test name, the reference image {images}{name}-orig.png
and the re-encoded image {images}{name}-spng.png.

Examples:
  # Render the manifest in the current directory to stdout
  spngbench render

  # Render a generated benchmark next to its images
  spngbench render --base-dir benchmark -o benchmark/index.html

  # Render a manifest published by CI
  spngbench render --results https://ci.example.com/artifacts/test_results.json \
    --header "Authorization=Bearer $TOKEN"`,
		Args: cobra.NoArgs,
		RunE: runRenderCmd,
	}

	cmd.Flags().StringP("results", "r", config.DefaultResultsLocation,
		"Manifest file path or http(s) URL")
	cmd.Flags().StringP("base-dir", "b", "",
		"Directory relative manifest paths resolve against")
	cmd.Flags().StringP("images", "i", config.DefaultImageBase,
		"Prefix of every image source")
	cmd.Flags().String("selector", config.DefaultContainerSelector,
		"Class selector of the results container")
	cmd.Flags().StringP("page", "p", "",
		"Host page to render into (default: built-in page)")
	cmd.Flags().StringP("output", "o", "",
		"Write the page to the specified file (default: stdout)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for retrieving the manifest")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for http(s) manifests (e.g., 127.0.0.1:1080)")
	cmd.Flags().StringToString("header", nil,
		"Extra request header for http(s) manifests (key=value, repeatable)")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	if cfg.OutputFile == "" {
		return renderPage(ctx, cfg, cmd.OutOrStdout(), logger)
	}
	return renderToFile(ctx, cfg, logger)
}

// renderPage renders the host page with the comparison blocks into w.
func renderPage(ctx context.Context, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}

	page, err := render.LoadPage(cfg.PageFile)
	if err != nil {
		return err
	}

	renderer := render.NewRendererFromConfig(fetcher, cfg, logger)
	if err := renderer.RenderInto(ctx, page, cfg.ContainerSelector); err != nil {
		return err
	}

	return page.Render(w)
}

// renderToFile renders into cfg.OutputFile, creating parent directories.
// The file is only written when rendering succeeds.
func renderToFile(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".spngbench-*.html")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	bw := bufio.NewWriter(tmp)
	if err := renderPage(ctx, cfg, bw, logger); err != nil {
		tmp.Close() //nolint:errcheck,gosec // rendering error takes precedence
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil { //nolint:gosec // the page is meant to be served
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Info("page written", "path", cfg.OutputFile)
	return nil
}

// newFetcher builds the manifest fetcher for cfg.
func newFetcher(cfg *config.Config, logger *slog.Logger) (*manifest.Fetcher, error) {
	client, err := manifest.NewHTTPClient(manifest.ClientOptions{
		ProxyAddress: cfg.ProxyAddress,
		Timeout:      cfg.Timeout,
		Headers:      cfg.Headers,
		UserAgent:    cfg.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return manifest.NewFetcher(
		manifest.WithHTTPClient(client),
		manifest.WithBaseDir(cfg.BaseDir),
		manifest.WithMaxSize(cfg.MaxManifestSize),
		manifest.WithLogger(logger),
	), nil
}
