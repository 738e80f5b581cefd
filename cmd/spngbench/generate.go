package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/spngbench/internal/bench"
	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/database"
	"github.com/nao1215/spngbench/internal/model"
	"github.com/nao1215/spngbench/internal/pipeline"
	"github.com/nao1215/spngbench/internal/report"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Re-encode the PNG suite and write the results manifest",
		Long: `Generate reads every PNG of the suite directory, except the intentionally
corrupt x* files, and for each one:
- copies it to {out}/images/{name}-orig.png
- decodes and re-encodes it to {out}/images/{name}-spng.png
- compares both images pixel by pixel

It then writes {out}/test_results.json listing the images that were
re-encoded successfully and prints a summary. Runs are recorded in the
history database unless --no-save is given.

Examples:
  # Benchmark the suite checkout into ./benchmark
  spngbench generate

  # Use another suite and output directory
  spngbench generate --suite ~/pngsuite --out /tmp/bench

  # Markdown summary for a CI job
  spngbench generate --markdown > summary.md`,
		Args: cobra.NoArgs,
		RunE: runGenerateCmd,
	}

	cmd.Flags().StringP("suite", "s", config.DefaultSuiteDir,
		"Directory of PNG suite images")
	cmd.Flags().StringP("out", "o", config.DefaultOutputDir,
		"Output directory for image pairs and test_results.json")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of images processed in parallel")
	cmd.Flags().Bool("no-save", false,
		"Do not record the run in the history database")
	cmd.Flags().String("report", "",
		"Also write the JSON run report to the specified file")
	addReportFlags(cmd)
	addDBFlag(cmd)

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noSave

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	reportFile, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := runGenerate(ctx, cfg, logger, progressPrinter(cmd.ErrOrStderr()))
	if run != nil {
		if werr := writeRunReport(cmd.OutOrStdout(), reportFile, cfg, run); werr != nil {
			logger.Error("report failed", "error", werr)
			if err == nil {
				err = werr
			}
		}
	}
	return err
}

// progressPrinter prints one line per finished image to w.
func progressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(c model.Comparison, done, total int) {
		fmt.Fprintf(w, "[%d/%d] %s: %s\n", done, total, c.Name, c.Status())
	}
}

// writeRunReport writes the run summary to w and, when reportFile is set,
// the JSON report to that file as well.
func writeRunReport(w io.Writer, reportFile string, cfg *config.Config, run *model.Run) error {
	writers := []report.Writer{newReportWriter(w, cfg)}

	var f *os.File
	if reportFile != "" {
		if err := os.MkdirAll(filepath.Dir(reportFile), 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		var err error
		f, err = os.Create(reportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		writers = append(writers, report.NewJSONWriter(f, report.WithPrettyPrint()))
	}

	_, err := report.NewMultiWriter(writers...).Write(run)
	if f != nil {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to write report file: %w", cerr)
		}
	}
	return err
}

// runGenerate executes the generate pipeline and returns the finished run.
// The run is returned even when a step fails so that partial results
// can be reported.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, progress pipeline.ProgressFunc) (*model.Run, error) {
	logger.Info("starting benchmark",
		"suite", cfg.SuiteDir,
		"out", cfg.OutputDir,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	layout := bench.Layout{
		SuiteDir:       cfg.SuiteDir,
		ImagesDir:      cfg.ImagesDir(),
		OriginalSuffix: cfg.OriginalSuffix,
		EncodedSuffix:  cfg.EncodedSuffix,
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCollectStep(logger),
		pipeline.NewImageStep(bench.NewPNGCodec(), layout, cfg.Concurrency, logger,
			pipeline.WithProgress(progress)),
		pipeline.NewManifestStep(),
	)

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())

		p.AddStep(pipeline.NewSaveStep(db))
	}

	run := model.NewRun(cfg.SuiteDir, cfg.OutputDir)
	if err := p.Execute(ctx, run); err != nil {
		return run, err
	}

	logger.Info("benchmark completed",
		"images", len(run.Names),
		"duration", run.Duration.Round(time.Millisecond),
	)
	return run, nil
}
