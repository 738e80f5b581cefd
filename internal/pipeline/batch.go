package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/model"
)

// ImageFunc processes one test name. Failures belong in Comparison.Error.
type ImageFunc func(ctx context.Context, name string) model.Comparison

// BatchProcessor runs an ImageFunc over many names concurrently.
type BatchProcessor struct {
	process ImageFunc

	// concurrency is the maximum number of names processed at once.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the concurrency limit. Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(process ImageFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		process:     process,
		concurrency: config.DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch processes names and returns one Comparison per name, in
// input order. A failing name does not stop the others. The error is
// non-nil only when ctx is cancelled; names not started by then are
// returned with the cancellation recorded as their error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, names []string) ([]model.Comparison, error) {
	return bp.ProcessBatchWithCallback(ctx, names, nil)
}

// ProcessBatchWithCallback is ProcessBatch with callback invoked as each
// name completes. callback runs on worker goroutines and must be safe for
// concurrent use. It is not called for names skipped by cancellation.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	names []string,
	callback func(c model.Comparison, index int),
) ([]model.Comparison, error) {
	bp.logger.Info("starting batch",
		"total", len(names),
		"concurrency", bp.concurrency,
	)

	start := time.Now()

	// Each goroutine writes only its own index.
	results := make([]model.Comparison, len(names))
	for i, name := range names {
		results[i] = model.Comparison{Name: name}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, name := range names {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i].Error = gctx.Err().Error()
				return gctx.Err()
			default:
			}

			c := bp.process(gctx, name)
			c.Name = name
			results[i] = c

			if c.Error != "" {
				bp.logger.Warn("image failed",
					"name", name,
					"error", c.Error,
				)
			} else {
				bp.logger.Debug("image processed",
					"name", name,
					"status", c.Status(),
					"index", i+1,
					"total", len(names),
				)
			}

			if callback != nil {
				callback(c, i)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch complete",
		"total", len(names),
		"elapsed", time.Since(start),
	)

	return results, err
}
