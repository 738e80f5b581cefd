package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/nao1215/spngbench/internal/bench"
	"github.com/nao1215/spngbench/internal/manifest"
	"github.com/nao1215/spngbench/internal/model"
)

// CollectStep lists the suite images of run.SuiteDir into run.Names.
type CollectStep struct {
	logger *slog.Logger
}

// NewCollectStep creates a CollectStep.
func NewCollectStep(logger *slog.Logger) *CollectStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectStep{logger: logger}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do implements Step.
func (s *CollectStep) Do(_ context.Context, run *model.Run) error {
	names, err := bench.Collect(run.SuiteDir)
	if err != nil {
		return err
	}
	run.Names = names

	s.logger.Info("suite collected",
		"suite", run.SuiteDir,
		"images", len(names),
	)
	return nil
}

// ProgressFunc is told about each finished image. done counts finished
// images including c; total is the number of collected names.
type ProgressFunc func(c model.Comparison, done, total int)

// ImageStep transcodes and verifies every collected name concurrently.
type ImageStep struct {
	codec       bench.Codec
	layout      bench.Layout
	concurrency int
	logger      *slog.Logger
	progress    ProgressFunc
}

// ImageStepOption configures an ImageStep.
type ImageStepOption func(*ImageStep)

// WithProgress reports each finished image to fn.
// Calls are serialized, so fn need not be safe for concurrent use.
func WithProgress(fn ProgressFunc) ImageStepOption {
	return func(s *ImageStep) {
		s.progress = fn
	}
}

// NewImageStep creates an ImageStep writing pairs according to layout.
func NewImageStep(codec bench.Codec, layout bench.Layout, concurrency int, logger *slog.Logger, opts ...ImageStepOption) *ImageStep {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ImageStep{
		codec:       codec,
		layout:      layout,
		concurrency: concurrency,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ImageStep) Name() string {
	return "transcode"
}

// Do implements Step. Per-image failures are recorded on run.Comparisons.
func (s *ImageStep) Do(ctx context.Context, run *model.Run) error {
	run.Codec = s.codec.Name()

	transcoder := bench.NewTranscoder(s.codec, s.layout)
	verifier := bench.NewVerifier(s.codec, s.layout)

	bp := NewBatchProcessor(
		func(ctx context.Context, name string) model.Comparison {
			if err := transcoder.Transcode(ctx, name); err != nil {
				return model.Comparison{Name: name, Error: err.Error()}
			}
			return verifier.Verify(ctx, name)
		},
		WithConcurrency(s.concurrency),
		WithBatchLogger(s.logger),
	)

	var (
		mu   sync.Mutex
		done int
	)
	total := len(run.Names)

	comparisons, err := bp.ProcessBatchWithCallback(ctx, run.Names, func(c model.Comparison, _ int) {
		if s.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		s.progress(c, done, total)
	})
	run.Comparisons = comparisons
	return err
}

// ManifestStep writes test_results.json into run.OutputDir.
type ManifestStep struct {
	now func() time.Time
}

// NewManifestStep creates a ManifestStep.
func NewManifestStep() *ManifestStep {
	return &ManifestStep{now: time.Now}
}

// Name returns the step name.
func (s *ManifestStep) Name() string {
	return "manifest"
}

// Do implements Step. Only successfully transcoded names are listed.
func (s *ManifestStep) Do(_ context.Context, run *model.Run) error {
	doc := &model.ResultsDocument{
		ProcessedImages: run.ProcessedImages(),
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
	}

	path := filepath.Join(run.OutputDir, model.ResultsFileName)
	if err := manifest.WriteFile(path, doc); err != nil {
		return fmt.Errorf("failed to write results manifest: %w", err)
	}
	return nil
}

// RunStore persists finished runs.
// *database.RunDB satisfies it.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) (int64, error)
}

// SaveStep stores the run in history and sets run.ID.
type SaveStep struct {
	store RunStore
}

// NewSaveStep creates a SaveStep.
func NewSaveStep(store RunStore) *SaveStep {
	return &SaveStep{store: store}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do implements Step.
func (s *SaveStep) Do(ctx context.Context, run *model.Run) error {
	id, err := s.store.SaveRun(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	run.ID = id
	return nil
}
