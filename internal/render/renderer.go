package render

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/model"
)

// ErrNilContainer is returned when Render is called without a container.
var ErrNilContainer = errors.New("render container is nil")

// Fetcher retrieves the results manifest.
// *manifest.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*model.ResultsDocument, error)
}

// Renderer materializes comparison blocks from a results manifest.
// It keeps no state between calls.
type Renderer struct {
	fetcher  Fetcher
	location string
	sources  ImageSources
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocation sets the manifest location.
func WithLocation(location string) Option {
	return func(r *Renderer) {
		r.location = location
	}
}

// WithImageSources sets how image URLs are built.
func WithImageSources(sources ImageSources) Option {
	return func(r *Renderer) {
		r.sources = sources
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// DefaultImageSources returns "./images/{name}-orig.png" and
// "./images/{name}-spng.png" sources.
func DefaultImageSources() ImageSources {
	return ImageSources{
		Base:           config.DefaultImageBase,
		OriginalSuffix: config.DefaultOriginalSuffix,
		EncodedSuffix:  config.DefaultEncodedSuffix,
	}
}

// NewRenderer creates a Renderer reading "./test_results.json" by default.
func NewRenderer(fetcher Fetcher, opts ...Option) *Renderer {
	r := &Renderer{
		fetcher:  fetcher,
		location: config.DefaultResultsLocation,
		sources:  DefaultImageSources(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// NewRendererFromConfig creates a Renderer using the locations in cfg.
func NewRendererFromConfig(fetcher Fetcher, cfg *config.Config, logger *slog.Logger) *Renderer {
	return NewRenderer(fetcher,
		WithLocation(cfg.ResultsLocation),
		WithImageSources(ImageSources{
			Base:           cfg.ImageBase,
			OriginalSuffix: cfg.OriginalSuffix,
			EncodedSuffix:  cfg.EncodedSuffix,
		}),
		WithLogger(logger),
	)
}

// Render fetches the manifest and appends one comparison block per name to
// container, in sorted order.
//
// The fetch is the only blocking step. If it fails, the error is returned
// and container is left untouched. Rendering twice into the same container
// appends the blocks twice.
func (r *Renderer) Render(ctx context.Context, container *html.Node) error {
	if container == nil {
		return ErrNilContainer
	}

	doc, err := r.fetcher.Fetch(ctx, r.location)
	if err != nil {
		return err
	}

	names := doc.SortedNames()
	for _, name := range names {
		container.AppendChild(NewComparisonBlock(name, r.sources))
	}

	r.logger.Debug("comparisons rendered",
		"url", r.location,
		"count", len(names),
	)

	return nil
}
