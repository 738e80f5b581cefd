package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/model"
)

// Fetcher retrieves results manifests from files or http(s) URLs.
// It holds no per-call state and is safe for concurrent use.
type Fetcher struct {
	// client performs http(s) retrievals.
	client *http.Client

	// baseDir resolves relative file locations.
	baseDir string

	// maxSize limits the body size in bytes.
	maxSize int64

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithBaseDir sets the directory relative file locations resolve against.
func WithBaseDir(dir string) Option {
	return func(f *Fetcher) {
		f.baseDir = dir
	}
}

// WithMaxSize limits the manifest body size. Non-positive values are ignored.
func WithMaxSize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  http.DefaultClient,
		maxSize: config.DefaultMaxManifestSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch retrieves and decodes the manifest at location.
//
// location is an http(s) URL, a file:// URL or a file path. Relative paths
// such as "./test_results.json" resolve against the base directory.
// Cancelling ctx aborts an in-flight http(s) retrieval.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*model.ResultsDocument, error) {
	data, err := f.read(ctx, location)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(location, data)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("manifest fetched",
		"url", location,
		"images", len(doc.ProcessedImages),
	)

	return doc, nil
}

// read returns the raw manifest body.
func (f *Fetcher) read(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, &RetrievalError{Location: location, Err: config.ErrNoResults}
	}

	u, err := url.Parse(location)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return f.readHTTP(ctx, location)
		case "file":
			return f.readFile(ctx, location, u.Path)
		}
	}

	return f.readFile(ctx, location, f.ResolvePath(location))
}

// ResolvePath resolves a file location against the base directory.
func (f *Fetcher) ResolvePath(location string) string {
	if filepath.IsAbs(location) || f.baseDir == "" {
		return filepath.Clean(location)
	}
	return filepath.Join(f.baseDir, location)
}

// readHTTP performs a GET and returns the body of a 2xx response.
func (f *Fetcher) readHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &RetrievalError{Location: location, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("requesting manifest", "url", location)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &RetrievalError{Location: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, &RetrievalError{Location: location, StatusCode: resp.StatusCode}
	}

	return f.readLimited(location, resp.Body)
}

// readFile reads a local manifest.
func (f *Fetcher) readFile(ctx context.Context, location, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RetrievalError{Location: location, Err: err}
	}

	file, err := os.Open(path) //nolint:gosec // User-provided manifest path is intentional
	if err != nil {
		return nil, &RetrievalError{Location: location, Err: err}
	}
	defer file.Close()

	return f.readLimited(location, file)
}

// errTooLarge is wrapped when the body exceeds the size limit.
var errTooLarge = errors.New("manifest exceeds size limit")

// readLimited reads at most maxSize bytes from r.
func (f *Fetcher) readLimited(location string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, &RetrievalError{Location: location, Err: err}
	}
	if int64(len(data)) > f.maxSize {
		return nil, &RetrievalError{
			Location: location,
			Err:      fmt.Errorf("%w (%d bytes)", errTooLarge, f.maxSize),
		}
	}
	return data, nil
}
