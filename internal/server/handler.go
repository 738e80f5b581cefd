package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/manifest"
	"github.com/nao1215/spngbench/internal/model"
	"github.com/nao1215/spngbench/internal/render"
)

var (
	// ErrNoDir is returned when no results directory is configured.
	ErrNoDir = errors.New("server: results directory is required")

	// ErrImageBase is returned when image sources do not point inside the
	// results directory.
	ErrImageBase = errors.New("server: image base must be a relative directory inside the results directory")
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080".
	Addr string

	// Dir holds test_results.json and the images directory.
	Dir string

	// PageFile is an optional host page; the built-in page is used when empty.
	PageFile string

	// Selector locates the results container in the page.
	Selector string

	// Sources builds image URLs in rendered blocks.
	Sources render.ImageSources

	// ImagesDir is the slash-separated images directory inside Dir.
	// It is derived from Sources.Base when empty.
	ImagesDir string

	// MaxManifestSize limits the manifest size in bytes.
	MaxManifestSize int64

	Logger *slog.Logger
}

// ConfigFromAppConfig builds a server Config from the application config.
func ConfigFromAppConfig(cfg *config.Config, logger *slog.Logger) Config {
	return Config{
		Addr:     cfg.Addr,
		Dir:      cfg.OutputDir,
		PageFile: cfg.PageFile,
		Selector: cfg.ContainerSelector,
		Sources: render.ImageSources{
			Base:           cfg.ImageBase,
			OriginalSuffix: cfg.OriginalSuffix,
			EncodedSuffix:  cfg.EncodedSuffix,
		},
		MaxManifestSize: cfg.MaxManifestSize,
		Logger:          logger,
	}
}

func (c *Config) setDefaults() {
	if c.Selector == "" {
		c.Selector = config.DefaultContainerSelector
	}
	if c.Sources == (render.ImageSources{}) {
		c.Sources = render.DefaultImageSources()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// handler renders the page and serves the results directory.
type handler struct {
	cfg     Config
	page    []byte
	fetcher *manifest.Fetcher
}

// NewHandler builds the HTTP handler.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Dir == "" {
		return nil, ErrNoDir
	}
	cfg.setDefaults()
	if cfg.ImagesDir == "" {
		dir, err := ImagesDirForBase(cfg.Sources.Base)
		if err != nil {
			return nil, err
		}
		cfg.ImagesDir = dir
	}

	h := &handler{
		cfg: cfg,
		fetcher: manifest.NewFetcher(
			manifest.WithBaseDir(cfg.Dir),
			manifest.WithMaxSize(cfg.MaxManifestSize),
			manifest.WithLogger(cfg.Logger),
		),
	}

	if cfg.PageFile != "" {
		data, err := os.ReadFile(cfg.PageFile)
		if err != nil {
			return nil, fmt.Errorf("server: read page: %w", err)
		}
		h.page = data
	}

	imagesPrefix := "/" + cfg.ImagesDir + "/"

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.serveIndex)
	mux.HandleFunc("/"+model.ResultsFileName, h.serveManifest)
	mux.Handle(imagesPrefix, readOnly(http.StripPrefix(imagesPrefix,
		http.FileServer(http.Dir(filepath.Join(cfg.Dir, filepath.FromSlash(cfg.ImagesDir)))))))

	return logRequests(cfg.Logger, mux), nil
}

// ImagesDirForBase returns the directory, relative to the results directory,
// that the image sources built from base point into. Everything after the
// last slash of base is a file name prefix. "./images/" yields "images".
func ImagesDirForBase(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrImageBase, base, err)
	}
	if u.Scheme != "" || u.Host != "" || u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("%w: %q", ErrImageBase, base)
	}

	i := strings.LastIndex(u.Path, "/")
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrImageBase, base)
	}
	dir := path.Clean(strings.TrimLeft(u.Path[:i+1], "/"))
	if dir == "." || dir == ".." || strings.HasPrefix(dir, "../") {
		return "", fmt.Errorf("%w: %q", ErrImageBase, base)
	}
	return dir, nil
}

// serveIndex renders the comparison page.
func (h *handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}

	page, err := h.loadPage()
	if err != nil {
		h.cfg.Logger.Error("failed to load page", "error", err)
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		return
	}

	renderer := render.NewRenderer(h.fetcher,
		render.WithLocation(config.DefaultResultsLocation),
		render.WithImageSources(h.cfg.Sources),
		render.WithLogger(h.cfg.Logger),
	)
	if err := renderer.RenderInto(r.Context(), page, h.cfg.Selector); err != nil {
		h.cfg.Logger.Warn("failed to render page", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		http.Error(w, "failed to write page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (h *handler) loadPage() (*render.Page, error) {
	if h.page == nil {
		return render.DefaultPage()
	}
	return render.ParsePage(bytes.NewReader(h.page))
}

// serveManifest serves test_results.json from the results directory.
func (h *handler) serveManifest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, filepath.Join(h.cfg.Dir, model.ResultsFileName))
}

// statusFor maps render failures to HTTP status codes.
func statusFor(err error) int {
	var retrievalErr *manifest.RetrievalError
	switch {
	case errors.As(err, &retrievalErr) && errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, manifest.ErrDecode), errors.Is(err, manifest.ErrShape):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// allowRead rejects methods other than GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func readOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}
