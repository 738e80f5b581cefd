package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultResultsLocation is where the renderer looks for the manifest,
	// relative to the page being rendered.
	DefaultResultsLocation = "./test_results.json"

	// DefaultImageBase is prepended to every image source.
	DefaultImageBase = "./images/"

	// DefaultOriginalSuffix names the reference image of a test.
	DefaultOriginalSuffix = "-orig.png"

	// DefaultEncodedSuffix names the candidate image produced by the codec.
	DefaultEncodedSuffix = "-spng.png"

	// DefaultContainerSelector is the class selector of the element that
	// receives the comparison blocks.
	DefaultContainerSelector = ".results"

	// DefaultSuiteDir is the PNG suite checkout read by generate.
	DefaultSuiteDir = "tests/png-suite"

	// DefaultOutputDir receives the image pairs and the manifest.
	DefaultOutputDir = "benchmark"

	// DefaultImagesDir is the sub-directory of the output dir holding image pairs.
	DefaultImagesDir = "images"

	// DefaultTimeout bounds a single manifest retrieval.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the number of images transcoded in parallel.
	DefaultConcurrency = 4

	// DefaultAddr is the listen address of the serve command.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxManifestSize limits how much of a manifest response is read.
	DefaultMaxManifestSize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies spngbench in HTTP requests.
	DefaultUserAgent = "spngbench/1.0 (+https://github.com/nao1215/spngbench)"

	// AppName is the application name used for XDG directory paths.
	AppName = "spngbench"
)

// Config holds all configuration options for spngbench.
// It is populated from defaults, the configuration file and CLI flags, in
// that order, and passed explicitly to the components that need it.
type Config struct {
	// ResultsLocation is the manifest path or http(s) URL.
	ResultsLocation string

	// BaseDir resolves relative file locations. Empty means the working directory.
	BaseDir string

	// ImageBase is concatenated in front of each test name to form image sources.
	ImageBase string

	// OriginalSuffix and EncodedSuffix complete the two image sources of a test.
	OriginalSuffix string
	EncodedSuffix  string

	// ContainerSelector is the class selector of the results container.
	ContainerSelector string

	// PageFile is an optional host page replacing the embedded default.
	PageFile string

	// OutputFile is where render writes the page. Empty means stdout.
	OutputFile string

	// SuiteDir is the directory of PNG suite images read by generate.
	SuiteDir string

	// OutputDir is the directory generate writes to and serve reads from.
	OutputDir string

	// Timeout bounds a single manifest retrieval.
	Timeout time.Duration

	// Concurrency is the number of images transcoded in parallel.
	Concurrency int

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form used for
	// http(s) manifest retrieval.
	ProxyAddress string

	// Headers are added to every http(s) manifest request.
	Headers map[string]string

	// UserAgent is the User-Agent header of manifest requests.
	UserAgent string

	// MaxManifestSize limits the manifest body size in bytes. Zero means the default.
	MaxManifestSize int64

	// Addr is the listen address of the serve command.
	Addr string

	// Verbose enables debug logging.
	Verbose bool

	// JSONReport and MarkdownReport select the run summary format.
	// They are mutually exclusive; neither means plain text.
	JSONReport     bool
	MarkdownReport bool

	// ConfigFilePath is an explicit configuration file path.
	ConfigFilePath string

	// DBDir is the directory of the run history database.
	DBDir string

	// SaveToDB records generate runs in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ResultsLocation:   DefaultResultsLocation,
		ImageBase:         DefaultImageBase,
		OriginalSuffix:    DefaultOriginalSuffix,
		EncodedSuffix:     DefaultEncodedSuffix,
		ContainerSelector: DefaultContainerSelector,
		SuiteDir:          DefaultSuiteDir,
		OutputDir:         DefaultOutputDir,
		Timeout:           DefaultTimeout,
		Concurrency:       DefaultConcurrency,
		UserAgent:         DefaultUserAgent,
		MaxManifestSize:   DefaultMaxManifestSize,
		Addr:              DefaultAddr,
		Headers:           make(map[string]string),
		DBDir:             XDGDataDir(),
	}
}

// ImagesDir returns the directory generate writes image pairs to.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.OutputDir, DefaultImagesDir)
}

// XDGDataDir returns the XDG data directory for spngbench.
// On Linux: ~/.local/share/spngbench
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for spngbench.
// On Linux: ~/.config/spngbench
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.ResultsLocation == "" {
		return ErrNoResults
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.OriginalSuffix == "" || c.EncodedSuffix == "" {
		return ErrEmptySuffix
	}
	if c.OriginalSuffix == c.EncodedSuffix {
		return ErrSameSuffix
	}

	if c.ProxyAddress != "" && !IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	if c.MaxManifestSize < 0 {
		return ErrInvalidMaxManifestSize
	}

	return nil
}

// IsValidProxyAddress reports whether address is "host:port" with a
// non-empty host and a port between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
