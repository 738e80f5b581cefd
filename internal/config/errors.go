package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with errors.Is.
var (
	// ErrNoResults is returned when no results manifest location is configured.
	ErrNoResults = errors.New("no results location specified: provide a path or URL to test_results.json")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrEmptySuffix is returned when an image suffix is empty.
	// An empty suffix would make the original and encoded sources collide.
	ErrEmptySuffix = errors.New("invalid image suffix: must not be empty")

	// ErrSameSuffix is returned when both image suffixes are equal.
	ErrSameSuffix = errors.New("invalid image suffixes: original and encoded suffixes must differ")

	// ErrInvalidMaxManifestSize is returned when the manifest size limit is negative.
	ErrInvalidMaxManifestSize = errors.New("invalid max manifest size: must be non-negative")
)
