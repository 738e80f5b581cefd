package config

import "time"

// File represents the structure of the .spngbench configuration file.
// Every field is optional; zero values leave the current setting alone.
type File struct {
	// Results is the manifest path or URL.
	Results string `yaml:"results,omitempty"`

	// BaseDir resolves relative manifest paths.
	BaseDir string `yaml:"baseDir,omitempty"`

	// Images is the image source prefix.
	Images string `yaml:"images,omitempty"`

	// Suffixes overrides the image file suffixes.
	Suffixes Suffixes `yaml:"suffixes,omitempty"`

	// Container is the class selector of the results container.
	Container string `yaml:"container,omitempty"`

	// Page is a host page replacing the embedded default.
	Page string `yaml:"page,omitempty"`

	// Suite is the PNG suite directory.
	Suite string `yaml:"suite,omitempty"`

	// Output is the benchmark output directory.
	Output string `yaml:"output,omitempty"`

	// Timeout bounds manifest retrieval, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Concurrency is the number of images transcoded in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Proxy is a SOCKS5 proxy address for remote manifests.
	Proxy string `yaml:"proxy,omitempty"`

	// Headers are added to remote manifest requests.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Addr is the serve listen address.
	Addr string `yaml:"addr,omitempty"`
}

// Suffixes holds the image file suffixes.
type Suffixes struct {
	Original string `yaml:"original,omitempty"`
	Encoded  string `yaml:"encoded,omitempty"`
}

// Apply overlays the non-zero values of the file onto cfg.
// Headers are merged, with file values replacing existing keys.
func (f *File) Apply(cfg *Config) {
	if f.Results != "" {
		cfg.ResultsLocation = f.Results
	}
	if f.BaseDir != "" {
		cfg.BaseDir = f.BaseDir
	}
	if f.Images != "" {
		cfg.ImageBase = f.Images
	}
	if f.Suffixes.Original != "" {
		cfg.OriginalSuffix = f.Suffixes.Original
	}
	if f.Suffixes.Encoded != "" {
		cfg.EncodedSuffix = f.Suffixes.Encoded
	}
	if f.Container != "" {
		cfg.ContainerSelector = f.Container
	}
	if f.Page != "" {
		cfg.PageFile = f.Page
	}
	if f.Suite != "" {
		cfg.SuiteDir = f.Suite
	}
	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range f.Headers {
			cfg.Headers[k] = v
		}
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Addr != "" {
		cfg.Addr = f.Addr
	}
}
