package model

import "time"

// Run is a complete benchmark run over a PNG suite directory.
// Pipeline steps fill it in as they execute.
type Run struct {
	// ID is the database identifier; zero until the run is saved.
	ID int64 `json:"id,omitempty"`

	// SuiteDir is the directory the suite images were read from.
	SuiteDir string `json:"suite_dir"`

	// OutputDir is the directory the image pairs and manifest were written to.
	OutputDir string `json:"output_dir"`

	// Codec names the codec that produced the re-encoded images.
	Codec string `json:"codec"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`

	// Names lists collected test names in collection order.
	Names []string `json:"names"`

	// Comparisons holds one entry per collected name, index-aligned with Names.
	Comparisons []Comparison `json:"comparisons"`

	// PerformedSteps records the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut is set when the run was cancelled before all steps finished.
	TimedOut bool `json:"timed_out"`

	// Error is the last step error, if any.
	Error error `json:"-"`

	// ErrorMessage is the serializable form of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a Run for the given suite and output directories.
func NewRun(suiteDir, outputDir string) *Run {
	return &Run{
		SuiteDir:    suiteDir,
		OutputDir:   outputDir,
		StartedAt:   time.Now(),
		Names:       make([]string, 0),
		Comparisons: make([]Comparison, 0),
	}
}

// ProcessedImages returns the sorted names of images that were transcoded
// successfully. These are the names written to the results manifest.
func (r *Run) ProcessedImages() []string {
	names := make([]string, 0, len(r.Comparisons))
	for _, c := range r.Comparisons {
		if c.Status() == StatusFailed {
			continue
		}
		names = append(names, c.Name)
	}
	SortNames(names)
	return names
}

// Summary counts comparisons by status.
func (r *Run) Summary() RunSummary {
	s := RunSummary{Total: len(r.Comparisons)}
	for _, c := range r.Comparisons {
		switch c.Status() {
		case StatusIdentical:
			s.Identical++
		case StatusMismatched:
			s.Mismatched++
		case StatusFailed:
			s.Failed++
		}
		if c.ExifDropped() {
			s.ExifDropped++
		}
	}
	return s
}

// RunSummary holds per-status counts for a run.
type RunSummary struct {
	Total       int `json:"total"`
	Identical   int `json:"identical"`
	Mismatched  int `json:"mismatched"`
	Failed      int `json:"failed"`
	ExifDropped int `json:"exif_dropped"`
}

// Clean reports whether every image round-tripped without differences.
func (s RunSummary) Clean() bool {
	return s.Mismatched == 0 && s.Failed == 0
}

// RunRecord is a stored run's metadata and summary without its comparisons.
type RunRecord struct {
	ID             int64         `json:"id"`
	SuiteDir       string        `json:"suite_dir"`
	OutputDir      string        `json:"output_dir"`
	Codec          string        `json:"codec"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	TimedOut       bool          `json:"timed_out"`
	ErrorMessage   string        `json:"error,omitempty"`
	PerformedSteps []string      `json:"performed_steps,omitempty"`
	Summary        RunSummary    `json:"summary"`
}
