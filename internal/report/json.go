package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/spngbench/internal/model"
)

// JSONWriter outputs machine-readable JSON.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter. Output is compact unless an indent
// option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RunReport wraps a run with its summary for JSON output.
type RunReport struct {
	Run     *model.Run       `json:"run"`
	Summary model.RunSummary `json:"summary"`

	// ProcessedImages are the names listed in the results manifest.
	ProcessedImages []string `json:"processed_images"`
}

// Write implements Writer.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.writeJSON(RunReport{
		Run:             run,
		Summary:         run.Summary(),
		ProcessedImages: run.ProcessedImages(),
	})
}

// WriteHistory implements Writer. An empty history is written as [].
func (w *JSONWriter) WriteHistory(records []model.RunRecord) (int, error) {
	if records == nil {
		records = []model.RunRecord{}
	}
	return w.writeJSON(records)
}

// WriteDiff implements Writer.
func (w *JSONWriter) WriteDiff(diff model.RunDiff) (int, error) {
	return w.writeJSON(diff)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
