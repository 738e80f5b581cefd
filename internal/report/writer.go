package report

import (
	"io"

	"github.com/nao1215/spngbench/internal/model"
)

// Writer writes run summaries in one output format.
type Writer interface {
	// Write outputs a single run with its per-image results.
	Write(run *model.Run) (int, error)

	// WriteHistory outputs a list of stored runs.
	WriteHistory(records []model.RunRecord) (int, error)

	// WriteDiff outputs the differences between two runs.
	WriteDiff(diff model.RunDiff) (int, error)
}

// MultiWriter writes to several Writers in order, stopping at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write implements Writer.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(run) })
}

// WriteHistory implements Writer.
func (m *MultiWriter) WriteHistory(records []model.RunRecord) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(records) })
}

// WriteDiff implements Writer.
func (m *MultiWriter) WriteDiff(diff model.RunDiff) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteDiff(diff) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeFormat is used for run timestamps in text and Markdown output.
const timeFormat = "2006-01-02 15:04:05 MST"
