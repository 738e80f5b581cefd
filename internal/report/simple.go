package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/spngbench/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs plain text for terminals.
type SimpleWriter struct {
	baseWriter

	// showIdentical lists identical images in the per-image section.
	showIdentical bool

	// verbose adds digests and EXIF details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowIdentical lists identical images as well as problems.
func WithShowIdentical(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showIdentical = show
	}
}

// WithVerbose adds digests and EXIF details to per-image lines.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeSummary(&sb, run.Summary())
	w.writeImages(&sb, run)
	writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	sb.WriteString("\n")
	writeBanner(sb, "SPNGBENCH RUN")

	if run.ID != 0 {
		fmt.Fprintf(sb, "Run:       #%d\n", run.ID)
	}
	fmt.Fprintf(sb, "Suite:     %s\n", run.SuiteDir)
	fmt.Fprintf(sb, "Output:    %s\n", run.OutputDir)
	fmt.Fprintf(sb, "Codec:     %s\n", run.Codec)
	fmt.Fprintf(sb, "Started:   %s\n", run.StartedAt.Format(timeFormat))
	fmt.Fprintf(sb, "Duration:  %s\n", run.Duration.Round(time.Millisecond))

	switch {
	case run.TimedOut:
		sb.WriteString("Status:    TIMED OUT (partial results)\n")
	case run.ErrorMessage != "":
		fmt.Fprintf(sb, "Status:    ERROR - %s\n", run.ErrorMessage)
	default:
		sb.WriteString("Status:    Complete\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, s model.RunSummary) {
	writeSection(sb, "SUMMARY")

	fmt.Fprintf(sb, "  %-12s %d\n", statusLabel(model.StatusIdentical)+":", s.Identical)
	fmt.Fprintf(sb, "  %-12s %d\n", statusLabel(model.StatusMismatched)+":", s.Mismatched)
	fmt.Fprintf(sb, "  %-12s %d\n", statusLabel(model.StatusFailed)+":", s.Failed)
	fmt.Fprintf(sb, "  %-12s %d\n", "Total:", s.Total)
	if s.ExifDropped > 0 {
		fmt.Fprintf(sb, "  %-12s %d\n", "EXIF lost:", s.ExifDropped)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeImages(sb *strings.Builder, run *model.Run) {
	lines := make([]string, 0, len(run.Comparisons))
	for _, c := range sortedComparisons(run) {
		status := c.Status()
		if status == model.StatusIdentical && !w.showIdentical {
			continue
		}
		lines = append(lines, w.imageLine(c))
	}
	if len(lines) == 0 {
		return
	}

	writeSection(sb, "IMAGES")
	for _, line := range lines {
		sb.WriteString(line)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) imageLine(c model.Comparison) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "  [%s] %s", statusIndicator(c.Status()), c.Name)
	switch c.Status() {
	case model.StatusFailed:
		fmt.Fprintf(&sb, ": %s", c.Error)
	case model.StatusMismatched:
		if !c.DimensionsMatch {
			sb.WriteString(": dimensions differ")
		} else {
			fmt.Fprintf(&sb, ": %d of %d pixels differ", c.MismatchedPixels, int64(c.Width)*int64(c.Height))
		}
	}
	sb.WriteString("\n")

	if w.verbose && c.Status() != model.StatusFailed {
		fmt.Fprintf(&sb, "      orig %s\n", c.OriginalDigest)
		fmt.Fprintf(&sb, "      spng %s\n", c.EncodedDigest)
		if c.ExifDropped() {
			sb.WriteString("      EXIF metadata dropped\n")
		}
	}
	return sb.String()
}

// WriteHistory implements Writer.
func (w *SimpleWriter) WriteHistory(records []model.RunRecord) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	writeBanner(&sb, "SPNGBENCH HISTORY")

	if len(records) == 0 {
		sb.WriteString("No runs recorded.\n")
	}
	for _, r := range records {
		fmt.Fprintf(&sb, "#%-4d %s  %-10s identical %d, mismatched %d, failed %d\n",
			r.ID,
			r.StartedAt.Format(timeFormat),
			r.Codec,
			r.Summary.Identical,
			r.Summary.Mismatched,
			r.Summary.Failed,
		)
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// WriteDiff implements Writer.
func (w *SimpleWriter) WriteDiff(diff model.RunDiff) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	writeBanner(&sb, fmt.Sprintf("RUN #%d -> #%d", diff.OldID, diff.NewID))

	if diff.Empty() {
		sb.WriteString("No differences.\n\n")
		return io.WriteString(w.output, sb.String())
	}

	writeNameList(&sb, "REGRESSED", diff.Regressed)
	writeNameList(&sb, "FIXED", diff.Fixed)
	writeNameList(&sb, "ADDED", diff.Added)
	writeNameList(&sb, "REMOVED", diff.Removed)

	return io.WriteString(w.output, sb.String())
}

func writeNameList(sb *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	writeSection(sb, fmt.Sprintf("%s (%d)", title, len(names)))
	for _, name := range names {
		fmt.Fprintf(sb, "  %s\n", name)
	}
	sb.WriteString("\n")
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by spngbench\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

// statusLabel returns a status in title case, e.g. "Identical".
func statusLabel(s model.Status) string {
	return cases.Title(language.English).String(s.String())
}

func statusIndicator(s model.Status) string {
	switch s {
	case model.StatusIdentical:
		return "ok"
	case model.StatusMismatched:
		return "!!"
	case model.StatusFailed:
		return "xx"
	default:
		return "??"
	}
}

// sortedComparisons returns the run's comparisons in display order.
func sortedComparisons(run *model.Run) []model.Comparison {
	out := slices.Clone(run.Comparisons)
	slices.SortStableFunc(out, func(a, b model.Comparison) int {
		return model.CompareNames(a.Name, b.Name)
	})
	return out
}
