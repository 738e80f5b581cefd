package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/spngbench/internal/model"
)

// MarkdownWriter outputs GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := run.Summary()

	md.H1("spngbench Run")
	md.PlainText("")
	w.writeRunTable(md, run)

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ " + statusLabel(model.StatusIdentical), strconv.Itoa(summary.Identical)},
			{"⚠️ " + statusLabel(model.StatusMismatched), strconv.Itoa(summary.Mismatched)},
			{"❌ " + statusLabel(model.StatusFailed), strconv.Itoa(summary.Failed)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)
	w.writeProblems(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeRunTable(md *markdown.Markdown, run *model.Run) {
	rows := [][]string{
		{"Suite", "`" + run.SuiteDir + "`"},
		{"Output", "`" + run.OutputDir + "`"},
		{"Codec", run.Codec},
		{"Started", run.StartedAt.Format(timeFormat)},
		{"Status", runStatusText(run.TimedOut, run.ErrorMessage)},
	}
	if run.ID != 0 {
		rows = append([][]string{{"Run", "#" + strconv.FormatInt(run.ID, 10)}}, rows...)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func runStatusText(timedOut bool, errMsg string) string {
	if timedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if errMsg != "" {
		return "❌ Error - " + errMsg
	}
	return "✅ Complete"
}

// writePieChart writes a mermaid pie chart of the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Image Status Distribution"),
		piechart.WithShowData(true),
	)

	if s.Identical > 0 {
		chart.LabelAndIntValue(statusLabel(model.StatusIdentical), uint64(s.Identical))
	}
	if s.Mismatched > 0 {
		chart.LabelAndIntValue(statusLabel(model.StatusMismatched), uint64(s.Mismatched))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue(statusLabel(model.StatusFailed), uint64(s.Failed))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s model.RunSummary) {
	switch {
	case s.Failed > 0:
		md.Cautionf("%d image(s) could not be transcoded.", s.Failed)
	case s.Mismatched > 0:
		md.Warningf("%d image(s) changed after re-encoding.", s.Mismatched)
	case s.Total == 0:
		md.Note("No images were processed.")
	default:
		md.Tip("Every image round-tripped without pixel differences.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeProblems(md *markdown.Markdown, run *model.Run) {
	rows := make([][]string, 0)
	for _, c := range sortedComparisons(run) {
		switch c.Status() {
		case model.StatusFailed:
			rows = append(rows, []string{"`" + c.Name + "`", statusLabel(c.Status()), truncateString(c.Error, 60)})
		case model.StatusMismatched:
			detail := fmt.Sprintf("%d pixels differ", c.MismatchedPixels)
			if !c.DimensionsMatch {
				detail = "dimensions differ"
			}
			rows = append(rows, []string{"`" + c.Name + "`", statusLabel(c.Status()), detail})
		}
	}
	if len(rows) == 0 {
		return
	}

	md.H2("Problems")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Image", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteHistory implements Writer.
func (w *MarkdownWriter) WriteHistory(records []model.RunRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("spngbench History")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			"#" + strconv.FormatInt(r.ID, 10),
			r.StartedAt.Format(timeFormat),
			r.Codec,
			strconv.Itoa(r.Summary.Identical),
			strconv.Itoa(r.Summary.Mismatched),
			strconv.Itoa(r.Summary.Failed),
			runStatusText(r.TimedOut, r.ErrorMessage),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Started", "Codec", "Identical", "Mismatched", "Failed", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WriteDiff implements Writer.
func (w *MarkdownWriter) WriteDiff(diff model.RunDiff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(fmt.Sprintf("Run #%d → #%d", diff.OldID, diff.NewID))
	md.PlainText("")

	if diff.Empty() {
		md.Tip("No differences between the runs.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}
	if len(diff.Regressed) > 0 {
		md.Warningf("%d image(s) regressed.", len(diff.Regressed))
		md.PlainText("")
	}

	sections := []struct {
		title string
		names []string
	}{
		{"Regressed", diff.Regressed},
		{"Fixed", diff.Fixed},
		{"Added", diff.Added},
		{"Removed", diff.Removed},
	}
	for _, sec := range sections {
		if len(sec.names) == 0 {
			continue
		}
		md.H2(sec.title)
		md.PlainText("")
		md.BulletList(sec.names...)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [spngbench](https://github.com/nao1215/spngbench)*")
}

// truncateString truncates s to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
