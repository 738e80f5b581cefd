package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/spngbench/internal/model"
)

// createTestRun creates a run with one identical, one mismatched and one
// failed image.
func createTestRun() *model.Run {
	run := model.NewRun("tests/png-suite", "benchmark")
	run.ID = 7
	run.Codec = "image/png"
	run.StartedAt = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	run.Duration = 2 * time.Second
	run.Names = []string{"basn2c08", "basn0g01", "broken"}
	run.Comparisons = []model.Comparison{
		{Name: "basn2c08", Width: 32, Height: 32, DimensionsMatch: true, OriginalDigest: "d1", EncodedDigest: "d2"},
		{Name: "basn0g01", Width: 32, Height: 32, DimensionsMatch: true, MismatchedPixels: 12, OriginalExif: true},
		{Name: "broken", Error: "png: invalid format: not a PNG file"},
	}
	return run
}

func createTestDiff() model.RunDiff {
	return model.RunDiff{
		OldID:     6,
		NewID:     7,
		Added:     []string{"basn6a16"},
		Removed:   []string{},
		Regressed: []string{"basn0g01"},
		Fixed:     []string{"basi0g01"},
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run summary and problems", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestRun())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"SPNGBENCH RUN",
			"Run:       #7",
			"Codec:     image/png",
			"Identical:   1",
			"Mismatched:  1",
			"Failed:      1",
			"EXIF lost:   1",
			"[!!] basn0g01: 12 of 1024 pixels differ",
			"[xx] broken: png: invalid format",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "basn2c08") {
			t.Error("identical images should be hidden by default")
		}
	})

	t.Run("show identical and verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowIdentical(true), WithVerbose(true))
		if _, err := w.Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[ok] basn2c08") {
			t.Error("expected identical image to be listed")
		}
		if !strings.Contains(output, "orig d1") {
			t.Error("expected digest in verbose output")
		}
		if !strings.Contains(output, "EXIF metadata dropped") {
			t.Error("expected EXIF note in verbose output")
		}

		// Names are listed in sorted order.
		if strings.Index(output, "basn0g01") > strings.Index(output, "basn2c08") {
			t.Error("images should be sorted by name")
		}
	})

	t.Run("timed out status", func(t *testing.T) {
		t.Parallel()

		run := createTestRun()
		run.TimedOut = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "TIMED OUT") {
			t.Error("expected timed out status")
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		records := []model.RunRecord{{
			ID:        3,
			Codec:     "image/png",
			StartedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
			Summary:   model.RunSummary{Total: 3, Identical: 2, Failed: 1},
		}}
		if _, err := NewSimpleWriter(&buf).WriteHistory(records); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "identical 2, mismatched 0, failed 1") {
			t.Errorf("unexpected history output:\n%s", buf.String())
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No runs recorded.") {
			t.Error("expected empty history message")
		}
	})

	t.Run("diff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"RUN #6 -> #7", "REGRESSED (1)", "FIXED (1)", "ADDED (1)"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(output, "REMOVED") {
			t.Error("empty sections should be omitted")
		}
	})

	t.Run("empty diff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiff(model.RunDiff{OldID: 1, NewID: 2}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No differences.") {
			t.Error("expected no differences message")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run with summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Summary         model.RunSummary `json:"summary"`
			ProcessedImages []string         `json:"processed_images"`
			Run             struct {
				ID    int64  `json:"id"`
				Codec string `json:"codec"`
			} `json:"run"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		wantSummary := model.RunSummary{Total: 3, Identical: 1, Mismatched: 1, Failed: 1, ExifDropped: 1}
		if diff := cmp.Diff(wantSummary, got.Summary); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"basn0g01", "basn2c08"}, got.ProcessedImages); diff != "" {
			t.Errorf("processed images mismatch (-want +got):\n%s", diff)
		}
		if got.Run.ID != 7 || got.Run.Codec != "image/png" {
			t.Errorf("unexpected run %+v", got.Run)
		}
	})

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected single line output, got:\n%s", buf.String())
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"old_id\": 6") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("empty history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("got %q, want []", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# spngbench Run",
			"## Summary",
			"pie",
			"[!CAUTION]",
			"## Problems",
			"`basn0g01`",
			"12 pixels differ",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("clean run gets a tip", func(t *testing.T) {
		t.Parallel()

		run := createTestRun()
		run.Comparisons = run.Comparisons[:1]

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(buf.String(), "## Problems") {
			t.Error("clean run should have no problems section")
		}
	})

	t.Run("history table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		records := []model.RunRecord{{ID: 2, Codec: "image/png", Summary: model.RunSummary{Identical: 5}}}
		if _, err := NewMarkdownWriter(&buf).WriteHistory(records); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "#2") {
			t.Errorf("expected run ID in history:\n%s", buf.String())
		}
	})

	t.Run("diff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"## Regressed", "## Fixed", "## Added", "basn0g01", "[!WARNING]"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(output, "## Removed") {
			t.Error("empty sections should be omitted")
		}
	})
}

// errWriter fails every write.
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		n, err := mw.Write(createTestRun())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("reported %d bytes, want %d", n, a.Len()+b.Len())
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(errWriter{}), NewJSONWriter(&b))

		if _, err := mw.WriteDiff(createTestDiff()); err == nil {
			t.Fatal("expected error")
		}
		if b.Len() != 0 {
			t.Error("second writer should not be reached")
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
