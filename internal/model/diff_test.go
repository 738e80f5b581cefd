package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiffRuns(t *testing.T) {
	t.Parallel()

	ok := func(name string) Comparison {
		return Comparison{Name: name, DimensionsMatch: true}
	}
	bad := func(name string) Comparison {
		return Comparison{Name: name, DimensionsMatch: true, MismatchedPixels: 3}
	}
	failed := func(name string) Comparison {
		return Comparison{Name: name, Error: "decode failed"}
	}

	older := &Run{ID: 1, Comparisons: []Comparison{ok("a"), ok("b"), bad("c"), failed("d"), ok("gone")}}
	newer := &Run{ID: 2, Comparisons: []Comparison{ok("a"), failed("b"), ok("c"), ok("d"), ok("new")}}

	want := RunDiff{
		OldID:     1,
		NewID:     2,
		Added:     []string{"new"},
		Removed:   []string{"gone"},
		Regressed: []string{"b"},
		Fixed:     []string{"c", "d"},
	}
	got := DiffRuns(older, newer)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiffRuns() mismatch (-want +got):\n%s", diff)
	}
	if got.Empty() {
		t.Error("Empty() = true for differing runs")
	}

	same := DiffRuns(older, older)
	if !same.Empty() {
		t.Errorf("expected empty diff, got %+v", same)
	}
}
