package manifest

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/spngbench/internal/model"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, &model.ResultsDocument{ProcessedImages: []string{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, `"processed_images": []`) {
		t.Errorf("empty names should encode as an array, got %s", got)
	}
	if strings.Contains(got, "generated_at") {
		t.Errorf("empty generated_at should be omitted, got %s", got)
	}
}

func TestEncodeDecodeEmptyDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  *model.ResultsDocument
	}{
		{name: "nil names", doc: &model.ResultsDocument{}},
		{name: "empty names", doc: &model.ResultsDocument{ProcessedImages: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tt.doc); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			got, err := Decode("./test_results.json", buf.Bytes())
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, buf.String())
			}
			if len(got.ProcessedImages) != 0 {
				t.Errorf("ProcessedImages = %v, want empty", got.ProcessedImages)
			}
		})
	}

	t.Run("does not modify the document", func(t *testing.T) {
		t.Parallel()

		doc := &model.ResultsDocument{}
		if err := Encode(&bytes.Buffer{}, doc); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if doc.ProcessedImages != nil {
			t.Error("Encode() replaced the caller's nil slice")
		}
	})
}

func TestWriteFileRoundTrip(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	path := filepath.Join(dir, model.ResultsFileName)
	want := &model.ResultsDocument{
		ProcessedImages: []string{"basn0g01", "basn2c08"},
		GeneratedAt:     "2026-10-19T00:00:00Z",
	}

	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := NewFetcher().Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}
