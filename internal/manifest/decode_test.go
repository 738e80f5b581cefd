package manifest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid manifest keeps input order", func(t *testing.T) {
		t.Parallel()

		doc, err := Decode("test", []byte(`{"processed_images":["b","a","c"],"generated_at":"2026-01-02T03:04:05Z"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"b", "a", "c"}, doc.ProcessedImages); diff != "" {
			t.Errorf("ProcessedImages mismatch (-want +got):\n%s", diff)
		}
		if doc.GeneratedAt != "2026-01-02T03:04:05Z" {
			t.Errorf("GeneratedAt = %q", doc.GeneratedAt)
		}
	})

	t.Run("empty array is valid", func(t *testing.T) {
		t.Parallel()

		doc, err := Decode("test", []byte(`{"processed_images":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.ProcessedImages) != 0 {
			t.Errorf("expected no names, got %v", doc.ProcessedImages)
		}
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		t.Parallel()

		doc, err := Decode("test", []byte(`{"processed_images":["a"],"extra":{"x":1}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"a"}, doc.ProcessedImages); diff != "" {
			t.Errorf("ProcessedImages mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		sentinel error
		field    string
	}{
		{name: "empty body", body: "", sentinel: ErrDecode},
		{name: "html error page", body: "<html>not found</html>", sentinel: ErrDecode},
		{name: "truncated", body: `{"processed_images":["a"`, sentinel: ErrDecode},
		{name: "array document", body: `["a","b"]`, sentinel: ErrShape},
		{name: "string document", body: `"a"`, sentinel: ErrShape},
		{name: "missing field", body: `{"images":["a"]}`, sentinel: ErrShape, field: "processed_images"},
		{name: "null document", body: `null`, sentinel: ErrShape, field: "processed_images"},
		{name: "null field", body: `{"processed_images":null}`, sentinel: ErrShape, field: "processed_images"},
		{name: "string field", body: `{"processed_images":"a"}`, sentinel: ErrShape, field: "processed_images"},
		{name: "mixed array", body: `{"processed_images":["a",1]}`, sentinel: ErrShape, field: "processed_images"},
		{name: "null element", body: `{"processed_images":["a",null]}`, sentinel: ErrShape, field: "processed_images"},
		{name: "only null element", body: `{"processed_images":[null]}`, sentinel: ErrShape, field: "processed_images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Decode("./test_results.json", []byte(tt.body))
			if err == nil {
				t.Fatalf("expected error, got %+v", doc)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}

			if tt.sentinel == ErrShape {
				var shapeErr *ShapeError
				if !errors.As(err, &shapeErr) {
					t.Fatalf("expected *ShapeError, got %T", err)
				}
				if shapeErr.Field != tt.field {
					t.Errorf("Field = %q, want %q", shapeErr.Field, tt.field)
				}
				if errors.Is(err, ErrDecode) {
					t.Error("shape error should not match ErrDecode")
				}
			} else {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("expected *DecodeError, got %T", err)
				}
				if decodeErr.Location != "./test_results.json" {
					t.Errorf("Location = %q", decodeErr.Location)
				}
			}
		})
	}
}
