package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/spngbench/internal/manifest"
	"github.com/nao1215/spngbench/internal/model"
)

// writeManifest writes test_results.json listing names into a new directory.
func writeManifest(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	doc := &model.ResultsDocument{ProcessedImages: names}
	if err := manifest.WriteFile(filepath.Join(dir, model.ResultsFileName), doc); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

// assertInOrder fails unless every want appears in s, in order.
func assertInOrder(t *testing.T, s string, want ...string) {
	t.Helper()

	pos := 0
	for _, w := range want {
		i := strings.Index(s[pos:], w)
		if i < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", w, pos, s)
		}
		pos += i + len(w)
	}
}

func TestRenderCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes sorted blocks to stdout", func(t *testing.T) {
		t.Parallel()

		dir := writeManifest(t, "b", "a", "c")

		out, err := execute(t, "render", "--base-dir", dir)
		if err != nil {
			t.Fatalf("render error = %v", err)
		}

		assertInOrder(t, out,
			`<div class="comparison" id="a"><p>a</p>`,
			`<img src="./images/a-orig.png" class="orig"/>`,
			`<img src="./images/a-spng.png" class="spng"/>`,
			`id="b"`,
			`id="c"`,
		)
		if n := strings.Count(out, `class="comparison"`); n != 3 {
			t.Errorf("rendered %d blocks, want 3", n)
		}
	})

	t.Run("code unit order", func(t *testing.T) {
		t.Parallel()

		dir := writeManifest(t, "img2", "img10", "Img3")

		out, err := execute(t, "render", "--base-dir", dir)
		if err != nil {
			t.Fatalf("render error = %v", err)
		}
		assertInOrder(t, out, `id="Img3"`, `id="img10"`, `id="img2"`)
	})

	t.Run("custom image prefix and output file", func(t *testing.T) {
		t.Parallel()

		dir := writeManifest(t, "basn0g01")
		outFile := filepath.Join(t.TempDir(), "site", "index.html")

		out, err := execute(t, "render",
			"--results", filepath.Join(dir, model.ResultsFileName),
			"--images", "https://cdn.example.com/png/",
			"-o", outFile,
		)
		if err != nil {
			t.Fatalf("render error = %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}

		data, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), `src="https://cdn.example.com/png/basn0g01-spng.png"`) {
			t.Errorf("expected custom image prefix in:\n%s", data)
		}
	})

	t.Run("empty manifest renders the page without blocks", func(t *testing.T) {
		t.Parallel()

		dir := writeManifest(t)

		out, err := execute(t, "render", "--base-dir", dir)
		if err != nil {
			t.Fatalf("render error = %v", err)
		}
		if !strings.Contains(out, `class="results"`) {
			t.Errorf("expected results container in:\n%s", out)
		}
		if strings.Contains(out, `class="comparison"`) {
			t.Errorf("expected no blocks in:\n%s", out)
		}
	})

	t.Run("missing manifest leaves no output file", func(t *testing.T) {
		t.Parallel()

		outFile := filepath.Join(t.TempDir(), "index.html")

		_, err := execute(t, "render", "--base-dir", t.TempDir(), "-o", outFile)
		if !errors.Is(err, manifest.ErrRetrieval) {
			t.Fatalf("render error = %v, want ErrRetrieval", err)
		}
		if _, statErr := os.Stat(outFile); !os.IsNotExist(statErr) {
			t.Errorf("expected no output file, stat error = %v", statErr)
		}
	})

	t.Run("host page without container", func(t *testing.T) {
		t.Parallel()

		dir := writeManifest(t, "a")
		page := filepath.Join(t.TempDir(), "page.html")
		if err := os.WriteFile(page, []byte(`<html><body><main></main></body></html>`), 0600); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}

		if _, err := execute(t, "render", "--base-dir", dir, "--page", page); err == nil {
			t.Error("expected error for a page without a results container")
		}
	})

	t.Run("rejects invalid proxy", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "render", "--proxy", "not-a-proxy")
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("render error = %v, want configuration error", err)
		}
	})
}
