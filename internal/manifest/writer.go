package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/spngbench/internal/model"
)

// Encode writes doc to w as indented JSON followed by a newline.
// A nil name list is written as an empty array so Decode accepts it.
func Encode(w io.Writer, doc *model.ResultsDocument) error {
	out := *doc
	if out.ProcessedImages == nil {
		out.ProcessedImages = []string{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&out)
}

// WriteFile writes doc to path, creating parent directories.
// The file is written to a temporary name and renamed so readers never see
// a partial manifest.
func WriteFile(path string, doc *model.ResultsDocument) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".test_results-*.json")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, doc); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil { //nolint:gosec // served to browsers
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
