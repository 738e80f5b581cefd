package bench

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoImages is returned when a suite directory contains no usable images.
var ErrNoImages = errors.New("no PNG images found in suite directory")

// corruptPrefix marks suite files that are intentionally invalid.
const corruptPrefix = "x"

// Collect returns the test names (file stems) of the PNG files in dir,
// in file name order. Hidden files and names starting with "x" are skipped.
func Collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		file := entry.Name()
		ext := filepath.Ext(file)
		if !strings.EqualFold(ext, ".png") {
			continue
		}
		if strings.HasPrefix(file, corruptPrefix) || strings.HasPrefix(file, ".") {
			continue
		}

		names = append(names, strings.TrimSuffix(file, ext))
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImages, dir)
	}
	return names, nil
}

// SuitePath returns the path of name's source file in dir.
// It prefers "name.png" and falls back to any case of the extension.
func SuitePath(dir, name string) string {
	path := filepath.Join(dir, name+".png")
	if _, err := os.Stat(path); err == nil {
		return path
	}

	matches, err := filepath.Glob(filepath.Join(dir, name+".[pP][nN][gG]"))
	if err == nil && len(matches) > 0 {
		return matches[0]
	}
	return path
}
