package model

import (
	"slices"
	"unicode/utf16"
)

// ResultsFileName is the manifest file name written next to the images.
const ResultsFileName = "test_results.json"

// ResultsDocument is the results manifest consumed by the renderer.
// Only ProcessedImages is required; GeneratedAt is informational.
type ResultsDocument struct {
	// ProcessedImages lists the test names that have an image pair.
	// Order is not significant; consumers sort before display.
	ProcessedImages []string `json:"processed_images"`

	// GeneratedAt is the RFC 3339 time the manifest was written.
	GeneratedAt string `json:"generated_at,omitempty"`
}

// SortedNames returns a sorted copy of ProcessedImages.
// The document itself is left untouched. Duplicates are kept.
func (d *ResultsDocument) SortedNames() []string {
	names := slices.Clone(d.ProcessedImages)
	SortNames(names)
	return names
}

// SortNames sorts test names in place by UTF-16 code unit order.
// This is plain lexicographic order without locale or numeric awareness,
// so "img10" sorts before "img2".
func SortNames(names []string) {
	slices.SortStableFunc(names, CompareNames)
}

// CompareNames compares two test names by UTF-16 code units.
// It agrees with byte order for names inside the Basic Multilingual Plane
// and differs only where surrogate pairs meet code points above U+E000.
func CompareNames(a, b string) int {
	if isASCII(a) && isASCII(b) {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// isASCII reports whether s contains only 7-bit characters.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
