// Package main provides the entry point for the spngbench CLI.
//
// spngbench benchmarks a PNG codec against the PNG suite and renders the
// results as a side-by-side comparison page.
//
// Usage:
//
//	spngbench generate --suite tests/png-suite --out benchmark
//	spngbench render --results benchmark/test_results.json -o index.html
//	spngbench serve --dir benchmark
//
// See --help for all available options.
package main

// main is the entry point for spngbench.
func main() {
	Execute()
}
