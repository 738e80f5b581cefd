// Package model defines the data structures shared across spngbench.
//
// This package contains the following main types:
//   - ResultsDocument: The test_results.json manifest read by the renderer
//   - Comparison: The outcome of transcoding and verifying one suite image
//   - Run: A complete benchmark run over the PNG suite
//   - RunSummary: Counts derived from a Run for reports and history
//
// The models are serializable to JSON for the manifest, report output and
// database storage.
package model
