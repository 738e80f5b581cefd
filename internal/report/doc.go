// Package report writes benchmark run summaries.
//
// Three formats are provided: SimpleWriter (plain text for terminals),
// JSONWriter (for tooling) and MarkdownWriter (for CI job summaries and pull
// request comments). Each writer can render a single run, the run history
// and the diff between two runs.
package report
