// Package pipeline runs a benchmark as an ordered list of steps.
//
// A Step receives the Run being built and fills in its part: collecting
// suite names, transcoding and verifying images, writing the manifest and
// saving the run to history. Per-image work is fanned out with a
// BatchProcessor, which bounds concurrency with errgroup and keeps results
// aligned with the input order.
package pipeline
