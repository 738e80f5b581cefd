// Package manifest reads and writes the test_results.json results manifest.
//
// A Fetcher retrieves the manifest from a file path or an http(s) URL and
// decodes it into a model.ResultsDocument. Failures are reported as typed
// errors so callers can tell them apart:
//   - RetrievalError: the resource could not be read (transport failure,
//     non-success status, missing file, oversized body)
//   - DecodeError: the body is not JSON
//   - ShapeError: the JSON lacks a processed_images array of strings
//
// Each type also matches a sentinel (ErrRetrieval, ErrDecode, ErrShape) with
// errors.Is. Nothing is retried.
package manifest
