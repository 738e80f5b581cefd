package manifest

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed manifest errors.
var (
	// ErrRetrieval matches every RetrievalError.
	ErrRetrieval = errors.New("manifest retrieval failed")

	// ErrDecode matches every DecodeError.
	ErrDecode = errors.New("manifest is not valid JSON")

	// ErrShape matches every ShapeError.
	ErrShape = errors.New("manifest has unexpected shape")
)

// RetrievalError reports that the manifest could not be read.
type RetrievalError struct {
	// Location is the path or URL that was requested.
	Location string

	// StatusCode is the HTTP status for non-success responses; zero otherwise.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *RetrievalError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: unexpected status %d", ErrRetrieval, e.Location, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrRetrieval, e.Location, e.Err)
	default:
		return fmt.Sprintf("%s: %s", ErrRetrieval, e.Location)
	}
}

// Unwrap exposes ErrRetrieval and the underlying cause.
func (e *RetrievalError) Unwrap() []error {
	return nonNil(ErrRetrieval, e.Err)
}

// DecodeError reports that the manifest body is not JSON.
type DecodeError struct {
	// Location is the path or URL the body came from.
	Location string

	// Err is the JSON syntax error.
	Err error
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Location, e.Err)
}

// Unwrap exposes ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return nonNil(ErrDecode, e.Err)
}

// ShapeError reports that the decoded manifest does not have the expected
// processed_images field.
type ShapeError struct {
	// Location is the path or URL the body came from.
	Location string

	// Field is the offending field; empty when the document itself is wrong.
	Field string

	// Reason describes what is wrong.
	Reason string

	// Err is the underlying type error, if any.
	Err error
}

// Error implements error.
func (e *ShapeError) Error() string {
	target := "document"
	if e.Field != "" {
		target = "field " + e.Field
	}
	return fmt.Sprintf("%s: %s: %s %s", ErrShape, e.Location, target, e.Reason)
}

// Unwrap exposes ErrShape and the underlying cause.
func (e *ShapeError) Unwrap() []error {
	return nonNil(ErrShape, e.Err)
}

// nonNil returns the non-nil errors of errs.
func nonNil(errs ...error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
