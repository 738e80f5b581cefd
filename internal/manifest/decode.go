package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nao1215/spngbench/internal/model"
)

// processedImagesField is the only field the renderer consumes.
const processedImagesField = "processed_images"

// Decode parses a manifest body. location is only used in error messages.
//
// A body that is not JSON yields a DecodeError. Valid JSON that is not an
// object, lacks processed_images, or holds anything other than an array of
// strings there yields a ShapeError. A null element is not a string. An empty
// array is valid.
func Decode(location string, data []byte) (*model.ResultsDocument, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, &DecodeError{Location: location, Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ShapeError{Location: location, Reason: "is not a JSON object", Err: err}
	}

	raw, ok := fields[processedImagesField]
	if !ok {
		return nil, &ShapeError{Location: location, Field: processedImagesField, Reason: "is missing"}
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &ShapeError{Location: location, Field: processedImagesField, Reason: "is null"}
	}

	// Pointers tell a null element apart from an empty string.
	var elems []*string
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &ShapeError{
			Location: location,
			Field:    processedImagesField,
			Reason:   "is not an array of strings",
			Err:      err,
		}
	}

	names := make([]string, len(elems))
	for i, e := range elems {
		if e == nil {
			return nil, &ShapeError{
				Location: location,
				Field:    processedImagesField,
				Reason:   fmt.Sprintf("has null at index %d", i),
			}
		}
		names[i] = *e
	}

	doc := &model.ResultsDocument{ProcessedImages: names}

	// generated_at is informational; a malformed value is ignored.
	if rawTime, ok := fields["generated_at"]; ok {
		var generatedAt string
		if err := json.Unmarshal(rawTime, &generatedAt); err == nil {
			doc.GeneratedAt = generatedAt
		}
	}

	return doc, nil
}
