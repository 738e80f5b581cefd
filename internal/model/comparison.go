package model

// Status classifies the outcome of a single image comparison.
type Status string

const (
	// StatusIdentical means the re-encoded image decodes to the same pixels.
	StatusIdentical Status = "identical"

	// StatusMismatched means both images decoded but their pixels differ.
	StatusMismatched Status = "mismatched"

	// StatusFailed means the image could not be transcoded or verified.
	StatusFailed Status = "failed"
)

// String returns the status as a lowercase word.
func (s Status) String() string {
	return string(s)
}

// Comparison is the result of transcoding one suite image and comparing
// the re-encoded output with the original.
type Comparison struct {
	// Name is the test name (the suite file stem, e.g. "basn0g01").
	Name string `json:"name"`

	// Width and Height are the dimensions of the original image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// DimensionsMatch is false when the re-encoded image has a different size.
	DimensionsMatch bool `json:"dimensions_match"`

	// MismatchedPixels counts pixels whose non-premultiplied RGBA differs.
	// When dimensions differ this is the pixel count of the original.
	MismatchedPixels int64 `json:"mismatched_pixels"`

	// OriginalDigest and EncodedDigest are hex SHA3-256 digests of the files.
	OriginalDigest string `json:"original_digest,omitempty"`
	EncodedDigest  string `json:"encoded_digest,omitempty"`

	// OriginalExif and EncodedExif report whether each file carries EXIF data.
	OriginalExif bool `json:"original_exif"`
	EncodedExif  bool `json:"encoded_exif"`

	// Error holds the failure message when the image could not be processed.
	Error string `json:"error,omitempty"`
}

// Status derives the comparison outcome.
func (c Comparison) Status() Status {
	switch {
	case c.Error != "":
		return StatusFailed
	case !c.DimensionsMatch || c.MismatchedPixels > 0:
		return StatusMismatched
	default:
		return StatusIdentical
	}
}

// ExifDropped reports whether EXIF data present in the original was lost.
func (c Comparison) ExifDropped() bool {
	return c.OriginalExif && !c.EncodedExif
}

// ByteIdentical reports whether both files have the same content digest.
func (c Comparison) ByteIdentical() bool {
	return c.OriginalDigest != "" && c.OriginalDigest == c.EncodedDigest
}
