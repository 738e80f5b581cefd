package bench

import (
	"image"
	"image/png"
	"io"
)

// Codec decodes and re-encodes images.
type Codec interface {
	// Name identifies the codec in run history.
	Name() string

	// Decode reads one image.
	Decode(r io.Reader) (image.Image, error)

	// Encode writes img.
	Encode(w io.Writer, img image.Image) error
}

// PNGCodec is the standard library PNG codec.
type PNGCodec struct {
	// Level is the compression level used by Encode.
	Level png.CompressionLevel
}

// NewPNGCodec returns a PNGCodec using best compression.
func NewPNGCodec() *PNGCodec {
	return &PNGCodec{Level: png.BestCompression}
}

// Name implements Codec.
func (c *PNGCodec) Name() string {
	return "image/png"
}

// Decode implements Codec.
func (c *PNGCodec) Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}

// Encode implements Codec.
func (c *PNGCodec) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: c.Level}
	return enc.Encode(w, img)
}
