package bench

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/dsoprea/go-exif/v3"
	"golang.org/x/crypto/sha3"

	"github.com/nao1215/spngbench/internal/model"
)

// Verifier compares the files of an image pair.
type Verifier struct {
	codec  Codec
	layout Layout
}

// NewVerifier creates a Verifier.
func NewVerifier(codec Codec, layout Layout) *Verifier {
	return &Verifier{codec: codec, layout: layout}
}

// Verify decodes both files of name's pair and compares them.
// Errors are recorded on the returned Comparison rather than returned.
func (v *Verifier) Verify(ctx context.Context, name string) model.Comparison {
	return CompareFiles(ctx, v.codec, name, v.layout.Original(name), v.layout.Encoded(name))
}

// CompareFiles decodes the original and re-encoded files and compares them,
// recording the result under name.
// Errors are recorded on the returned Comparison rather than returned.
func CompareFiles(ctx context.Context, codec Codec, name, original, encoded string) model.Comparison {
	c := model.Comparison{Name: name}

	if err := ctx.Err(); err != nil {
		c.Error = err.Error()
		return c
	}

	origData, err := os.ReadFile(original) //nolint:gosec // Caller-provided image path is intentional
	if err != nil {
		c.Error = fmt.Sprintf("failed to read original: %v", err)
		return c
	}
	encData, err := os.ReadFile(encoded) //nolint:gosec // Caller-provided image path is intentional
	if err != nil {
		c.Error = fmt.Sprintf("failed to read re-encoded image: %v", err)
		return c
	}

	c.OriginalDigest = Digest(origData)
	c.EncodedDigest = Digest(encData)
	c.OriginalExif = HasExif(origData)
	c.EncodedExif = HasExif(encData)

	orig, err := codec.Decode(bytes.NewReader(origData))
	if err != nil {
		c.Error = fmt.Sprintf("failed to decode original: %v", err)
		return c
	}
	enc, err := codec.Decode(bytes.NewReader(encData))
	if err != nil {
		c.Error = fmt.Sprintf("failed to decode re-encoded image: %v", err)
		return c
	}

	bounds := orig.Bounds()
	c.Width = bounds.Dx()
	c.Height = bounds.Dy()
	c.DimensionsMatch = bounds.Size() == enc.Bounds().Size()
	c.MismatchedPixels = ComparePixels(orig, enc)

	return c
}

// ComparePixels counts pixels that differ in non-premultiplied RGBA64.
// Images of different sizes count every pixel of a as different.
func ComparePixels(a, b image.Image) int64 {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Size() != bb.Size() {
		return int64(ab.Dx()) * int64(ab.Dy())
	}

	var diff int64
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.NRGBA64Model.Convert(a.At(ab.Min.X+x, ab.Min.Y+y))
			cb := color.NRGBA64Model.Convert(b.At(bb.Min.X+x, bb.Min.Y+y))
			if !sameColor(ca, cb) {
				diff++
			}
		}
	}
	return diff
}

// sameColor compares two NRGBA64 colors. Fully transparent pixels are equal
// regardless of their color channels.
func sameColor(a, b color.Color) bool {
	na, _ := a.(color.NRGBA64)
	nb, _ := b.(color.NRGBA64)
	if na.A == 0 && nb.A == 0 {
		return true
	}
	return na == nb
}

// Digest returns the hex SHA3-256 digest of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HasExif reports whether data carries a parseable EXIF block.
func HasExif(data []byte) bool {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return false
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	return err == nil && len(entries) > 0
}
