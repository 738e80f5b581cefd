package bench

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/spngbench/internal/config"
)

// Layout names the files of one image pair.
type Layout struct {
	// SuiteDir holds the source images.
	SuiteDir string

	// ImagesDir receives the image pairs.
	ImagesDir string

	// OriginalSuffix and EncodedSuffix follow the test name in output files.
	OriginalSuffix string
	EncodedSuffix  string
}

// NewLayout returns a Layout with the default suffixes.
func NewLayout(suiteDir, imagesDir string) Layout {
	return Layout{
		SuiteDir:       suiteDir,
		ImagesDir:      imagesDir,
		OriginalSuffix: config.DefaultOriginalSuffix,
		EncodedSuffix:  config.DefaultEncodedSuffix,
	}
}

// Source returns the suite file for name.
func (l Layout) Source(name string) string {
	return SuitePath(l.SuiteDir, name)
}

// Original returns the output path of name's copied original.
func (l Layout) Original(name string) string {
	return filepath.Join(l.ImagesDir, name+l.OriginalSuffix)
}

// Encoded returns the output path of name's re-encoded image.
func (l Layout) Encoded(name string) string {
	return filepath.Join(l.ImagesDir, name+l.EncodedSuffix)
}

// Transcoder writes image pairs.
type Transcoder struct {
	codec  Codec
	layout Layout
}

// NewTranscoder creates a Transcoder.
func NewTranscoder(codec Codec, layout Layout) *Transcoder {
	return &Transcoder{codec: codec, layout: layout}
}

// Transcode copies name's original and writes the codec's re-encoding of it.
// A decode failure leaves the copied original in place and returns an error.
func (t *Transcoder) Transcode(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(t.layout.ImagesDir, 0750); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}

	src := t.layout.Source(name)
	if err := copyFile(src, t.layout.Original(name)); err != nil {
		return err
	}
	return TranscodeFile(ctx, t.codec, src, t.layout.Encoded(name))
}

// TranscodeFile decodes src with codec and writes the re-encoded image to dst.
// dst is not created when src cannot be decoded.
func TranscodeFile(ctx context.Context, codec Codec, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // Caller-provided image path is intentional
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	img, err := codec.Decode(in)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", src, err)
	}

	out, err := os.Create(dst) //nolint:gosec // Caller-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if err := codec.Encode(out, img); err != nil {
		_ = out.Close() //nolint:errcheck // already failing
		return fmt.Errorf("failed to encode %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Suite path comes from the suite directory listing
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close() //nolint:errcheck // already failing
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
