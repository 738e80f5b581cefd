package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nao1215/spngbench/internal/bench"
	"github.com/nao1215/spngbench/internal/model"
	"github.com/spf13/cobra"
)

// defaultTranscodeOutput is the file transcode writes when -o is not given.
const defaultTranscodeOutput = "output.png"

// errTranscodeMismatch is returned when the re-encoded image decodes to
// different pixels than its input.
var errTranscodeMismatch = errors.New("re-encoded image does not match the original")

// NewTranscodeCmd creates the transcode command.
func NewTranscodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcode FILE",
		Short: "Re-encode a single PNG and compare it with the input",
		Long: `Transcode decodes one PNG file, writes the codec's re-encoding of it and
compares the two images pixel by pixel. It is the single-image counterpart
of generate and is handy when one suite file needs a closer look.

The command fails when the input cannot be decoded or the re-encoded image
differs from the input.

Examples:
  # Re-encode to ./output.png
  spngbench transcode pngsuite/basn2c08.png

  # Choose the output file and print the comparison as JSON
  spngbench transcode pngsuite/basn2c08.png -o /tmp/basn2c08-spng.png --json`,
		Args: cobra.ExactArgs(1),
		RunE: runTranscodeCmd,
	}

	cmd.Flags().StringP("output", "o", defaultTranscodeOutput,
		"Write the re-encoded image to the specified file")
	cmd.Flags().BoolP("json", "j", false, "Print the comparison as JSON")

	return cmd
}

// runTranscodeCmd executes the transcode command.
func runTranscodeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		return errors.New("output file must not be empty")
	}

	src := args[0]
	if sameFile(src, output) {
		return fmt.Errorf("output %s would overwrite the input", output)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec := bench.NewPNGCodec()
	logger.Debug("transcoding image", "input", src, "output", output, "codec", codec.Name())
	if err := bench.TranscodeFile(ctx, codec, src, output); err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	c := bench.CompareFiles(ctx, codec, name, src, output)
	if err := writeComparison(cmd.OutOrStdout(), c, output, cfg.JSONReport); err != nil {
		return err
	}

	switch c.Status() {
	case model.StatusFailed:
		return errors.New(c.Error)
	case model.StatusMismatched:
		return fmt.Errorf("%w: %d pixels differ", errTranscodeMismatch, c.MismatchedPixels)
	default:
		return nil
	}
}

// writeComparison prints the outcome of a single transcode.
func writeComparison(w io.Writer, c model.Comparison, output string, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(c)
	}

	if c.Status() == model.StatusFailed {
		_, err := fmt.Fprintf(w, "%s: %s (%s)\n", c.Name, c.Status(), c.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %s %dx%d, %d mismatched pixels -> %s\n",
		c.Name, c.Status(), c.Width, c.Height, c.MismatchedPixels, output)
	return err
}

// sameFile reports whether a and b name the same existing file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
