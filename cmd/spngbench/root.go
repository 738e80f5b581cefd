package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for spngbench.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spngbench",
		Short: "Visual benchmark for PNG codecs",
		Long: `spngbench re-encodes the PNG suite with a codec, verifies every image
pixel by pixel and renders the results as a side-by-side comparison page.

Each test produces an image pair, {name}-orig.png and {name}-spng.png, listed
in test_results.json. The render and serve commands turn that manifest into
one comparison block per test.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .spngbench in current or home directory)")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewTranscodeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
