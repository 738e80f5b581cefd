package main

import (
	"fmt"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs history lists by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded benchmark runs",
		Long: `History lists the runs recorded by generate, newest first, with their
identical, mismatched and failed image counts.

Examples:
  # Show the last 20 runs
  spngbench history

  # Show the last 5 runs as JSON
  spngbench history --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to list")
	addReportFlags(cmd)
	addDBFlag(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg)

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("invalid limit %d: must be positive", limit)
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	_, err = newReportWriter(cmd.OutOrStdout(), cfg).WriteHistory(records)
	return err
}

// openHistory opens an existing history database.
func openHistory(cfg *config.Config) (*database.RunDB, error) {
	db, err := database.Open(cfg.DBDir, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
