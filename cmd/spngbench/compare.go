package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nao1215/spngbench/internal/model"
	"github.com/spf13/cobra"
)

// errRequiresTwoRuns is returned when history holds fewer than two runs.
var errRequiresTwoRuns = errors.New("at least two recorded runs are required (run generate twice)")

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [OLD_ID NEW_ID]",
		Short: "Compare two recorded benchmark runs",
		Long: `Compare shows what changed between two runs recorded by generate:
- images added to or removed from the suite
- regressions: images that were identical and no longer are
- fixes: images that were mismatched or failed and are now identical

Without arguments the two most recent runs are compared. Run IDs are
listed by the history command.

Examples:
  # Compare the latest run with the previous one
  spngbench compare

  # Compare run 3 with run 7 as Markdown
  spngbench compare 3 7 --markdown`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 run IDs, received %d", len(args))
			}
			return nil
		},
		RunE: runCompareCmd,
	}

	addReportFlags(cmd)
	addDBFlag(cmd)

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Validate arguments before opening the database.
	ids := make([]int64, 0, 2)
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid run ID %q", arg)
		}
		ids = append(ids, id)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg)

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(ids) == 0 {
		latest, err := db.LatestRunIDs(ctx, 2)
		if err != nil {
			return err
		}
		if len(latest) < 2 {
			return errRequiresTwoRuns
		}
		// Newest first.
		ids = []int64{latest[1], latest[0]}
	}

	older, err := db.GetRun(ctx, ids[0])
	if err != nil {
		return err
	}
	newer, err := db.GetRun(ctx, ids[1])
	if err != nil {
		return err
	}

	_, err = newReportWriter(cmd.OutOrStdout(), cfg).WriteDiff(model.DiffRuns(older, newer))
	return err
}
