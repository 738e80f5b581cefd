package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/spngbench/internal/config"
	"github.com/nao1215/spngbench/internal/log"
	"github.com/nao1215/spngbench/internal/report"
	"github.com/spf13/cobra"
)

// buildConfig creates a Config from defaults, the configuration file and
// the flags set on cmd, in that order. Flags the user did not set leave the
// file value in place.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var configPath string
	if f := cmd.Flags().Lookup("config"); f != nil {
		configPath = f.Value.String()
	}

	// An explicit path must exist; otherwise a missing file is fine.
	if path := config.FindConfigFile(configPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
		cfg.ConfigFilePath = path
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user changed into cfg.
// Flags not defined on cmd are never changed, so each command only
// overrides the settings it exposes.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	stringFlags := map[string]*string{
		"results":  &cfg.ResultsLocation,
		"base-dir": &cfg.BaseDir,
		"images":   &cfg.ImageBase,
		"selector": &cfg.ContainerSelector,
		"page":     &cfg.PageFile,
		"output":   &cfg.OutputFile,
		"suite":    &cfg.SuiteDir,
		"out":      &cfg.OutputDir,
		"dir":      &cfg.OutputDir,
		"proxy":    &cfg.ProxyAddress,
		"addr":     &cfg.Addr,
		"db-dir":   &cfg.DBDir,
	}
	for name, dst := range stringFlags {
		if err := stringFlag(cmd, name, dst); err != nil {
			return err
		}
	}

	boolFlags := map[string]*bool{
		"verbose":  &cfg.Verbose,
		"json":     &cfg.JSONReport,
		"markdown": &cfg.MarkdownReport,
	}
	for name, dst := range boolFlags {
		if err := boolFlag(cmd, name, dst); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("timeout") {
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = timeout
	}

	if cmd.Flags().Changed("concurrency") {
		n, err := cmd.Flags().GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = n
	}

	if cmd.Flags().Changed("header") {
		headers, err := cmd.Flags().GetStringToString("header")
		if err != nil {
			return err
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}

	return nil
}

func stringFlag(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func boolFlag(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// setupLogger creates the process logger and makes it the slog default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// newReportWriter returns the run summary writer selected by cfg.
func newReportWriter(w io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}

// addReportFlags registers the mutually exclusive output format flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
}

// addDBFlag registers the history database directory flag.
func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the run history database")
}
