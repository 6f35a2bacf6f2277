// Package main provides the CLI entry point for sheetforge.
package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetforge/internal/config"
	"github.com/ukaji3/sheetforge/internal/logging"
	"github.com/ukaji3/sheetforge/pkg/sheetforge"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg       *config.Config
	telemetry = &sheetforge.Telemetry{}
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Error:", sheetforge.Describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetforge",
		Short: "Detect tables in spreadsheets and generate workbooks from records",
		Long: `sheetforge finds independent data tables inside xlsx/xls sheets and
writes large record sets into formatted multi-sheet xlsx workbooks.`,
		Version:           sheetforge.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			snap := telemetry.Snapshot()
			slog.Debug("telemetry", slog.Any("counters", snap))
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./sheetforge.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(newDetectCmd(), newGenerateCmd(), newValidateCmd())
	return rootCmd
}

// setup loads configuration, applies logging flag overrides and installs
// the default logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if logFormat != "" {
		loaded.Logging.Format = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	return nil
}
