package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetforge/pkg/sheetforge"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/output"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
)

var (
	detectOutput string
	detectFormat string
	detectPretty bool
	detectSheets []string
	detectHeader string
	detectQuiet  bool
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [input.xlsx|input.xls]",
		Short: "Detect data tables in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runDetect,
	}
	cmd.Flags().StringVarP(&detectOutput, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&detectFormat, "format", "json", "Output format: json, yaml")
	cmd.Flags().BoolVar(&detectPretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringSliceVar(&detectSheets, "sheet", nil, "Only scan the named sheets (repeatable)")
	cmd.Flags().StringVar(&detectHeader, "header", "", "Header heuristic: numeric_free, majority")
	cmd.Flags().BoolVarP(&detectQuiet, "quiet", "q", false, "Suppress the table summary on stderr")
	return cmd
}

func runDetect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	format, err := output.ParseFormat(detectFormat)
	if err != nil {
		return err
	}

	opts := cfg.DetectOptions()
	if len(detectSheets) > 0 {
		opts.Sheets = detectSheets
	}
	switch detectHeader {
	case "":
	case "numeric_free":
		opts.Header = parser.NumericFreeHeader{}
	case "majority":
		opts.Header = parser.MajorityTextHeader{}
	default:
		return fmt.Errorf("invalid header heuristic: %s (must be numeric_free or majority)", detectHeader)
	}
	opts.Telemetry = telemetry

	res, err := sheetforge.DetectFile(inputPath, opts)
	if err != nil {
		return err
	}

	data, err := output.Encode(res, format, detectPretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if detectOutput != "" {
		if err := os.WriteFile(detectOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Println(string(data))
	}

	if !detectQuiet {
		printTables(res)
	}
	return nil
}

func printTables(res *models.DetectionResult) {
	if len(res.Tables) == 0 {
		color.New(color.FgYellow).Fprintf(os.Stderr, "No tables found in %s\n", res.BookName)
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(os.Stderr, "%d table(s) in %s (%s)\n", len(res.Tables), res.BookName, res.Format)
	for _, t := range res.Tables {
		fmt.Fprintf(os.Stderr, "  %s  %s  %d x %d\n",
			color.CyanString(t.Name), t.Ref, t.NumRows(), t.NumCols())
	}
}
