package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/output"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/validate"
)

var (
	validateRows   int
	validateFormat string
	validatePretty bool
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [workbook.xlsx]",
		Short: "Check the structure of a generated workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	cmd.Flags().IntVar(&validateRows, "rows", 0, "Expected number of data rows")
	cmd.Flags().StringVar(&validateFormat, "format", "json", "Report format: json, yaml")
	cmd.Flags().BoolVar(&validatePretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(validateFormat)
	if err != nil {
		return err
	}

	report := validate.New(nil).Validate(args[0], validateRows)
	if err := output.Write(os.Stdout, report, format, validatePretty); err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	printReport(report)
	if !report.Valid {
		return fmt.Errorf("%s is not a valid workbook (%d errors)", args[0], len(report.Errors))
	}
	return nil
}

func printReport(report models.ValidationReport) {
	if report.Valid {
		color.New(color.FgGreen, color.Bold).Fprintf(os.Stderr, "Valid (score %d)\n", report.ValidationScore)
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Invalid (score %d)\n", report.ValidationScore)
	}
	for _, e := range report.Errors {
		color.Red("  error: %s", e)
	}
	for _, w := range report.Warnings {
		color.Yellow("  warning: %s", w)
	}
}
