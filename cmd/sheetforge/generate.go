package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetforge/pkg/sheetforge"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/output"
)

var (
	genOutput       string
	genErrorPolicy  string
	genChunkSize    int
	genMaxMemory    int
	genTitle        string
	genCompress     bool
	genNoValidate   bool
	genProgress     bool
	genResultFormat string
	genPretty       bool
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [records.json|records.jsonl|records.yaml]",
		Short: "Generate a workbook from a record file",
		Long: `generate reads records (a JSON array, JSON lines, or a YAML list of
mappings; "-" reads JSON from stdin) and writes them to an xlsx workbook with
Data, Summary, Metadata and Field Mapping sheets.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "Workbook path (required)")
	cmd.Flags().StringVar(&genErrorPolicy, "error-policy", "", "Per-record error policy: continue, stop, log_only")
	cmd.Flags().IntVar(&genChunkSize, "chunk-size", 0, "Records per chunk")
	cmd.Flags().IntVar(&genMaxMemory, "max-memory", 0, "Memory ceiling in MB")
	cmd.Flags().StringVar(&genTitle, "title", "", "Title written above the data sheet")
	cmd.Flags().BoolVar(&genCompress, "compress", false, "Repack the workbook at maximum compression")
	cmd.Flags().BoolVar(&genNoValidate, "no-validate", false, "Skip validation of the written workbook")
	cmd.Flags().BoolVar(&genProgress, "progress", false, "Print progress to stderr")
	cmd.Flags().StringVar(&genResultFormat, "result", "", "Print the run result to stdout: json, yaml")
	cmd.Flags().BoolVar(&genPretty, "pretty", false, "Pretty-print the JSON result")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// generationConfig merges explicitly set flags over the loaded config.
func generationConfig(cmd *cobra.Command) (models.GenerationConfig, error) {
	gen, err := cfg.GenerationConfig()
	if err != nil {
		return gen, err
	}
	flags := cmd.Flags()
	if flags.Changed("error-policy") {
		policy, err := models.ParseErrorPolicy(genErrorPolicy)
		if err != nil {
			return gen, err
		}
		gen.ErrorPolicy = policy
	}
	if flags.Changed("chunk-size") {
		gen.MaxChunkSize = genChunkSize
	}
	if flags.Changed("max-memory") {
		gen.MaxMemoryMB = genMaxMemory
	}
	if flags.Changed("title") {
		gen.Title = genTitle
	}
	if flags.Changed("compress") {
		gen.Compression = genCompress
	}
	if genNoValidate {
		gen.ValidationEnabled = false
	}
	return gen.Normalize(), nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	var resultFormat output.Format
	if genResultFormat != "" {
		f, err := output.ParseFormat(genResultFormat)
		if err != nil {
			return err
		}
		resultFormat = f
	}

	gen, err := generationConfig(cmd)
	if err != nil {
		return err
	}
	records, err := readRecords(args[0], os.Stdin)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []sheetforge.GenerateOption{sheetforge.WithTelemetry(telemetry)}
	if genProgress {
		opts = append(opts, sheetforge.WithProgress(func(percent int, message string) {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.CyanString("[%3d%%]", percent), message)
		}))
	}

	res, genErr := sheetforge.Generate(ctx, records, genOutput, gen, opts...)
	if resultFormat != "" && res != nil {
		if err := output.Write(os.Stdout, res, resultFormat, genPretty); err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
	}
	printGeneration(res)
	return genErr
}

func printGeneration(res *models.GenerationResult) {
	if res == nil {
		return
	}
	if res.Success {
		color.New(color.FgGreen, color.Bold).Fprintf(os.Stderr, "Wrote %d of %d records to %s (%d bytes) in %s\n",
			res.ProcessedRows, res.TotalRows, res.FilePath, res.FileSize, res.Duration.Round(1e6))
	} else {
		color.New(color.FgRed).Fprintf(os.Stderr, "Generation %s after %d of %d records\n",
			res.Status, res.ProcessedRows, res.TotalRows)
	}
	if res.DroppedRows > 0 || res.ErrorRows > 0 {
		color.Yellow("  dropped %d, error rows %d", res.DroppedRows, res.ErrorRows)
	}
	if res.MissingFieldCount > 0 {
		color.Yellow("  %d missing values filled with defaults", res.MissingFieldCount)
	}
	if res.Validation != nil {
		fmt.Fprintf(os.Stderr, "  validation score %d, quality score %.2f\n",
			res.Validation.ValidationScore, res.DataQualityScore)
	}
}
