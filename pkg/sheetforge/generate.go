package sheetforge

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/sheetforge/internal/logging"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/chunk"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/sanitize"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/validate"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/workbook"
)

// Progress milestones reported by Generate.
const (
	progressValidating = 5
	progressSanitizing = 10
	progressBuilding   = 60
	progressWritten    = 85
	progressChecking   = 90
	progressDone       = 100
)

// Generate writes records to a workbook at path. The returned result is
// always populated; on failure it carries the partial metrics together with
// the classified error, which is also returned.
func Generate(ctx context.Context, records []models.Record, path string, cfg models.GenerationConfig, opts ...GenerateOption) (*models.GenerationResult, error) {
	start := time.Now()
	cfg = cfg.Normalize()

	o := &generateOptions{}
	for _, opt := range opts {
		opt(o)
	}
	jobID := logging.JobID(ctx)
	if jobID == "" {
		jobID = uuid.NewString()
		ctx = logging.WithJob(ctx, jobID)
	}
	logger := logging.FromContext(ctx, o.logger)
	progress := func(percent int, message string) {
		if o.progress != nil {
			o.progress(percent, message)
		}
	}

	res := &models.GenerationResult{
		Status:       models.StatusFailed,
		TotalRows:    len(records),
		Errors:       []string{},
		Warnings:     []string{},
		FieldMapping: map[string]string{},
	}
	o.telemetry.jobStarted()
	logger.Info("generation started",
		slog.Int("records", len(records)),
		slog.String("path", path),
		slog.String("error_policy", cfg.ErrorPolicy.String()),
	)

	fail := func(err error) (*models.GenerationResult, error) {
		kind := errkind.KindOf(err)
		if kind == "" {
			kind = errkind.DataProcessing
			err = errkind.New(kind, "generate", err)
		}
		res.ErrorKind = string(kind)
		if kind == errkind.Cancelled {
			res.Status = models.StatusCancelled
		}
		res.Errors = append(res.Errors, err.Error())
		res.Duration = time.Since(start)
		o.telemetry.jobFinished(false, res.ProcessedRows, res.DroppedRows)
		logger.Error("generation failed",
			slog.String("kind", string(kind)),
			slog.String("code", kind.Code()),
			slog.Any("error", err),
		)
		return res, err
	}

	progress(progressValidating, "Validating input")
	if err := chunk.ValidateRecords(records); err != nil {
		return fail(err)
	}

	progress(progressSanitizing, "Sanitizing field names")
	sanitized, err := sanitize.New(cfg, logger).Sanitize(records)
	if err != nil {
		return fail(err)
	}
	res.FieldMapping = sanitized.FieldMapping
	res.MissingFieldCount = sanitized.MissingFieldCount

	gen := chunk.New(cfg,
		chunk.WithMemorySampler(o.sampler),
		chunk.WithProgress(o.progress),
		chunk.WithRecordFunc(o.recordFn),
		chunk.WithLogger(logger),
	)
	out, err := gen.Run(ctx, sanitized.Dataset)
	if out != nil {
		res.ProcessedRows = out.Rows()
		res.DroppedRows = out.Dropped
		res.ErrorRows = out.Markers
		res.MemoryPeakMB = out.PeakMemoryMB
		res.Errors = append(res.Errors, out.Errors...)
		res.Warnings = append(res.Warnings, out.Warnings...)
	}
	if err != nil {
		return fail(err)
	}

	progress(progressBuilding, "Building workbook")
	in := workbook.Input{
		Dataset:      out.Dataset,
		FieldMapping: sanitized.FieldMapping,
		Run: workbook.RunInfo{
			TotalRecords: len(records),
			Duration:     time.Since(start),
			PeakMemoryMB: out.PeakMemoryMB,
			Version:      Version,
		},
	}
	size, err := workbook.NewBuilder(cfg, logger).Build(ctx, in, path)
	if err != nil {
		return fail(err)
	}
	res.FilePath = path
	res.FileSize = size
	progress(progressWritten, "Workbook written")

	res.DataQualityScore = qualityScore(out.Processed, len(records), workbook.Summarize(out.Dataset).Completeness)

	if cfg.ValidationEnabled {
		progress(progressChecking, "Validating output")
		report := validate.New(logger).Validate(path, out.Rows())
		res.Validation = &report
		res.Warnings = append(res.Warnings, report.Warnings...)
		if !report.Valid {
			return fail(errkind.New(errkind.OutputValidation, "validate",
				errors.New(strings.Join(report.Errors, "; "))))
		}
	}

	res.Success = true
	res.Status = models.StatusCompleted
	res.Duration = time.Since(start)
	o.telemetry.jobFinished(true, res.ProcessedRows, res.DroppedRows)
	progress(progressDone, "Completed")
	logger.Info("generation completed",
		slog.Int("rows", res.ProcessedRows),
		slog.Int("dropped", res.DroppedRows),
		slog.Int("markers", res.ErrorRows),
		slog.Int("missing_fields", res.MissingFieldCount),
		slog.Int64("bytes", res.FileSize),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// qualityScore is 100 x clean share x completeness, rounded to 2 decimals.
func qualityScore(clean, total int, completenessPct float64) float64 {
	if total == 0 {
		return 0
	}
	score := 100 * (float64(clean) / float64(total)) * (completenessPct / 100)
	return math.Round(score*100) / 100
}
