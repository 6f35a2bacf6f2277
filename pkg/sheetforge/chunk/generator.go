// Package chunk processes aligned records in bounded chunks, applying the
// configured error policy and memory ceiling.
package chunk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
)

// State is a stage of a generator run.
type State int

const (
	// StateIdle is a generator that has not run yet.
	StateIdle State = iota
	// StateValidatingInput checks the dataset before any chunking.
	StateValidatingInput
	// StateChunking splits records into chunks of at most MaxChunkSize.
	StateChunking
	// StateProcessingChunk cleans and accepts the records of one chunk.
	StateProcessingChunk
	// StateDone is a run that processed every chunk.
	StateDone
	// StateFailed is a run stopped by a record error or the memory ceiling.
	StateFailed
	// StateCancelled is a run whose context was cancelled.
	StateCancelled
)

// String returns the snake_case name of the state.
func (s State) String() string {
	switch s {
	case StateValidatingInput:
		return "validating_input"
	case StateChunking:
		return "chunking"
	case StateProcessingChunk:
		return "processing_chunk"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Progress span covered by chunk processing, in percent of the whole job.
const (
	ProgressStart = 20
	ProgressEnd   = 50
)

// ProgressFunc receives a job percentage and a status line.
type ProgressFunc func(percent int, message string)

// RecordFunc transforms one cleaned row before it is accepted. Returning an
// error marks the record as failed.
type RecordFunc func(index int, fields []string, row []models.Value) ([]models.Value, error)

// Option configures a Generator.
type Option func(*Generator)

// WithMemorySampler replaces the runtime memory sampler.
func WithMemorySampler(s MemorySampler) Option {
	return func(g *Generator) {
		if s != nil {
			g.sampler = s
		}
	}
}

// WithProgress sets the progress sink.
func WithProgress(fn ProgressFunc) Option {
	return func(g *Generator) { g.progress = fn }
}

// WithRecordFunc installs a per-record transform.
func WithRecordFunc(fn RecordFunc) Option {
	return func(g *Generator) { g.recordFn = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Outcome is what a run produced, complete or partial.
type Outcome struct {
	// Dataset holds accepted rows and error markers in input order.
	Dataset *models.Dataset
	// Total is the number of input records.
	Total int
	// Processed counts accepted records, markers excluded.
	Processed int
	// Dropped counts records discarded under PolicyContinue.
	Dropped int
	// Markers counts error marker rows written under PolicyLogOnly.
	Markers int
	Errors   []string
	Warnings []string
	// PeakMemoryMB is the highest memory sample taken.
	PeakMemoryMB float64
	// Chunks is the number of chunks fully processed.
	Chunks int
}

// Rows returns the number of rows that will be written.
func (o *Outcome) Rows() int { return o.Processed + o.Markers }

// Generator runs one chunked processing job. It is not safe for concurrent
// use; create one per job.
type Generator struct {
	cfg      models.GenerationConfig
	sampler  MemorySampler
	progress ProgressFunc
	recordFn RecordFunc
	logger   *slog.Logger
	state    State
}

// New returns a generator for the normalized form of cfg.
func New(cfg models.GenerationConfig, opts ...Option) *Generator {
	g := &Generator{
		cfg:     cfg.Normalize(),
		sampler: RuntimeSampler{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current run state.
func (g *Generator) State() State { return g.state }

// Run processes ds chunk by chunk. On a fatal error the partial outcome is
// returned together with a classified error.
func (g *Generator) Run(ctx context.Context, ds *models.Dataset) (*Outcome, error) {
	out := &Outcome{Total: ds.Len()}

	g.state = StateValidatingInput
	if err := ValidateDataset(ds); err != nil {
		g.state = StateFailed
		return out, err
	}

	g.state = StateChunking
	spans := SplitChunks(ds.Len(), g.cfg.MaxChunkSize)
	out.Dataset = &models.Dataset{
		Fields: append([]string(nil), ds.Fields...),
		Rows:   make([][]models.Value, 0, ds.Len()),
	}
	g.logger.Debug("chunking records",
		slog.Int("records", ds.Len()),
		slog.Int("chunks", len(spans)),
		slog.Int("chunk_size", g.cfg.MaxChunkSize),
	)

	seen := 0
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			g.state = StateCancelled
			return out, errkind.New(errkind.Cancelled, "chunk", err)
		}
		if err := g.checkMemory(out); err != nil {
			g.state = StateFailed
			return out, err
		}

		g.state = StateProcessingChunk
		g.report(ProgressStart+(ProgressEnd-ProgressStart)*i/len(spans),
			fmt.Sprintf("Processing chunk %d of %d", i+1, len(spans)))

		for idx := span.Start; idx < span.End; idx++ {
			if err := g.processRecord(idx, ds, out); err != nil {
				g.state = StateFailed
				return out, err
			}
			seen++
			if seen%memoryCheckInterval == 0 {
				if err := g.checkMemory(out); err != nil {
					g.state = StateFailed
					return out, err
				}
			}
		}
		out.Chunks++

		g.logger.Debug("chunk processed",
			slog.Int("chunk", i+1),
			slog.Int("of", len(spans)),
			slog.Int("processed", out.Processed),
			slog.Int("dropped", out.Dropped),
			slog.Int("markers", out.Markers),
		)
	}

	if err := g.checkMemory(out); err != nil {
		g.state = StateFailed
		return out, err
	}
	if got := out.Processed + out.Dropped + out.Markers; got != out.Total {
		g.state = StateFailed
		return out, errkind.Newf(errkind.DataProcessing, "chunk",
			"record accounting mismatch: %d processed, %d dropped, %d markers for %d records",
			out.Processed, out.Dropped, out.Markers, out.Total)
	}

	g.report(ProgressEnd, fmt.Sprintf("Processed %d records", out.Total))
	g.state = StateDone
	return out, nil
}

// processRecord cleans one row and applies the error policy on failure.
// It returns an error only when the run must stop.
func (g *Generator) processRecord(idx int, ds *models.Dataset, out *Outcome) error {
	row, err := g.cleanRow(idx, ds)
	if err == nil {
		out.Dataset.Rows = append(out.Dataset.Rows, row)
		out.Processed++
		return nil
	}

	msg := fmt.Sprintf("record %d: %v", idx+1, err)
	switch g.cfg.ErrorPolicy {
	case models.PolicyStop:
		// The returned error is the run's single failure entry.
		return errkind.New(errkind.DataProcessing, "chunk", fmt.Errorf("record %d: %w", idx+1, err))
	case models.PolicyLogOnly:
		out.Errors = append(out.Errors, msg)
		out.Dataset.Rows = append(out.Dataset.Rows, markerRow(len(ds.Fields), msg))
		out.Markers++
	default:
		out.Warnings = append(out.Warnings, "dropped "+msg)
		out.Dropped++
		g.logger.Warn("record dropped", slog.Int("record", idx+1), slog.Any("error", err))
	}
	return nil
}

func (g *Generator) cleanRow(idx int, ds *models.Dataset) ([]models.Value, error) {
	src := ds.Rows[idx]
	if len(src) != len(ds.Fields) {
		return nil, fmt.Errorf("has %d values for %d fields", len(src), len(ds.Fields))
	}
	row := make([]models.Value, len(src))
	for j, v := range src {
		clean, err := CleanValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", ds.Fields[j], err)
		}
		row[j] = clean
	}
	if g.recordFn != nil {
		out, err := g.recordFn(idx, ds.Fields, row)
		if err != nil {
			return nil, err
		}
		if len(out) != len(ds.Fields) {
			return nil, fmt.Errorf("transform returned %d values for %d fields", len(out), len(ds.Fields))
		}
		row = out
	}
	return row, nil
}

// markerRow returns a row carrying msg in its first column.
func markerRow(width int, msg string) []models.Value {
	row := make([]models.Value, width)
	for i := range row {
		row[i] = models.Text("")
	}
	row[0] = models.Text(MarkerPrefix + msg)
	return row
}

// MarkerPrefix starts the first cell of every error marker row.
const MarkerPrefix = "#ERROR: "

func (g *Generator) checkMemory(out *Outcome) error {
	mb := g.sampler.SampleMB()
	if mb > out.PeakMemoryMB {
		out.PeakMemoryMB = mb
	}
	if mb > float64(g.cfg.MaxMemoryMB) {
		return errkind.Newf(errkind.MemoryLimitExceeded, "chunk",
			"memory usage %.1f MB exceeds limit of %d MB", mb, g.cfg.MaxMemoryMB)
	}
	return nil
}

func (g *Generator) report(percent int, message string) {
	if g.progress != nil {
		g.progress(percent, message)
	}
}
