package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
	"github.com/xuri/excelize/v2"
)

// Builder renders datasets into workbooks.
type Builder struct {
	cfg    models.GenerationConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder returns a builder for the normalized form of cfg.
func NewBuilder(cfg models.GenerationConfig, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg.Normalize(), logger: logger, now: time.Now}
}

// Build writes the four-sheet workbook for in to path and returns the final
// file size. Any failure is an OutputGeneration error and leaves path
// untouched.
func (b *Builder) Build(ctx context.Context, in Input, path string) (int64, error) {
	if in.Dataset == nil {
		return 0, errkind.Newf(errkind.OutputGeneration, "workbook", "no dataset to write")
	}
	if err := ctx.Err(); err != nil {
		return 0, errkind.New(errkind.Cancelled, "workbook", err)
	}
	if in.Run.GeneratedAt.IsZero() {
		in.Run.GeneratedAt = b.now()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := b.render(f, in); err != nil {
		return 0, errkind.New(errkind.OutputGeneration, "workbook", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, errkind.New(errkind.Cancelled, "workbook", err)
	}

	size, err := writeAtomic(f, path, b.cfg.Compression)
	if err != nil {
		return 0, errkind.New(errkind.OutputGeneration, "workbook", err)
	}
	b.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int64("bytes", size),
		slog.Int("rows", in.Dataset.Len()),
		slog.Bool("compressed", b.cfg.Compression),
	)
	return size, nil
}

func (b *Builder) render(f *excelize.File, in Input) error {
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return err
	}
	for _, name := range SheetNames[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := b.writeData(f, st, in); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetData, err)
	}
	if err := writeSummary(f, st, Summarize(in.Dataset)); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetSummary, err)
	}
	if err := b.writeMetadata(f, st, in.Run); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetMetadata, err)
	}
	if err := writeFieldMapping(f, st, in.FieldMapping); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetFieldMapping, err)
	}
	return nil
}

// writeData lays out the title block, header row and records.
func (b *Builder) writeData(f *excelize.File, st *styles, in Input) error {
	ds := in.Dataset
	sheet := SheetData
	cols := len(ds.Fields)
	if cols == 0 {
		return fmt.Errorf("dataset has no fields")
	}
	lastCol := models.ColumnName(cols)

	if err := f.SetCellValue(sheet, cell(1, titleRow), b.cfg.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, titleRow), cell(1, titleRow), st.title); err != nil {
		return err
	}
	generated := "Generated: " + in.Run.GeneratedAt.Format(models.TimestampLayout)
	if err := f.SetCellValue(sheet, cell(1, timestampRow), generated); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, timestampRow), cell(1, timestampRow), st.subtitle); err != nil {
		return err
	}

	header := make([]interface{}, cols)
	widths := make([]int, cols)
	for i, name := range ds.Fields {
		header[i] = name
		widths[i] = utf8.RuneCountInString(name)
	}
	if err := f.SetSheetRow(sheet, cell(1, HeaderOffset), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, HeaderOffset), cell(cols, HeaderOffset), st.header); err != nil {
		return err
	}

	for i, row := range ds.Rows {
		r := HeaderOffset + 1 + i
		values := make([]interface{}, cols)
		for j, v := range row {
			values[j] = v.Interface()
			if n := utf8.RuneCountInString(v.String()); n > widths[j] {
				widths[j] = n
			}
		}
		if err := f.SetSheetRow(sheet, cell(1, r), &values); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}

		shaded := b.cfg.AlternateRowShading && i%2 == 1
		if shaded {
			if err := f.SetCellStyle(sheet, cell(1, r), cell(cols, r), st.shaded); err != nil {
				return err
			}
		}
		for j, v := range row {
			if v.Kind != models.KindTimestamp {
				continue
			}
			style := st.date
			if shaded {
				style = st.shadedDate
			}
			if err := f.SetCellStyle(sheet, cell(j+1, r), cell(j+1, r), style); err != nil {
				return err
			}
		}
	}

	for j, w := range widths {
		name := models.ColumnName(j + 1)
		if err := f.SetColWidth(sheet, name, name, float64(clampWidth(w+2))); err != nil {
			return err
		}
	}

	if b.cfg.FreezeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      HeaderOffset,
			TopLeftCell: cell(1, HeaderOffset+1),
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}
	if b.cfg.AutoFilter {
		ref := fmt.Sprintf("A%d:%s%d", HeaderOffset, lastCol, HeaderOffset+max(ds.Len(), 1))
		if err := f.AutoFilter(sheet, ref, nil); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, st *styles, s Summary) error {
	dateRange := "N/A"
	if s.HasDateRange() {
		dateRange = s.DateFrom.Format(models.TimestampLayout) + " to " + s.DateTo.Format(models.TimestampLayout)
	}
	common := "N/A"
	if s.CommonField != "" {
		common = fmt.Sprintf("%s: %s (%d)", s.CommonField, s.CommonValue, s.CommonCount)
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Records", s.TotalRecords},
		{"Total Fields", s.TotalFields},
		{"Date Range", dateRange},
		{"Numeric Fields", s.NumericFields},
		{"Text Fields", s.TextFields},
		{"Date Fields", s.DateFields},
		{"Empty Fields", s.EmptyFields},
		{"Most Common Value", common},
		{"Completeness (%)", round2(s.Completeness)},
	}
	return writeKeyValues(f, st, SheetSummary, rows)
}

func (b *Builder) writeMetadata(f *excelize.File, st *styles, run RunInfo) error {
	version := run.Version
	if version == "" {
		version = "dev"
	}
	rows := [][]interface{}{
		{"Setting", "Value"},
		{"Generated At", run.GeneratedAt.Format(models.TimestampLayout)},
		{"Total Records", run.TotalRecords},
		{"Chunk Size", b.cfg.MaxChunkSize},
		{"Memory Limit (MB)", b.cfg.MaxMemoryMB},
		{"Compression", b.cfg.Compression},
		{"Error Policy", b.cfg.ErrorPolicy.String()},
		{"Sanitize Field Names", b.cfg.SanitizeFieldNames},
		{"Max Field Name Length", b.cfg.MaxFieldNameLength},
		{"Duration (s)", round2(run.Duration.Seconds())},
		{"Peak Memory (MB)", round2(run.PeakMemoryMB)},
		{"Tool Version", version},
	}
	return writeKeyValues(f, st, SheetMetadata, rows)
}

func writeFieldMapping(f *excelize.File, st *styles, mapping map[string]string) error {
	originals := make([]string, 0, len(mapping))
	for k := range mapping {
		originals = append(originals, k)
	}
	sort.Strings(originals)

	rows := make([][]interface{}, 0, len(mapping)+1)
	rows = append(rows, []interface{}{"Original Field", "Sanitized Field"})
	for _, o := range originals {
		rows = append(rows, []interface{}{o, mapping[o]})
	}
	return writeKeyValues(f, st, SheetFieldMapping, rows)
}

// writeKeyValues writes a two-column table whose first row is a header.
func writeKeyValues(f *excelize.File, st *styles, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, cell(1, i+1), &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", st.header); err != nil {
		return err
	}
	if len(rows) > 1 {
		if err := f.SetCellStyle(sheet, "A2", cell(1, len(rows)), st.label); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 40)
}

// cell returns the A1 name of a 1-based (col, row) position.
func cell(col, row int) string {
	return parser.CellRef(row, col)
}

func clampWidth(w int) int {
	return min(max(w, minColWidth), maxColWidth)
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
