// Package validate checks the structure of generated workbooks.
package validate

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/workbook"
	"github.com/xuri/excelize/v2"
)

// Validator inspects artifacts written by the workbook builder.
type Validator struct {
	logger *slog.Logger
}

// New returns a validator. A nil logger means the default logger.
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Validate checks the artifact at path against the number of rows that were
// written to it. Findings are reported, never returned as an error.
func (v *Validator) Validate(path string, processedRows int) models.ValidationReport {
	r := &report{}
	v.check(r, path, processedRows)

	out := r.finish()
	v.logger.Debug("workbook validated",
		slog.String("path", path),
		slog.Bool("valid", out.Valid),
		slog.Int("errors", len(out.Errors)),
		slog.Int("warnings", len(out.Warnings)),
		slog.Int("score", out.ValidationScore),
	)
	return out
}

func (v *Validator) check(r *report, path string, processedRows int) {
	info, err := os.Stat(path)
	if err != nil {
		r.errorf("file does not exist: %s", path)
		return
	}
	if info.Size() == 0 {
		r.errorf("file is empty")
		return
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		r.errorf("not a readable workbook: %v", err)
		return
	}
	defer f.Close()

	sheets := f.GetSheetList()
	r.sheets = len(sheets)
	present := make(map[string]bool, len(sheets))
	for _, name := range sheets {
		present[name] = true
	}
	for _, name := range workbook.SheetNames {
		if !present[name] {
			r.errorf("missing sheet %q", name)
		}
	}
	if !present[workbook.SheetData] {
		return
	}

	rows, cols, bodyCells, err := scanDataSheet(f)
	if err != nil {
		r.errorf("cannot read sheet %q: %v", workbook.SheetData, err)
		return
	}
	r.rows, r.cols = rows, cols

	if want := processedRows + workbook.HeaderOffset; rows < want {
		r.warnf("sheet %q has %d rows, expected at least %d", workbook.SheetData, rows, want)
	}
	if bodyCells == 0 {
		r.errorf("sheet %q has no data below the header", workbook.SheetData)
	}
	checkAutoFilter(r, f, rows, cols)
}

// filterDatabase is the hidden defined name holding a sheet's auto-filter range.
const filterDatabase = "_xlnm._FilterDatabase"

// checkAutoFilter warns when the data sheet's auto-filter does not start at
// the header row or stops short of the written rows and columns. A sheet
// without a filter is not a finding.
func checkAutoFilter(r *report, f *excelize.File, rows, cols int) {
	for _, dn := range f.GetDefinedName() {
		if dn.Name != filterDatabase || dn.Scope != workbook.SheetData {
			continue
		}
		rng, err := parser.ParseRange(dn.RefersTo)
		if err != nil {
			r.warnf("unreadable auto-filter range %q: %v", dn.RefersTo, err)
			return
		}
		lastRow := max(rows, workbook.HeaderOffset+1)
		if rng.R1 != workbook.HeaderOffset || rng.C1 != 1 || rng.R2 < lastRow || rng.C2 < cols {
			r.warnf("auto-filter %s does not cover the header and data (expected A%d:%s)",
				rng.Ref(), workbook.HeaderOffset, parser.CellRef(lastRow, max(cols, 1)))
		}
		return
	}
}

// scanDataSheet streams the main sheet and returns its row count, widest
// row, and the number of non-empty cells below the header row.
func scanDataSheet(f *excelize.File) (rowCount, colCount, bodyCells int, err error) {
	rows, err := f.Rows(workbook.SheetData)
	if err != nil {
		return 0, 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		rowCount++
		cols, err := rows.Columns()
		if err != nil {
			return 0, 0, 0, err
		}
		if len(cols) > colCount {
			colCount = len(cols)
		}
		if rowCount <= workbook.HeaderOffset {
			continue
		}
		for _, c := range cols {
			if strings.TrimSpace(c) != "" {
				bodyCells++
			}
		}
	}
	return rowCount, colCount, bodyCells, rows.Error()
}

// report accumulates findings.
type report struct {
	errors   []string
	warnings []string
	rows     int
	cols     int
	sheets   int
}

func (r *report) errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *report) warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *report) finish() models.ValidationReport {
	return models.ValidationReport{
		Valid:           len(r.errors) == 0,
		Errors:          append([]string{}, r.errors...),
		Warnings:        append([]string{}, r.warnings...),
		RowCount:        r.rows,
		ColumnCount:     r.cols,
		SheetCount:      r.sheets,
		ValidationScore: Score(len(r.errors), len(r.warnings)),
	}
}

// Score returns max(0, 100 - 25*errors - 5*warnings).
func Score(errors, warnings int) int {
	return max(0, 100-25*errors-5*warnings)
}
