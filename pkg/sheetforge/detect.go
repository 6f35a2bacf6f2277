package sheetforge

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/errkind"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
	"github.com/xuri/excelize/v2"
)

// DetectFile detects tables in the workbook at path. The file extension is
// used as a format hint.
func DetectFile(path string, opts DetectOptions) (*models.DetectionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errkind.New(errkind.InputFormat, "parser", fmt.Errorf("%w: %s", ErrFileNotFound, path))
		}
		return nil, errkind.New(errkind.InputFormat, "parser", err)
	}
	defer f.Close()

	res, err := Detect(f, filepath.Ext(path), opts)
	if err != nil {
		return nil, err
	}
	res.BookName = filepath.Base(path)
	return res, nil
}

// Detect reads a whole workbook from r and returns every table found in
// its sheets. ext is a format hint ("xlsx", ".xls", ...) consulted only
// when the content has no recognizable signature. Undecodable input fails
// with an InputFormat error and no tables.
func Detect(r io.Reader, ext string, opts DetectOptions) (*models.DetectionResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errkind.New(errkind.InputFormat, "parser", err)
	}
	format, err := parser.SniffFormat(content, ext)
	if err != nil {
		return nil, errkind.New(errkind.InputFormat, "parser", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}

	grids, err := loadGrids(content, format, opts.Sheets)
	if err != nil {
		return nil, errkind.New(errkind.InputFormat, "parser", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}

	detector := &parser.TableDetector{Params: opts.Params, Header: opts.Header}
	res := &models.DetectionResult{Format: string(format), Tables: []models.Table{}}
	for _, g := range grids {
		tables := detector.DetectTables(g.Grid, g.Name)
		logger.Debug("sheet scanned",
			slog.String("sheet", g.Name),
			slog.Int("cells", g.Grid.Len()),
			slog.Int("tables", len(tables)),
		)
		res.Tables = append(res.Tables, tables...)
	}
	opts.Telemetry.scanned(len(res.Tables))
	return res, nil
}

func loadGrids(content []byte, format parser.Format, sheets []string) ([]parser.SheetGrid, error) {
	switch format {
	case parser.FormatXLS:
		return parser.LoadXLSGrids(content, sheets)
	case parser.FormatXLSX:
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.LoadXLSXGrids(f, sheets)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
