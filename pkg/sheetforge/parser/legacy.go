package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// LoadXLSGrids reads every sheet of a legacy .xls workbook.
// xlrd opens workbooks by path, so the content is spooled to a temporary
// file that is removed before returning.
func LoadXLSGrids(content []byte, sheets []string) ([]SheetGrid, error) {
	tmp, err := os.CreateTemp("", "sheetforge-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	book, err := xlrd.OpenWorkbookXLS(tmp.Name(), &xlrd.OpenWorkbookOptions{
		Logfile: io.Discard,
	})
	if err != nil {
		return nil, err
	}
	defer book.ReleaseResources()

	var out []SheetGrid
	for sheetx := 0; sheetx < book.NSheets; sheetx++ {
		sheet, err := book.SheetByIndex(sheetx)
		if err != nil {
			return nil, fmt.Errorf("sheet %d: %w", sheetx, err)
		}
		if !wantSheet(sheet.Name, sheets) {
			continue
		}
		out = append(out, SheetGrid{Name: sheet.Name, Grid: xlsSheetGrid(sheet, book.Datemode)})
	}
	return out, nil
}

// xlsSheetGrid converts one xlrd sheet into a GridIndex.
func xlsSheetGrid(sheet *xlrd.Sheet, datemode int) *GridIndex {
	grid := NewGridIndex()
	for rowx := 0; rowx < sheet.NRows; rowx++ {
		for colx := 0; colx < sheet.NCols; colx++ {
			grid.Set(rowx, colx, xlsCellValue(sheet.CellType(rowx, colx), sheet.CellValue(rowx, colx), datemode))
		}
	}
	return grid
}

// xlsCellValue maps an xlrd cell to a typed value.
func xlsCellValue(ctype int, value interface{}, datemode int) models.Value {
	switch ctype {
	case xlrd.XL_CELL_TEXT:
		if s, ok := value.(string); ok {
			return models.Text(s)
		}
		return models.Text(fmt.Sprint(value))
	case xlrd.XL_CELL_NUMBER:
		if f, ok := toFloat(value); ok {
			return models.Number(f)
		}
	case xlrd.XL_CELL_DATE:
		if f, ok := toFloat(value); ok {
			if t, err := xlrd.XldateAsDatetime(f, datemode); err == nil {
				return models.Timestamp(t)
			}
			return models.Number(f)
		}
	case xlrd.XL_CELL_BOOLEAN:
		switch b := value.(type) {
		case bool:
			return models.Bool(b)
		default:
			if f, ok := toFloat(value); ok {
				return models.Bool(f != 0)
			}
		}
	case xlrd.XL_CELL_ERROR:
		return models.Text(fmt.Sprint(value))
	}
	return models.Null()
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}
