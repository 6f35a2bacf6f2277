package workbook

import "github.com/xuri/excelize/v2"

// timestampFormat renders timestamp cells.
const timestampFormat = "yyyy-mm-dd hh:mm:ss"

const (
	headerFill = "4472C4"
	shadeFill  = "F2F2F2"
)

// styles holds the style ids registered on one file.
type styles struct {
	title      int
	subtitle   int
	header     int
	shaded     int
	date       int
	shadedDate int
	label      int
}

func newStyles(f *excelize.File) (*styles, error) {
	numFmt := timestampFormat
	shade := excelize.Fill{Type: "pattern", Color: []string{shadeFill}, Pattern: 1}

	s := &styles{}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14},
		}},
		{&s.subtitle, &excelize.Style{
			Font: &excelize.Font{Italic: true, Color: "595959"},
		}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.shaded, &excelize.Style{Fill: shade}},
		{&s.date, &excelize.Style{CustomNumFmt: &numFmt}},
		{&s.shadedDate, &excelize.Style{Fill: shade, CustomNumFmt: &numFmt}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, err
		}
		*d.dst = id
	}
	return s, nil
}
