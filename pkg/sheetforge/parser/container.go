package parser

import (
	"fmt"
	"strings"

	"github.com/yamitzky/xlrd-go/xlrd"
)

// Format is a supported spreadsheet container format.
type Format string

const (
	// FormatXLSX is the zip+XML container (xlsx, xlsm).
	FormatXLSX Format = "xlsx"
	// FormatXLS is the legacy BIFF/OLE2 container.
	FormatXLS Format = "xls"
)

// SniffFormat determines the container format from the leading bytes.
// The extension hint is consulted only when the content carries no
// recognizable signature. Unsupported containers return an error.
func SniffFormat(content []byte, extHint string) (Format, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty input")
	}
	detected, err := xlrd.InspectFormat("", content)
	if err != nil {
		return "", fmt.Errorf("inspect container: %w", err)
	}

	switch detected {
	case "xlsx":
		return FormatXLSX, nil
	case "xls":
		return FormatXLS, nil
	case "":
		// Raw BIFF streams have no OLE2 signature; trust an explicit hint.
		if normalizeExt(extHint) == "xls" {
			return FormatXLS, nil
		}
		return "", fmt.Errorf("unrecognized file signature (hint %q)", extHint)
	default:
		return "", fmt.Errorf("%s is not supported", xlrd.FileFormatDescriptions[detected])
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
