package sheets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is the on-disk encoding of an uploaded sheet.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the parser front end from a filename extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported sheet format %q", filepath.Ext(filename))
	}
}

// ParseWorkbook classifies the first worksheet of an XLSX file using the
// same rules as Parse. The error return covers unreadable files only;
// content problems are reported through ParseResult.Errors.
func ParseWorkbook(data []byte, settings Settings) (ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return ParseResult{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(names[0])
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to read sheet %q: %w", names[0], err)
	}
	return classifyRows(rows, settings), nil
}
