package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are not .xlsx, .xls or .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format: must be .xlsx, .xls or .csv")

// IsSupportedSpreadsheet reports whether fileName has an accepted extension.
func IsSupportedSpreadsheet(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xls", ".csv":
		return true
	}
	return false
}

// ParseSpreadsheet returns the header row and data rows of the first sheet,
// choosing the reader from the file extension.
func ParseSpreadsheet(file io.Reader, fileName string) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return parseCSV(file)
	case ".xlsx", ".xls":
		return parseExcel(file)
	}
	return nil, nil, ErrUnsupportedFormat
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return padHeaders(allRows[0], allRows[1:]), allRows[1:], nil
}

// parseExcel reads raw (unformatted) cell values from the first sheet so
// currency-formatted prices still parse as numbers.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return padHeaders(rows[0], rows[1:]), rows[1:], nil
}

// padHeaders extends the header row with blank cells up to the widest data
// row. excelize drops trailing empty cells, so an unnamed last column would
// otherwise get no __EMPTY key.
func padHeaders(headers []string, rows [][]string) []string {
	width := len(headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == len(headers) {
		return headers
	}
	padded := make([]string, width)
	copy(padded, headers)
	return padded
}
