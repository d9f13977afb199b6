// Package bulkimport ingests employee rows from CSV or XLSX uploads. Rows
// are validated individually: one bad salary cell fails one row, not the
// batch. Only a database-level failure aborts the whole import.
package bulkimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Columns is the import header contract, also used for template generation.
var Columns = []string{
	"nama_karyawan", "jabatan", "nik_vendor", "no_kontrak",
	"kontrak_awal", "kontrak_akhir", "gaji_pokok", "tunjangan",
	"tanggal_lahir", "email", "no_hp",
}

// Row is one data row keyed by normalized header name. Line is the 1-based
// line in the source file, header included, for error reporting.
type Row struct {
	Line   int
	Values map[string]string
}

// Parse dispatches on the uploaded filename extension.
func Parse(filename string, data []byte) ([]Row, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(data)
	case strings.HasSuffix(lower, ".xlsx"):
		return parseXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (use .csv or .xlsx)", filename)
	}
}

func parseCSV(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}
	columns := normalizeHeader(header)

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, buildRow(line, columns, record))
	}
	return rows, nil
}

func parseXLSX(data []byte) ([]Row, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	cells, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	columns := normalizeHeader(cells[0])
	var rows []Row
	for i, record := range cells[1:] {
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, buildRow(i+2, columns, record))
	}
	return rows, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		out[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return out
}

func buildRow(line int, columns, record []string) Row {
	values := make(map[string]string, len(columns))
	for i, col := range columns {
		if col == "" {
			continue
		}
		if i < len(record) {
			values[col] = strings.TrimSpace(record[i])
		} else {
			values[col] = ""
		}
	}
	return Row{Line: line, Values: values}
}

func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
