package bulkimport

import (
	"bytes"
	"encoding/csv"

	"github.com/xuri/excelize/v2"
)

var exampleRow = []string{
	"Budi Santoso", "Operator Produksi", "VN-0123", "K-2025-001",
	"01/01/2025", "31/12/2025", "5000000", "750000",
	"17/08/1995", "budi@example.com", "081234567890",
}

// TemplateCSV renders the downloadable import template with one example row.
func TemplateCSV() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(Columns); err != nil {
		return nil, err
	}
	if err := writer.Write(exampleRow); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TemplateXLSX renders the same template as a workbook.
func TemplateXLSX() ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for i, col := range Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}
	for i, value := range exampleRow {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
