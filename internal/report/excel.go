package report

import (
	"bytes"
	"fmt"

	"visit-report-service/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Site Visits"

// Column width hints, index-aligned with "#" + columnHeaders.
var columnWidths = []float64{6, 24, 18, 14, 12, 20, 22, 30, 14}

// RenderExcel produces the spreadsheet attachment as an in-memory buffer:
// a single sheet, fixed column order, static values only.
func RenderExcel(rows []models.VisitRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := append([]string{"#"}, columnHeaders...)
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, columnWidths[col]); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := append([]interface{}{i + 1}, toInterfaces(rowValues(r))...)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet buffer: %w", err)
	}
	return buf, nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
