// Package export renders roster rows as downloadable spreadsheets. The
// core hands over tabular rows and never sees workbook formatting.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExcelExporter struct{}

var _ ports.RosterExporter = (*ExcelExporter)(nil)

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export writes a single worksheet with a header row, one row per
// record, and columns widened to fit the data.
func (e *ExcelExporter) Export(sheet string, headers []string, rows [][]string) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	// Drop the default sheet so the workbook only carries the roster.
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, "", err
		}
	}

	widths := make([]int, len(headers))
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
		widths[col] = len(header)
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
			if col < len(widths) && len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)+2); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), contentTypeXLSX, nil
}
