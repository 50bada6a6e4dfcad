// Package xlsxexport renders an extraction record as an Excel workbook.
package xlsxexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"lexmerge/internal/domain"
)

// SheetName is the name of the single worksheet.
const SheetName = "Extracted Data"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"S.No", "Field Name", "Value"}

// Export builds a workbook with one row per field and the two free-text
// sections appended, and returns its bytes.
func Export(record *domain.ExtractionRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, row := range record.ExportRows() {
		r := i + 2
		values := []interface{}{row.SNo, row.FieldName, row.Value}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx row %d: %w", r, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 5)   // S.No
	_ = f.SetColWidth(SheetName, "B", "B", 40)  // field name
	_ = f.SetColWidth(SheetName, "C", "C", 100) // value

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildFilename returns the download name for an XLSX export with the given base.
func BuildFilename(base string) string {
	return base + ".xlsx"
}
