package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads the first worksheet of an Excel workbook. The first row
// is the header; rows wider than the header extend it with unnamed columns.
func ReadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no worksheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading worksheet '%s' (%w)", sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet '%s' is empty", sheets[0])
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	for len(rows[0]) < width {
		rows[0] = append(rows[0], "")
	}

	return makeTable(rows)
}
