package table

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is the in-memory form of a source file: an ordered list of column
// names and the data rows aligned to it. A nil cell is a missing value.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Load reads a source file into a Table. Workbooks (.xlsx) are read
// directly, anything else goes through encoding/delimiter detection.
func Load(path string) (*Table, Candidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		t, err := ReadWorkbook(path)
		if err != nil {
			return nil, Candidate{}, err
		}

		return t, Candidate{Encoding: "xlsx"}, nil

	default:
		return Detect(path)
	}
}

func makeTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table")
	}

	header := make([]string, len(records[0]))
	for i, v := range records[0] {
		header[i] = clean(v)
	}

	if len(header) == 0 {
		return nil, fmt.Errorf("missing/invalid header row")
	}

	rows := make([][]any, 0, len(records)-1)
	for ix, record := range records[1:] {
		if len(record) > len(header) {
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", ix+1, len(header), len(record))
		}

		row := make([]any, len(header))
		for i, v := range record {
			if v != "" {
				row[i] = v
			}
		}

		rows = append(rows, row)
	}

	return &Table{
		Columns: header,
		Rows:    rows,
	}, nil
}

// Values returns the header followed by every data row as a single value
// block, with missing cells replaced by the empty string.
func (t *Table) Values() [][]any {
	values := make([][]any, 0, len(t.Rows)+1)

	header := make([]any, len(t.Columns))
	for i, v := range t.Columns {
		header[i] = v
	}

	values = append(values, header)
	values = append(values, t.Data()...)

	return values
}

// Data returns the data rows only, with missing cells replaced by the
// empty string.
func (t *Table) Data() [][]any {
	rows := make([][]any, 0, len(t.Rows))

	for _, record := range t.Rows {
		row := make([]any, len(t.Columns))
		for i := range row {
			row[i] = ""
			if i < len(record) && record[i] != nil {
				row[i] = record[i]
			}
		}

		rows = append(rows, row)
	}

	return rows
}

func clean(v string) string {
	return strings.TrimPrefix(v, "\ufeff")
}
