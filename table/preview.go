package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Preview writes the header and the first n rows as aligned columns.
func Preview(w io.Writer, t *Table, n int) error {
	if t == nil || len(t.Columns) == 0 {
		return fmt.Errorf("empty table")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))

	for i, row := range t.Data() {
		if i >= n {
			break
		}

		record := make([]string, len(row))
		for j, v := range row {
			record[j] = fmt.Sprintf("%v", v)
		}

		fmt.Fprintln(tw, strings.Join(record, "\t"))
	}

	return tw.Flush()
}
