package commands

import (
	"context"
	"fmt"

	"github.com/sheetsync/csv-to-sheets/table"
)

// Mode selects what happens to existing sheet content.
type Mode int

const (
	// Replace clears the sheet then writes header and rows from A1.
	Replace Mode = iota
	// Overwrite writes header and rows from A1 without clearing, so any
	// content below or to the right of the written block is kept.
	Overwrite
	// Append adds the rows after the existing content of the sheet.
	Append
)

func (m Mode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Overwrite:
		return "overwrite"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Target identifies the sheet a table is written to.
type Target struct {
	SpreadsheetID string
	Sheet         string
	Mode          Mode
}

// Summary describes a completed Sync. Sheet is the title of the sheet as
// found (or created) in the spreadsheet, which may differ in case and
// spacing from the requested name.
type Summary struct {
	Sheet   string
	Rows    int
	Created bool
}

// Sync writes a table to the target sheet with a single bulk write, creating
// the sheet if it does not exist.
//
// A failed write after a clear leaves the sheet empty.
func Sync(ctx context.Context, backend Backend, t *table.Table, target Target) (*Summary, error) {
	id := target.SpreadsheetID

	spreadsheet, err := backend.Open(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc, err := backend.Describe(ctx, id); err != nil {
		debugf("Drive metadata for %s not available (%v)", id, err)
	} else {
		infof("Spreadsheet '%s' (%s) last modified %s", doc.Name, doc.ID, doc.Modified.Local().Format("2006-01-02 15:04:05"))
	}

	created := false
	sheet := findSheet(spreadsheet, target.Sheet)
	if sheet == nil {
		infof("Sheet '%s' not found - creating it", target.Sheet)

		if sheet, err = backend.AddSheet(ctx, id, target.Sheet, 1, 1); err != nil {
			return nil, err
		}

		created = true
	}

	title := sheet.Title

	switch target.Mode {
	case Replace:
		debugf("Clearing sheet '%s'", title)
		if err := backend.Clear(ctx, id, a1(title, "")); err != nil {
			return nil, err
		}

		if err := backend.Update(ctx, id, a1(title, "A1"), t.Values()); err != nil {
			return nil, err
		}

	case Overwrite:
		if err := backend.Update(ctx, id, a1(title, "A1"), t.Values()); err != nil {
			return nil, err
		}

	case Append:
		rows := t.Data()
		if created {
			rows = t.Values()
		}

		if len(rows) > 0 {
			if err := backend.Append(ctx, id, a1(title, "A1"), rows); err != nil {
				return nil, err
			}
		}

	default:
		return nil, fmt.Errorf("unsupported write mode %v", target.Mode)
	}

	return &Summary{
		Sheet:   title,
		Rows:    len(t.Rows),
		Created: created,
	}, nil
}
