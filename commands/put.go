package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"google.golang.org/api/option"

	"github.com/sheetsync/csv-to-sheets/table"
)

// Put uploads a delimited text file (or workbook) to a Google Sheets worksheet.
type Put struct {
	Source      string
	Spreadsheet string
	Credentials string
	Sheet       string
	NoClear     bool
	Append      bool
	DryRun      bool
	Preview     int

	out     io.Writer
	connect func(ctx context.Context, credentials string) (Backend, error)
}

// NewPut returns a Put with the default settings.
func NewPut() *Put {
	return &Put{
		Credentials: DefaultCredentials(),
		Sheet:       DEFAULT_SHEET,
		Preview:     DEFAULT_PREVIEW_ROWS,
		out:         os.Stdout,
		connect:     connect,
	}
}

func (cmd *Put) Execute(ctx context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}

	spreadsheetId, err := Locate(cmd.Spreadsheet)
	if err != nil {
		return err
	}

	infof("Reading %s", cmd.Source)

	path, err := ResolvePath(cmd.Source)
	if err != nil {
		return err
	}

	t, candidate, err := table.Load(path)
	if err != nil {
		return err
	}

	if candidate.Delimiter != 0 {
		infof("Detected encoding:  %s", candidate.Encoding)
		infof("Detected delimiter: %v", candidate.Delimiter)
	}

	infof("Read %d rows, %d columns", len(t.Rows), len(t.Columns))

	fmt.Fprintln(cmd.out)
	fmt.Fprintln(cmd.out, "Preview:")
	if err := table.Preview(cmd.out, t, cmd.Preview); err != nil {
		return err
	}

	fmt.Fprintln(cmd.out)
	fmt.Fprintf(cmd.out, "Columns: %s\n", strings.Join(t.Columns, ", "))

	if cmd.DryRun {
		fmt.Fprintln(cmd.out)
		fmt.Fprintln(cmd.out, "[dry run] nothing written")
		return nil
	}

	target := Target{
		SpreadsheetID: spreadsheetId,
		Sheet:         cmd.Sheet,
		Mode:          cmd.mode(),
	}

	debugf("Spreadsheet - ID:%s  sheet:%s  mode:%v", target.SpreadsheetID, target.Sheet, target.Mode)

	backend, err := cmd.connect(ctx, cmd.Credentials)
	if err != nil {
		return err
	}

	infof("Writing to spreadsheet")

	summary, err := Sync(ctx, backend, t, target)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.out)
	fmt.Fprintf(cmd.out, "Wrote %d rows to spreadsheet\n", summary.Rows)
	fmt.Fprintf(cmd.out, "  spreadsheet: %s\n", spreadsheetId)
	fmt.Fprintf(cmd.out, "  sheet:       %s\n", summary.Sheet)

	return nil
}

func (cmd *Put) validate() error {
	if strings.TrimSpace(cmd.Source) == "" {
		return fmt.Errorf("source file is required")
	}

	if strings.TrimSpace(cmd.Spreadsheet) == "" {
		return fmt.Errorf("spreadsheet ID or URL is required")
	}

	if strings.TrimSpace(cmd.Sheet) == "" {
		return fmt.Errorf("--sheet is a required option")
	}

	if !cmd.DryRun && strings.TrimSpace(cmd.Credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if cmd.NoClear && cmd.Append {
		return fmt.Errorf("--no-clear and --append are mutually exclusive")
	}

	if cmd.Preview < 0 {
		return fmt.Errorf("invalid --preview %d", cmd.Preview)
	}

	return nil
}

func (cmd *Put) mode() Mode {
	switch {
	case cmd.Append:
		return Append
	case cmd.NoClear:
		return Overwrite
	default:
		return Replace
	}
}

func connect(ctx context.Context, credentials string) (Backend, error) {
	client, err := LoadCredentials(ctx, credentials, SHEETS, DRIVE)
	if err != nil {
		return nil, err
	}

	return NewBackend(ctx, option.WithHTTPClient(client))
}
