package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Backend is the subset of the Google Sheets API used to synchronise a table.
type Backend interface {
	Open(ctx context.Context, id string) (*sheets.Spreadsheet, error)
	Describe(ctx context.Context, id string) (*Document, error)
	AddSheet(ctx context.Context, id string, title string, rows, columns int64) (*sheets.SheetProperties, error)
	Clear(ctx context.Context, id string, area string) error
	Update(ctx context.Context, id string, area string, values [][]any) error
	Append(ctx context.Context, id string, area string, values [][]any) error
}

// Document is the Drive metadata of a spreadsheet.
type Document struct {
	ID       string
	Name     string
	Modified time.Time
}

type workbook struct {
	sheets *sheets.Service
	drive  *drive.Service
}

// NewBackend creates the Sheets and Drive clients from the same options,
// typically option.WithHTTPClient with a client from LoadCredentials.
func NewBackend(ctx context.Context, opts ...option.ClientOption) (Backend, error) {
	s, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	d, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return &workbook{
		sheets: s,
		drive:  d,
	}, nil
}

func (g *workbook) Open(ctx context.Context, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := g.sheets.Spreadsheets.Get(id).
		Fields("spreadsheetId", "properties.title", "sheets.properties").
		Context(ctx).
		Do()

	if isNotFound(err) {
		return nil, fmt.Errorf("%w: '%s'", ErrDocumentNotFound, id)
	} else if err != nil {
		return nil, &TransportError{Op: "fetch spreadsheet", Err: err, Causes: sheetsCauses}
	}

	return spreadsheet, nil
}

func (g *workbook) Describe(ctx context.Context, id string) (*Document, error) {
	file, err := g.drive.Files.Get(id).
		Fields("id", "name", "modifiedTime").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:       file.Id,
		Name:     file.Name,
		Modified: modified,
	}, nil
}

func (g *workbook) AddSheet(ctx context.Context, id string, title string, rows, columns int64) (*sheets.SheetProperties, error) {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: title,
						GridProperties: &sheets.GridProperties{
							RowCount:    rows,
							ColumnCount: columns,
						},
					},
				},
			},
		},
	}

	response, err := g.sheets.Spreadsheets.BatchUpdate(id, &rq).Context(ctx).Do()
	if err != nil {
		return nil, &TransportError{Op: fmt.Sprintf("create sheet '%s'", title), Err: err, Causes: sheetsCauses}
	}

	if len(response.Replies) == 0 || response.Replies[0].AddSheet == nil {
		return nil, fmt.Errorf("invalid response creating sheet '%s'", title)
	}

	return response.Replies[0].AddSheet.Properties, nil
}

func (g *workbook) Clear(ctx context.Context, id string, area string) error {
	rq := sheets.BatchClearValuesRequest{
		Ranges: []string{area},
	}

	if _, err := g.sheets.Spreadsheets.Values.BatchClear(id, &rq).Context(ctx).Do(); err != nil {
		return &TransportError{Op: fmt.Sprintf("clear %s", area), Err: err, Causes: sheetsCauses}
	}

	return nil
}

func (g *workbook) Update(ctx context.Context, id string, area string, values [][]any) error {
	rq := sheets.ValueRange{
		Range:  area,
		Values: values,
	}

	if _, err := g.sheets.Spreadsheets.Values.Update(id, area, &rq).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return &TransportError{Op: fmt.Sprintf("write %s", area), Err: err, Causes: sheetsCauses}
	}

	return nil
}

func (g *workbook) Append(ctx context.Context, id string, area string, values [][]any) error {
	rq := sheets.ValueRange{
		Values: values,
	}

	if _, err := g.sheets.Spreadsheets.Values.Append(id, area, &rq).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do(); err != nil {
		return &TransportError{Op: fmt.Sprintf("append to %s", area), Err: err, Causes: sheetsCauses}
	}

	return nil
}

func isNotFound(err error) bool {
	var e *googleapi.Error

	return errors.As(err, &e) && e.Code == http.StatusNotFound
}
