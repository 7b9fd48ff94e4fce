package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sheetsync/csv-to-sheets/table"
)

var (
	ErrPathNotFound            = errors.New("file not found")
	ErrInvalidResourceURL      = errors.New("invalid Google Sheets URL")
	ErrDocumentNotFound        = errors.New("spreadsheet not found")
	ErrCredentials             = errors.New("invalid credentials")
	ErrInvalidParams           = errors.New("invalid --params")
	ErrScriptLookupUnsupported = errors.New("unable to retrieve Script ID from spreadsheet")
)

var sheetsCauses = []string{
	"The Google Sheets API is not enabled for the credentials' project",
	"The spreadsheet has not been shared with the service account",
	"The credentials have expired or been revoked",
	"The Google APIs are not reachable from this host",
}

var scriptCauses = []string{
	"The Script ID is incorrect",
	"The credentials do not include the Apps Script API scope",
	"The Apps Script project has not been deployed as an API executable",
	"The service account does not have permission to run the script",
}

// TransportError is a failed call to a Google API, as opposed to an error
// reported by the API in a successful response.
type TransportError struct {
	Op     string
	Err    error
	Causes []string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed (%v)", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Diagnose renders a fatal error as the message printed before exiting,
// including the recovery steps for the errors that have any.
func Diagnose(err error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ERROR: %v\n", err)

	switch {
	case errors.Is(err, ErrDocumentNotFound):
		fmt.Fprintln(&b, "Check the spreadsheet ID:")
		fmt.Fprintln(&b, "  1. Open the spreadsheet in Google Drive")
		fmt.Fprintln(&b, "  2. Copy the ID from the URL: https://docs.google.com/spreadsheets/d/{ID}/edit...")

	case errors.Is(err, ErrScriptLookupUnsupported):
		fmt.Fprintln(&b, "The Script ID cannot be derived from a spreadsheet. Find it in the Apps Script editor:")
		fmt.Fprintln(&b, "  1. In the spreadsheet open Extensions > Apps Script")
		fmt.Fprintln(&b, "  2. Click Project Settings (the gear icon)")
		fmt.Fprintln(&b, "  3. Copy the Script ID from the IDs section")
		fmt.Fprintln(&b, "and pass it as the script_id argument")

	case errors.Is(err, ErrInvalidParams):
		fmt.Fprintln(&b, `--params must be a JSON array e.g. --params '["arg1", 123, true]'`)

	case errors.Is(err, table.ErrDetectionFailed):
		fmt.Fprintf(&b, "Supported encodings:  %s\n", strings.Join(table.Encodings, ", "))
		fmt.Fprintln(&b, `Supported delimiters: comma (,), tab (\t)`)
	}

	var transport *TransportError
	if errors.As(err, &transport) && len(transport.Causes) > 0 {
		fmt.Fprintln(&b, "Possible causes:")
		for i, cause := range transport.Causes {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, cause)
		}
	}

	return b.String()
}
