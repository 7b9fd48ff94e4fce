package commands

import (
	"os"
	"strings"
)

const APP = "csv-to-sheets"

const (
	DEFAULT_SHEET        = "Sheet1"
	DEFAULT_CREDENTIALS  = "credentials.json"
	DEFAULT_PREVIEW_ROWS = 5
)

// OAuth2 scopes
const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive"
	SCRIPT = "https://www.googleapis.com/auth/script.projects"
)

// DefaultCredentials returns the credentials file used when --credentials
// is not given: $SHEETS_CREDENTIALS if set, otherwise DEFAULT_CREDENTIALS.
func DefaultCredentials() string {
	if v := strings.TrimSpace(os.Getenv("SHEETS_CREDENTIALS")); v != "" {
		return v
	}

	return DEFAULT_CREDENTIALS
}
