package commands

import (
	"fmt"
	"regexp"
	"strings"
)

var spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Locate returns the spreadsheet ID from either a bare ID or a Google Sheets
// sharing URL.
func Locate(spreadsheet string) (string, error) {
	if !strings.HasPrefix(spreadsheet, "https://") {
		return spreadsheet, nil
	}

	match := spreadsheetURL.FindStringSubmatch(spreadsheet)
	if len(match) < 2 {
		return "", fmt.Errorf("%w - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'", ErrInvalidResourceURL)
	}

	return match[1], nil
}
