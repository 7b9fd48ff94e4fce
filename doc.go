/*
Package sheets synchronises local tabular files with Google Sheets worksheets.

The module provides two command line tools:

  - csv-to-sheets, to upload a CSV/TSV file (or an Excel workbook) to a named worksheet in a Google Sheets
    spreadsheet. The file encoding and delimiter are detected automatically and the worksheet is created if it
    does not exist. By default the worksheet is cleared before writing; --no-clear overwrites from A1 and
    --append adds the rows after the existing content. --dry-run displays the detected format and a preview
    without writing anything.
  - run-script, to run a function in a deployed Google Apps Script project with an optional JSON array of
    parameters, and display either the function result or the error it raised.

Both tools authenticate with either a service account key or an OAuth client credentials file.
*/
package sheets
