package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sheetsync/csv-to-sheets/commands"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "WARN: could not load .env (%v)\n", err)
	}

	options := commands.Options{
		Debug: false,
	}

	put := commands.NewPut()

	cli := &cobra.Command{
		Use:   fmt.Sprintf("%s <source_path> <document_id_or_url>", commands.APP),
		Short: "Uploads a CSV/TSV file to a Google Sheets worksheet",
		Long: `Uploads a CSV or TSV file to a Google Sheets worksheet.

The file encoding (utf-8, utf-8-sig, utf-16, utf-16-le, utf-16-be, cp932,
shift_jis) and delimiter (comma or tab) are detected automatically. Excel
workbooks (.xlsx) are read from their first worksheet.`,
		Example: `  csv-to-sheets data.csv 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms
  csv-to-sheets ~/デスクトップ/参加者.csv "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit" -s Participants
  csv-to-sheets data.tsv 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms --dry-run`,
		Args:          cobra.ExactArgs(2),
		Version:       commands.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commands.NewLogger(options.Debug)
			if err != nil {
				return err
			}

			defer logger.Sync()

			commands.SetLogger(logger)

			put.Source = args[0]
			put.Spreadsheet = args[1]

			return put.Execute(cmd.Context())
		},
	}

	flags := cli.Flags()

	flags.StringVarP(&put.Sheet, "sheet", "s", put.Sheet, "Worksheet name, created if it does not exist")
	flags.StringVarP(&put.Credentials, "credentials", "c", put.Credentials, "Google service account key or OAuth client credentials file")
	flags.BoolVar(&put.NoClear, "no-clear", put.NoClear, "Write from A1 without clearing the worksheet first")
	flags.BoolVar(&put.Append, "append", put.Append, "Append the rows after the existing worksheet content")
	flags.BoolVarP(&put.DryRun, "dry-run", "d", put.DryRun, "Display the detected format and a preview without writing anything")
	flags.IntVar(&put.Preview, "preview", put.Preview, "Number of rows to display in the preview")
	flags.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")

	if err := cli.ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, commands.Diagnose(err))
		os.Exit(1)
	}
}
