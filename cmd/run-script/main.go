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

	exec := commands.NewExec()

	cli := &cobra.Command{
		Use:   "run-script <script_id> <function_name>",
		Short: "Runs a function in a Google Apps Script project",
		Long: `Runs a function in a Google Apps Script project through the Apps Script API.

The project must be deployed as an API executable and the credentials must
include the Apps Script API scope.`,
		Example: `  run-script AKfycbyXXXXXXXXXXXXX myFunction -c credentials.json
  run-script AKfycbyXXXXXXXXXXXXX processData -c credentials.json --params '["arg1", 123]'`,
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

			exec.ScriptID = args[0]
			exec.Function = args[1]

			_, err = exec.Execute(cmd.Context())

			return err
		},
	}

	flags := cli.Flags()

	flags.StringVarP(&exec.Credentials, "credentials", "c", exec.Credentials, "Google service account key or OAuth client credentials file")
	flags.StringVarP(&exec.Params, "params", "p", exec.Params, `Function parameters as a JSON array e.g. '["arg1", 123]'`)
	flags.StringVar(&exec.SpreadsheetID, "spreadsheet-id", exec.SpreadsheetID, "Look up the script bound to a spreadsheet (not supported by the Apps Script API)")
	flags.BoolVar(&exec.DevMode, "dev-mode", exec.DevMode, "Run the most recently saved version of the script instead of the deployed version")
	flags.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")

	if err := cli.ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, commands.Diagnose(err))
		os.Exit(1)
	}
}
