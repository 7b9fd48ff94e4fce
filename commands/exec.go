package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/script/v1"
)

// Exec runs a function in a deployed Google Apps Script project.
type Exec struct {
	ScriptID      string
	Function      string
	Credentials   string
	Params        string
	SpreadsheetID string
	DevMode       bool

	out     io.Writer
	connect func(ctx context.Context, credentials string) (*script.Service, error)
}

// Invocation is a single scripts.run request.
type Invocation struct {
	ScriptID   string
	Function   string
	Parameters []any
	DevMode    bool
}

// Result is the outcome of a script execution that reached the Apps Script
// API: either a (possibly nil) return value or the error raised by the
// function.
type Result struct {
	Value any
	Error *ScriptError
}

// ScriptError is an exception raised by the script function.
type ScriptError struct {
	Message string
	Object  json.RawMessage
}

func (e *ScriptError) Error() string {
	return e.Message
}

// NewExec returns an Exec with the default settings.
func NewExec() *Exec {
	return &Exec{
		Credentials: DefaultCredentials(),
		out:         os.Stdout,
		connect:     connectScript,
	}
}

func (cmd *Exec) Execute(ctx context.Context) (*Result, error) {
	parameters, err := ParseParams(cmd.Params)
	if err != nil {
		return nil, err
	}

	if cmd.SpreadsheetID != "" {
		return nil, fmt.Errorf("%w '%s' - supply the script_id directly", ErrScriptLookupUnsupported, cmd.SpreadsheetID)
	}

	if strings.TrimSpace(cmd.ScriptID) == "" {
		return nil, fmt.Errorf("script ID is required")
	}

	if strings.TrimSpace(cmd.Function) == "" {
		return nil, fmt.Errorf("function name is required")
	}

	if strings.TrimSpace(cmd.Credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	infof("Running Apps Script function")
	infof("  script ID:  %s", cmd.ScriptID)
	infof("  function:   %s", cmd.Function)
	if len(parameters) > 0 {
		infof("  parameters: %s", cmd.Params)
	}

	service, err := cmd.connect(ctx, cmd.Credentials)
	if err != nil {
		return nil, err
	}

	result, err := Invoke(ctx, service, Invocation{
		ScriptID:   cmd.ScriptID,
		Function:   cmd.Function,
		Parameters: parameters,
		DevMode:    cmd.DevMode,
	})
	if err != nil {
		return nil, err
	}

	if result.Error != nil {
		fmt.Fprintf(cmd.out, "Apps Script error: %s\n", result.Error.Message)
		fmt.Fprintf(cmd.out, "Error details:\n%s\n", indent(result.Error.Object))

		return result, nil
	}

	fmt.Fprintln(cmd.out, "Apps Script function completed")

	if result.Value != nil {
		b, err := marshal(result.Value)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(cmd.out, "Result:\n%s\n", b)
	}

	return result, nil
}

// ParseParams decodes the --params argument. An empty string is no
// parameters; anything other than a JSON array is an error.
func ParseParams(params string) ([]any, error) {
	if strings.TrimSpace(params) == "" {
		return nil, nil
	}

	decoder := json.NewDecoder(strings.NewReader(params))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: JSON parse error (%v)", ErrInvalidParams, err)
	}

	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidParams)
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %T", ErrInvalidParams, v)
	}

	return list, nil
}

// Invoke runs the function and classifies the response. The returned error
// is only set if the API call itself failed.
func Invoke(ctx context.Context, service *script.Service, invocation Invocation) (*Result, error) {
	rq := script.ExecutionRequest{
		Function:   invocation.Function,
		Parameters: invocation.Parameters,
		DevMode:    invocation.DevMode,
	}

	operation, err := service.Scripts.Run(invocation.ScriptID, &rq).Context(ctx).Do()
	if err != nil {
		return nil, &TransportError{Op: "Apps Script API call", Err: err, Causes: scriptCauses}
	}

	return Classify(operation), nil
}

// Classify extracts either the error raised by the script or its return
// value from a scripts.run response. The error message is taken from the
// first detail entry and falls back to "Unknown error" for any other shape.
func Classify(operation *script.Operation) *Result {
	if operation.Error != nil {
		message := "Unknown error"

		if len(operation.Error.Details) > 0 {
			var detail struct {
				ErrorMessage *string `json:"errorMessage"`
			}

			if err := json.Unmarshal(operation.Error.Details[0], &detail); err == nil && detail.ErrorMessage != nil {
				message = *detail.ErrorMessage
			}
		}

		object, _ := json.Marshal(operation.Error)

		return &Result{
			Error: &ScriptError{
				Message: message,
				Object:  object,
			},
		}
	}

	var response struct {
		Result any `json:"result"`
	}

	if len(operation.Response) > 0 {
		if err := json.Unmarshal(operation.Response, &response); err != nil {
			debugf("Unexpected scripts.run response (%v)", err)
		}
	}

	return &Result{
		Value: response.Result,
	}
}

func marshal(v any) ([]byte, error) {
	var b bytes.Buffer

	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

func indent(object json.RawMessage) string {
	var b bytes.Buffer

	if err := json.Indent(&b, object, "", "  "); err != nil {
		return string(object)
	}

	return b.String()
}

func connectScript(ctx context.Context, credentials string) (*script.Service, error) {
	client, err := LoadCredentials(ctx, credentials, SCRIPT, SHEETS, DRIVE)
	if err != nil {
		return nil, err
	}

	service, err := script.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Apps Script client (%w)", err)
	}

	return service, nil
}
