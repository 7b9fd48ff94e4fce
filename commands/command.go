package commands

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/sheets/v4"
)

// Options holds the settings shared by every command.
type Options struct {
	Debug bool
}

var logger = zap.NewNop().Sugar()

// NewLogger returns a console logger on stderr tagged with a per-run ID.
func NewLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	config.Encoding = "console"
	config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("run", uuid.NewString())), nil
}

// SetLogger replaces the package logger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}

	logger = l.Sugar()
}

func findSheet(spreadsheet *sheets.Spreadsheet, name string) *sheets.SheetProperties {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(sheet.Properties.Title), strings.TrimSpace(name)) {
			return sheet.Properties
		}
	}

	return nil
}

// a1 returns an A1 notation range for a sheet, quoting the title so that
// names with spaces or punctuation are accepted.
func a1(title, cell string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if cell == "" {
		return quoted
	}

	return quoted + "!" + cell
}

func debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}
