package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"checklist/internal/config"
	"checklist/internal/platform"
)

// newLogger builds the process logger. logfmt output is used for the log
// file; the terminal gets the styled text format.
func newLogger(w io.Writer, level log.Level, logfmt bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          platform.AppName,
		ReportTimestamp: logfmt,
	})
	if logfmt {
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
