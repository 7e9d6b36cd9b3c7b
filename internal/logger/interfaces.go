package logger

import (
	"io"

	"github.com/ryan-gang/mail-blast/internal/config"
)

// LoggerInterface defines the interface for logging
type LoggerInterface interface {
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
	Debug(v ...any)
	Debugf(format string, v ...any)
	Close() error
}

// NewLogger creates a logger writing to the configured log file, and to
// console as well when it is not nil.
func NewLogger(cfg config.ConfigProvider, console io.Writer) (LoggerInterface, error) {
	logger := &Logger{}
	if err := logger.Init(cfg.GetLogPath(), console); err != nil {
		return nil, err
	}
	return logger, nil
}
