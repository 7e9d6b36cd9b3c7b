package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

type LogLevel int

const (
	INFO LogLevel = iota
	WARN
	ERROR
	DEBUG
)

type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	file        *os.File
}

// Init opens logPath for appending.
func (l *Logger) Init(logPath string, console io.Writer) error {
	if logPath == "" {
		return fmt.Errorf("log path is not configured")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = file
	if console != nil {
		out = io.MultiWriter(file, console)
	}
	l.setOutput(out)
	l.file = file
	return nil
}

// New returns a logger writing to w only. Close is a no-op.
func New(w io.Writer) *Logger {
	l := &Logger{}
	l.setOutput(w)
	return l
}

// Nop discards everything.
func Nop() *Logger {
	return New(io.Discard)
}

func (l *Logger) setOutput(w io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	l.infoLogger = log.New(w, "INFO:  ", flags)
	l.warnLogger = log.New(w, "WARN:  ", flags)
	l.errorLogger = log.New(w, "ERROR: ", flags)
	l.debugLogger = log.New(w, "DEBUG: ", flags)
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Info(v ...any) {
	l.infoLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Infof(format string, v ...any) {
	l.infoLogger.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(v ...any) {
	l.warnLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Warnf(format string, v ...any) {
	l.warnLogger.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Error(v ...any) {
	l.errorLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.errorLogger.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(v ...any) {
	l.debugLogger.Output(2, fmt.Sprintln(v...))
}

func (l *Logger) Debugf(format string, v ...any) {
	l.debugLogger.Output(2, fmt.Sprintf(format, v...))
}
