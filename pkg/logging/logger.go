// Package logging provides run-scoped file logging for webpilot components.
// All components of one run append to the same file, named by the run ID,
// under the configured logs directory.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes structured log lines for a single component.
// All log methods write unconditionally; there is no level filtering.
type Logger struct {
	runID     string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// Run ID shared by every logger in this process.
	runID     string
	runIDOnce sync.Once

	// logDir is where log files are written. Defaults to "logs" and is
	// normally overridden with the configured LOGS_FOLDER_PATH.
	logDir   = "logs"
	logDirMu sync.Mutex
)

// RunID returns or creates the run ID for this process.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// SetDirectory sets the directory where log files are created. It applies
// to loggers constructed after the call.
func SetDirectory(dir string) {
	logDirMu.Lock()
	defer logDirMu.Unlock()
	logDir = dir
}

func directory() string {
	logDirMu.Lock()
	defer logDirMu.Unlock()
	return logDir
}

// NewLogger creates a logger for a component, appending to
// <dir>/<run-id>-webpilot.log.
//
// If the directory or the file cannot be created, it returns a fallback
// logger writing to stderr together with the error, so callers can keep
// logging and still notice the degraded mode.
func NewLogger(component string) (*Logger, error) {
	dir := directory()
	if err := os.MkdirAll(dir, 0750); err != nil {
		wrapped := fmt.Errorf("failed to create log directory: %w", err)
		return Stderr(component, wrapped), wrapped
	}

	logPath := filepath.Join(dir, fmt.Sprintf("%s-webpilot.log", RunID()))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		wrapped := fmt.Errorf("failed to open log file: %w", err)
		return Stderr(component, wrapped), wrapped
	}

	return &Logger{
		runID:     RunID(),
		component: component,
		file:      file,
		logger:    log.New(file, "", 0), // timestamps are formatted by output
		logPath:   logPath,
	}, nil
}

// Stderr creates a logger that writes to stderr. Used as the fallback when
// file logging is unavailable and as the bootstrap logger before the logs
// directory is known. cause may be nil.
func Stderr(component string, cause error) *Logger {
	l := &Logger{
		runID:     RunID(),
		component: component,
		logger:    log.New(os.Stderr, "", 0),
	}
	if cause != nil {
		l.Warnf("file logging unavailable, falling back to stderr: %v", cause)
	}
	return l
}

func (l *Logger) output(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.output("INFO", format, v...)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output("DEBUG", format, v...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output("WARN", format, v...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output("ERROR", format, v...)
}

// Writer returns the underlying writer (the log file, or stderr in
// fallback mode).
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// LogPath returns the path of the log file, or "" in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
