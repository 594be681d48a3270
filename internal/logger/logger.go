package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"emotionanalyzer/internal/config"

	"github.com/lmittmann/tint"
)

// Log file names, one per level.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to files and a colored console.
type Logger struct {
	console *slog.Logger
	files   map[slog.Level]*slog.Logger
	handles []*os.File
	logDir  string
	mu      sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) *Logger {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	logger := &Logger{
		logDir: config.LogDirectory,
		files:  make(map[slog.Level]*slog.Logger),
	}

	logger.setupLoggers(os.Stderr)
	return logger
}

// Discard returns a Logger that drops everything. Used by tests and the CLI's quiet mode.
func Discard() *Logger {
	nop := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Logger{
		console: nop,
		files: map[slog.Level]*slog.Logger{
			slog.LevelInfo:  nop,
			slog.LevelWarn:  nop,
			slog.LevelError: nop,
		},
	}
}

// setupLoggers initializes the console handler and the per-level file handlers.
func (l *Logger) setupLoggers(console io.Writer) {
	l.console = slog.New(tint.NewHandler(console, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.DateTime,
	}))

	for level, name := range map[slog.Level]string{
		slog.LevelInfo:  InfoFile,
		slog.LevelWarn:  WarningFile,
		slog.LevelError: ErrorFile,
	} {
		file := l.openLogFile(filepath.Join(l.logDir, name))
		l.handles = append(l.handles, file)
		l.files[level] = slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	}
}

// openLogFile opens or creates a log file for appending.
func (l *Logger) openLogFile(filename string) *os.File {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", filename, err)
	}
	return file
}

func (l *Logger) write(level slog.Level, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Log(context.Background(), level, msg)
	l.files[level].Log(context.Background(), level, msg)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.write(slog.LevelInfo, format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.write(slog.LevelWarn, format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.write(slog.LevelError, format, v...)
}

// Dir returns the directory holding the log files.
func (l *Logger) Dir() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return nil
	}

	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.Error("Error opening file: %v", err)
		return err
	}
	defer file.Close()

	l.Info("File %s has been cleared.", fileName)
	return nil
}

// Close releases the log files.
func (l *Logger) Close() error {
	var firstErr error
	for _, f := range l.handles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
