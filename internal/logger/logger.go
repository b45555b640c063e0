package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var defaultLogger *slog.Logger

// getLogFilePath determines the path for the application log file based on XDG spec.
func getLogFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, "query-batch", "app.log"), nil
}

// openLogFile creates the log directory and opens the log file for appending.
func openLogFile() (*os.File, string, error) {
	logFilePath, err := getLogFilePath()
	if err != nil {
		return nil, "", err
	}
	// 0750: user rwx, group rx, others ---
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
		return nil, logFilePath, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, logFilePath, fmt.Errorf("opening log file: %w", err)
	}
	return file, logFilePath, nil
}

// InitLogger configures the default logger. Logs always go to the state
// file when it can be opened; verbose mirrors them to stderr and lowers the
// level to debug. It should be called once at startup.
func InitLogger(verbose bool) {
	var writers []io.Writer

	file, path, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled (%s): %v\n", path, err)
	} else {
		writers = append(writers, file)
	}
	if verbose || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	defaultLogger = slog.New(handler)

	if file != nil {
		Debug("Logging configured.", "file", path, "stderr", verbose)
	}
}

// SetLogger replaces the default logger instance, mainly for tests.
func SetLogger(l *slog.Logger) {
	defaultLogger = l
}

// Discard installs a logger that drops everything.
func Discard() {
	defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// checkLogger keeps calls before InitLogger from panicking; it falls back to
// warnings and above on stderr without touching the filesystem.
func checkLogger() {
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	checkLogger()
	defaultLogger.Info(msg, args...)
}

// Infof logs a formatted informational message.
func Infof(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(msg string, args ...any) {
	checkLogger()
	defaultLogger.Error(msg, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Error(fmt.Sprintf(format, v...))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	checkLogger()
	defaultLogger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	checkLogger()
	defaultLogger.Warn(msg, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}
