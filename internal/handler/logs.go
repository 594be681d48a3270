package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"emotionanalyzer/internal/logger"
)

// ShowInfoLogsHandler serves the info.log file as text/plain.
func ShowInfoLogsHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveLogFile(w, r, log.Dir(), logger.InfoFile)
	}
}

// ShowWarningLogsHandler serves the warning.log file as text/plain.
func ShowWarningLogsHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveLogFile(w, r, log.Dir(), logger.WarningFile)
	}
}

// ShowErrorLogsHandler serves the error.log file as text/plain.
func ShowErrorLogsHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveLogFile(w, r, log.Dir(), logger.ErrorFile)
	}
}

// serveLogFile is a helper that sets headers and serves a log file if it exists.
func serveLogFile(w http.ResponseWriter, r *http.Request, logDir, filename string) {
	filePath := filepath.Join(logDir, filename)

	if _, err := os.Stat(filePath); logDir == "" || os.IsNotExist(err) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Log file not found: " + filename))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	http.ServeFile(w, r, filePath)
}

// ClearInfoLogsHandler truncates info.log.
func ClearInfoLogsHandler(log *logger.Logger) http.HandlerFunc {
	return clearLogHandler(log, logger.InfoFile)
}

// ClearWarningLogsHandler truncates warning.log.
func ClearWarningLogsHandler(log *logger.Logger) http.HandlerFunc {
	return clearLogHandler(log, logger.WarningFile)
}

// ClearErrorLogsHandler truncates error.log.
func ClearErrorLogsHandler(log *logger.Logger) http.HandlerFunc {
	return clearLogHandler(log, logger.ErrorFile)
}

func clearLogHandler(log *logger.Logger, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := log.CleanLogs(filename); err != nil {
			http.Error(w, "Failed to clear "+filename, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
