// Package tui provides terminal user interface components and utilities.
package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If GITSTACK_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.gitstack/logs/gitstack.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GITSTACK_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "gitstack.log"
	}

	logDir := filepath.Join(homeDir, ".gitstack", "logs")
	logFile := filepath.Join(logDir, "gitstack.log")

	return logFile
}
