package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/solartools/epdload/schema"
)

// Color variables for console output.
var (
	FetchedColor = color.New(color.FgGreen)           // a fresh download succeeded
	LocalColor   = color.New(color.FgCyan)            // an existing local file was reused
	MissingColor = color.New(color.FgYellow)          // the day has no usable file anywhere
	FailedColor  = color.New(color.FgRed, color.Bold) // a fetch was attempted and failed
)

// GetPlainStatus returns the plain text label for a fetch status. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainStatus(status schema.FetchStatus) string {
	return string(status)
}

// GetColorStatus returns a colored status label for console output (table).
func GetColorStatus(status schema.FetchStatus) string {
	text := GetPlainStatus(status)
	switch status {
	case schema.FetchedStatus:
		return FetchedColor.Sprint(text)
	case schema.LocalStatus:
		return LocalColor.Sprint(text)
	case schema.MissingStatus:
		return MissingColor.Sprint(text)
	default:
		return FailedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetManifestDBFilePath returns the path to the SQLite DB file for the fetch
// manifest.
func GetManifestDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".epdload_manifest.db"
	}
	return filepath.Join(homeDir, ".epdload_manifest.db")
}

// GetDefaultDataPath returns the root of the local data tree when no
// --data-path flag is given.
func GetDefaultDataPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "soar_data"
	}
	return filepath.Join(homeDir, "soar_data")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
