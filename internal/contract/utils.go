package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/touchline/internal/log"
	"github.com/huangsam/touchline/schema"
)

// Color variables for console output.
var (
	SprintColor   = color.New(color.FgRed, color.Bold)     // SprintColor marks maximal efforts.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor marks high-intensity running.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor marks running, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor marks walking and jogging.
)

// GetColorLabel returns a colored speed zone label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(topSpeed float64) string {
	text := schema.GetPlainLabel(topSpeed)

	switch text {
	case schema.SprintZone:
		return SprintColor.Sprint(text)
	case schema.HighZone:
		return HighColor.Sprint(text)
	case schema.ModerateZone:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.Error(msg, log.ErrorField(err))
	log.Sync()
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning through the shared logger and to stderr.
func LogWarn(msg string, err error) {
	log.Warn(msg, log.ErrorField(err))
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the result cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".touchline_cache.db"
	}
	return filepath.Join(homeDir, ".touchline_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".touchline_analysis.db"
	}
	return filepath.Join(homeDir, ".touchline_analysis.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
