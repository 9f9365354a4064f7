// Package dataio reads touchline containers from CSV, JSON and Parquet files and builds
// observations from YAML manifests.
package dataio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/parquet"
)

// Format is a supported file format, derived from the file extension.
type Format string

// Supported formats.
const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Parquet Format = "parquet"
)

// FormatOf returns the format of path based on its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".parquet", ".pq":
		return Parquet, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s (expected .csv, .json or .parquet)", path)
	}
}

// ReadXY reads an XY container from a wide CSV or a long Parquet file.
func ReadXY(path string, framerate float64, opts ...core.XYOption) (*core.XY, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case CSV:
		return ReadXYCSV(path, framerate, opts...)
	case Parquet:
		return parquet.ReadXYParquet(path, framerate, opts...)
	default:
		return nil, fmt.Errorf("tracking data cannot be read from %s files", format)
	}
}

// ReadEvents reads an Events container from CSV, JSON or Parquet.
func ReadEvents(path string) (*core.Events, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case CSV:
		return ReadEventsCSV(path)
	case JSON:
		return ReadEventsJSON(path)
	default:
		return parquet.ReadEventsParquet(path)
	}
}

// ReadCode reads a Code container. Only CSV is supported.
func ReadCode(path, name string, framerate float64) (*core.Code, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format != CSV {
		return nil, fmt.Errorf("codes cannot be read from %s files", format)
	}
	return ReadCodeCSV(path, name, framerate)
}

// ReadTeamsheet reads a Teamsheet. Only CSV is supported.
func ReadTeamsheet(path string) (*core.Teamsheet, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format != CSV {
		return nil, fmt.Errorf("teamsheets cannot be read from %s files", format)
	}
	return ReadTeamsheetCSV(path)
}
