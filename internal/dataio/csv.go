package dataio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/huangsam/touchline/core"
)

// readCSV returns every record of a CSV file. Rows may have differing lengths.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// readFirstColumn returns the first cell of every line of a CSV file. Blank lines are kept
// as empty cells, since a single-column file writes a missing value as an empty line.
func readFirstColumn(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var cells []string
	scanner := bufio.NewScanner(file)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			cells = append(cells, "")
			continue
		}
		reader := csv.NewReader(strings.NewReader(line))
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		row, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s line %d: %w", path, lineNo, err)
		}
		cells = append(cells, strings.TrimSpace(row[0]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cells, nil
}

// parseCell parses a numeric cell. Empty cells and NaN spellings are missing.
func parseCell(cell string) (float64, error) {
	trimmed := strings.TrimSpace(cell)
	switch strings.ToLower(trimmed) {
	case "", "nan", "null", "none":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(trimmed, 64)
}

// isHeader reports whether a row holds at least one non-numeric cell.
func isHeader(row []string) bool {
	return slices.ContainsFunc(row, func(cell string) bool {
		_, err := parseCell(cell)
		return err != nil
	})
}

// ReadXYCSV reads a wide CSV with columns x0,y0,x1,y1,... The header row is optional.
func ReadXYCSV(path string, framerate float64, opts ...core.XYOption) (*core.XY, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && isHeader(records[0]) {
		records = records[1:]
	}

	matrix := make([][]float64, len(records))
	for i, row := range records {
		matrix[i] = make([]float64, len(row))
		for j, cell := range row {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d column %d: %q is not a number", core.ErrShape, path, i+1, j, cell)
			}
			matrix[i][j] = v
		}
	}
	return core.NewXY(matrix, framerate, opts...)
}

// ReadCodeCSV reads the first column of a CSV as a Code. Numeric cells become code values.
// When any cell is text, the distinct non-empty cells are numbered in lexical order and
// kept as definitions. The first row is a header; the name defaults to it.
func ReadCodeCSV(path, name string, framerate float64) (*core.Code, error) {
	cells, err := readFirstColumn(path)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: %s has no header", core.ErrSchema, path)
	}
	if name == "" {
		name = cells[0]
	}
	cells = cells[1:]

	if !lo.SomeBy(cells, isTextCell) {
		values := make([]float64, len(cells))
		for i, cell := range cells {
			values[i], _ = parseCell(cell)
		}
		return core.NewCode(values, name, framerate)
	}

	// Any text cell turns every present cell into a label.
	present := lo.Filter(cells, func(c string, _ int) bool {
		v, err := parseCell(c)
		return err != nil || !math.IsNaN(v)
	})
	labels := lo.Uniq(present)
	slices.Sort(labels)
	index := make(map[string]float64, len(labels))
	definitions := make(map[float64]string, len(labels))
	for i, label := range labels {
		index[label] = float64(i)
		definitions[float64(i)] = label
	}
	values := make([]float64, len(cells))
	for i, cell := range cells {
		code, ok := index[cell]
		if !ok {
			code = math.NaN()
		}
		values[i] = code
	}
	return core.NewCode(values, name, framerate, core.WithDefinitions(definitions))
}

func isTextCell(cell string) bool {
	_, err := parseCell(cell)
	return err != nil
}

// ReadEventsCSV reads events from a CSV with a header that includes eID and gameclock.
func ReadEventsCSV(path string) (*core.Events, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header", core.ErrSchema, path)
	}
	return core.FromTable(records[0], records[1:])
}

// ReadTeamsheetCSV reads a teamsheet from a CSV with a header that includes player.
func ReadTeamsheetCSV(path string) (*core.Teamsheet, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header", core.ErrSchema, path)
	}
	return core.TeamsheetFromTable(records[0], records[1:])
}
