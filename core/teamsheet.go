package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// teamsheetProtected are the identifier columns a teamsheet may carry.
var teamsheetProtected = []Column{ColPlayerID, ColJerseyID, ColIndexID, ColTeamID}

// Teamsheet lists the players of one team with their identifiers in several namespaces.
type Teamsheet struct {
	columns []string
	rows    []map[string]Value
}

// NewTeamsheet builds a teamsheet with an explicit column schema. It fails with ErrSchema
// when the player column is absent or a record carries a column outside the schema.
func NewTeamsheet(columns []string, records []map[string]Value) (*Teamsheet, error) {
	if !slices.Contains(columns, string(ColPlayer)) {
		return nil, fmt.Errorf("%w: missing essential column %q", ErrSchema, ColPlayer)
	}
	rows := make([]map[string]Value, 0, len(records))
	for i, record := range records {
		for key := range record {
			if !slices.Contains(columns, key) {
				return nil, fmt.Errorf("%w: teamsheet row %d has unknown column %q", ErrSchema, i, key)
			}
		}
		rows = append(rows, maps.Clone(record))
	}
	return &Teamsheet{columns: slices.Clone(columns), rows: rows}, nil
}

// TeamsheetFromTable builds a teamsheet from a header and rows of text cells.
func TeamsheetFromTable(header []string, rows [][]string) (*Teamsheet, error) {
	records := make([]map[string]Value, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrShape, i, len(row), len(header))
		}
		record := make(map[string]Value, len(header))
		for j, cell := range row {
			record[header[j]] = ParseValue(cell)
		}
		records = append(records, record)
	}
	return NewTeamsheet(header, records)
}

// Len returns the number of players.
func (ts *Teamsheet) Len() int { return len(ts.rows) }

// Columns returns the column names.
func (ts *Teamsheet) Columns() []string { return slices.Clone(ts.columns) }

// Column returns the values of a column in row order.
func (ts *Teamsheet) Column(name string) ([]Value, error) {
	if !slices.Contains(ts.columns, name) {
		return nil, fmt.Errorf("%w: teamsheet has no column %q", ErrKey, name)
	}
	return lo.Map(ts.rows, func(r map[string]Value, _ int) Value { return r[name] }), nil
}

// Protected returns the identifier columns present.
func (ts *Teamsheet) Protected() []string {
	return lo.FilterMap(teamsheetProtected, func(c Column, _ int) (string, bool) {
		return string(c), slices.Contains(ts.columns, string(c))
	})
}

// Custom returns the columns without defined semantics.
func (ts *Teamsheet) Custom() []string {
	return lo.Filter(ts.columns, func(c string, _ int) bool {
		return c != string(ColPlayer) && !slices.Contains(teamsheetProtected, Column(c))
	})
}

// InvalidColumns returns the identifier columns holding values outside their range.
func (ts *Teamsheet) InvalidColumns() []string {
	return lo.Filter(ts.Protected(), func(c string, _ int) bool {
		def := ProtectedColumns[Column(c)]
		return lo.SomeBy(ts.rows, func(r map[string]Value) bool { return !def.InRange(r[c]) })
	})
}

// GetLinks maps the values of the keys column to the values of the values column. It fails
// with ErrKey when either column is absent and with ErrSchema when a key repeats.
func (ts *Teamsheet) GetLinks(keys, values string) (*Links, error) {
	keyCol, err := ts.Column(keys)
	if err != nil {
		return nil, err
	}
	valCol, err := ts.Column(values)
	if err != nil {
		return nil, err
	}
	labels := lo.Map(keyCol, func(v Value, _ int) string { return v.String() })
	if dupes := lo.FindDuplicates(labels); len(dupes) > 0 {
		return nil, fmt.Errorf("%w: column %q has duplicate keys %v and cannot be linked", ErrSchema, keys, dupes)
	}
	links := &Links{From: keys, To: values, m: make(map[string]Value, len(labels))}
	for i, label := range labels {
		links.m[label] = valCol[i]
	}
	return links, nil
}

// Links is a unidirectional mapping between two identifier namespaces, such as jersey
// number to entity index.
type Links struct {
	From, To string
	m        map[string]Value
}

// Len returns the number of links.
func (l *Links) Len() int { return len(l.m) }

// Resolve returns the value linked to key.
func (l *Links) Resolve(key Value) (Value, error) {
	v, ok := l.m[key.String()]
	if !ok {
		return Value{}, fmt.Errorf("%w: no %s linked to %s %q", ErrKey, l.To, l.From, key)
	}
	return v, nil
}

// ResolveIndex resolves key to an integral value, typically an entity index.
func (l *Links) ResolveIndex(key Value) (int, error) {
	v, err := l.Resolve(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float()
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s %q is linked to non-integral %s %q", ErrKey, l.From, key, l.To, v)
	}
	return int(f), nil
}

// Keys returns the linked keys in lexical order.
func (l *Links) Keys() []string {
	return slices.Sorted(maps.Keys(l.m))
}
