package core

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/huangsam/touchline/schema"
)

// Event is a single row of an Events container.
type Event struct {
	EID       Value
	Gameclock float64
	// Fields holds every column other than eID and gameclock. Absent keys are null.
	Fields map[string]Value
}

// Get returns the value of the named column for this event.
func (e Event) Get(column string) Value {
	switch Column(column) {
	case ColEventID:
		return e.EID
	case ColGameclock:
		return Num(e.Gameclock)
	default:
		return e.Fields[column]
	}
}

func (e Event) clone() Event {
	e.Fields = maps.Clone(e.Fields)
	if e.Fields == nil {
		e.Fields = make(map[string]Value)
	}
	return e
}

// Events is an ordered table of irregularly timed events for one team and one segment.
// Row order is the insertion order; it is only gameclock-sorted after SortByGameclock.
type Events struct {
	rows    []Event
	columns []string
	// frameclockRate is the framerate the frameclock column was computed at, zero if unknown.
	frameclockRate float64
}

// NewEvents builds an Events container with an explicit column schema. Records may omit
// fields, which are then null. It fails with ErrSchema when the schema lacks eID or
// gameclock, when a record carries a column outside the schema, or when a row has no
// event type or no numeric gameclock.
func NewEvents(columns []string, records []map[string]Value) (*Events, error) {
	for _, essential := range []Column{ColEventID, ColGameclock} {
		if !slices.Contains(columns, string(essential)) {
			return nil, fmt.Errorf("%w: missing essential column %q", ErrSchema, essential)
		}
	}
	if dupes := lo.FindDuplicates(columns); len(dupes) > 0 {
		return nil, fmt.Errorf("%w: duplicate columns %v", ErrSchema, dupes)
	}
	known := lo.SliceToMap(columns, func(c string) (string, struct{}) { return c, struct{}{} })

	rows := make([]Event, 0, len(records))
	for i, record := range records {
		ev := Event{Fields: make(map[string]Value, len(record))}
		for key, value := range record {
			if _, ok := known[key]; !ok {
				return nil, fmt.Errorf("%w: row %d has unknown column %q", ErrSchema, i, key)
			}
			switch Column(key) {
			case ColEventID:
				ev.EID = value
			case ColGameclock:
				gc, ok := value.Float()
				if !ok {
					return nil, fmt.Errorf("%w: row %d has non-numeric gameclock %q", ErrSchema, i, value)
				}
				ev.Gameclock = gc
			default:
				if !value.IsNull() {
					ev.Fields[key] = value
				}
			}
		}
		if _, ok := record[string(ColGameclock)]; !ok {
			return nil, fmt.Errorf("%w: row %d has no gameclock", ErrSchema, i)
		}
		if ev.EID.IsNull() {
			return nil, fmt.Errorf("%w: row %d has no event type", ErrSchema, i)
		}
		rows = append(rows, ev)
	}
	return &Events{rows: rows, columns: slices.Clone(columns)}, nil
}

// FromRecords builds an Events container whose schema is the union of the record keys:
// eID and gameclock first, then the remaining columns in lexical order.
func FromRecords(records []map[string]Value) (*Events, error) {
	seen := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			seen[key] = struct{}{}
		}
	}
	delete(seen, string(ColEventID))
	delete(seen, string(ColGameclock))
	columns := []string{string(ColEventID), string(ColGameclock)}
	columns = append(columns, slices.Sorted(maps.Keys(seen))...)
	return NewEvents(columns, records)
}

// FromTable builds an Events container from a header and rows of text cells. Cells are
// typed with ParseValue. It fails with ErrShape when a row length differs from the header.
func FromTable(header []string, rows [][]string) (*Events, error) {
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
	return NewEvents(header, records)
}

// String implements fmt.Stringer.
func (ev *Events) String() string {
	return fmt.Sprintf("Events object with %d events and columns %v", len(ev.rows), ev.columns)
}

// Len returns the number of events.
func (ev *Events) Len() int { return len(ev.rows) }

// Columns returns the column names in schema order.
func (ev *Events) Columns() []string { return slices.Clone(ev.columns) }

// HasColumn reports whether the schema contains the named column.
func (ev *Events) HasColumn(name string) bool { return slices.Contains(ev.columns, name) }

// FrameclockRate returns the framerate the frameclock column was computed at, or zero.
func (ev *Events) FrameclockRate() float64 { return ev.frameclockRate }

// Row returns a copy of the i-th event.
func (ev *Events) Row(i int) (Event, error) {
	if i < 0 || i >= len(ev.rows) {
		return Event{}, fmt.Errorf("%w: row %d outside [0, %d)", ErrRange, i, len(ev.rows))
	}
	return ev.rows[i].clone(), nil
}

// Rows returns a copy of all events in order.
func (ev *Events) Rows() []Event {
	return lo.Map(ev.rows, func(e Event, _ int) Event { return e.clone() })
}

// Records returns every event as a map from column name to value, the inverse of
// FromRecords. Null fields are omitted.
func (ev *Events) Records() []map[string]Value {
	return lo.Map(ev.rows, func(e Event, _ int) map[string]Value {
		record := make(map[string]Value, len(ev.columns))
		for _, name := range ev.columns {
			if v := e.Get(name); !v.IsNull() {
				record[name] = v
			}
		}
		return record
	})
}

// Column returns the values of a column in row order.
func (ev *Events) Column(name string) ([]Value, error) {
	if !ev.HasColumn(name) {
		return nil, fmt.Errorf("%w: events have no column %q", ErrKey, name)
	}
	return lo.Map(ev.rows, func(e Event, _ int) Value { return e.Get(name) }), nil
}

// Numeric returns a column as numbers, with NaN for null and non-numeric cells.
func (ev *Events) Numeric(name string) ([]float64, error) {
	values, err := ev.Column(name)
	if err != nil {
		return nil, err
	}
	return lo.Map(values, func(v Value, _ int) float64 { return v.FloatOrNaN() }), nil
}

// Gameclock returns the gameclock of every event in row order.
func (ev *Events) Gameclock() []float64 {
	return lo.Map(ev.rows, func(e Event, _ int) float64 { return e.Gameclock })
}

// EventIDs returns the distinct event types in first-seen order.
func (ev *Events) EventIDs() []Value {
	out := make([]Value, 0)
	for _, e := range ev.rows {
		if !slices.ContainsFunc(out, e.EID.Equal) {
			out = append(out, e.EID)
		}
	}
	return out
}

// Clone returns a deep copy.
func (ev *Events) Clone() *Events {
	return &Events{rows: ev.Rows(), columns: slices.Clone(ev.columns), frameclockRate: ev.frameclockRate}
}

func (ev *Events) derive(rows []Event, opts []TransformOption) *Events {
	if applyTransformOptions(opts).inPlace {
		ev.rows = rows
		return ev
	}
	return &Events{rows: rows, columns: slices.Clone(ev.columns), frameclockRate: ev.frameclockRate}
}

// Essential returns the essential columns.
func (ev *Events) Essential() []string {
	return []string{string(ColEventID), string(ColGameclock)}
}

// Protected returns the protected columns present in the schema.
func (ev *Events) Protected() []string {
	return lo.FilterMap(protectedOrder, func(c Column, _ int) (string, bool) {
		return string(c), ev.HasColumn(string(c))
	})
}

// ProtectedMissing returns the protected columns absent from the schema.
func (ev *Events) ProtectedMissing() []string {
	return lo.FilterMap(protectedOrder, func(c Column, _ int) (string, bool) {
		return string(c), !ev.HasColumn(string(c))
	})
}

// Custom returns the columns that carry no defined semantics.
func (ev *Events) Custom() []string {
	return lo.Filter(ev.columns, func(c string, _ int) bool {
		_, essential := EssentialEventColumns[Column(c)]
		_, protected := ProtectedColumns[Column(c)]
		return !essential && !protected
	})
}

// InvalidColumns returns the essential and protected columns holding at least one value of
// the wrong kind or outside the column's value range.
func (ev *Events) InvalidColumns() []string {
	var invalid []string
	check := func(name Column, def ColumnDefinition) {
		if !ev.HasColumn(string(name)) {
			return
		}
		for _, e := range ev.rows {
			if !def.InRange(e.Get(string(name))) {
				invalid = append(invalid, string(name))
				return
			}
		}
	}
	for _, c := range []Column{ColEventID, ColGameclock} {
		check(c, EssentialEventColumns[c])
	}
	for _, c := range protectedOrder {
		check(c, ProtectedColumns[c])
	}
	return invalid
}

// Select returns the events satisfying every condition, in their original relative order.
// No match yields an empty container. A condition on an unknown column fails with ErrKey.
func (ev *Events) Select(conditions ...Condition) (*Events, error) {
	for _, cond := range conditions {
		if !ev.HasColumn(cond.Column) {
			return nil, fmt.Errorf("%w: cannot select on unknown column %q", ErrKey, cond.Column)
		}
	}
	rows := lo.FilterMap(ev.rows, func(e Event, _ int) (Event, bool) {
		for _, cond := range conditions {
			if !cond.Matches(e.Get(cond.Column)) {
				return Event{}, false
			}
		}
		return e.clone(), true
	})
	return ev.derive(rows, nil), nil
}

// AddFrameclock adds or overwrites the frameclock column as floor(gameclock * framerate).
func (ev *Events) AddFrameclock(framerate float64) error {
	if err := validateFramerate(framerate); err != nil {
		return err
	}
	for i := range ev.rows {
		if ev.rows[i].Fields == nil {
			ev.rows[i].Fields = make(map[string]Value)
		}
		ev.rows[i].Fields[string(ColFrameclock)] = Num(math.Floor(ev.rows[i].Gameclock * framerate))
	}
	if !ev.HasColumn(string(ColFrameclock)) {
		ev.columns = append(ev.columns, string(ColFrameclock))
	}
	ev.frameclockRate = framerate
	return nil
}

// SortByGameclock orders events by gameclock. Simultaneous events keep their relative order.
func (ev *Events) SortByGameclock(opts ...TransformOption) *Events {
	rows := ev.Rows()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Gameclock < rows[j].Gameclock })
	return ev.derive(rows, opts)
}

// Slice keeps the events with start <= gameclock < end.
func (ev *Events) Slice(start, end float64, opts ...TransformOption) *Events {
	out, _ := ev.SliceBy(string(ColGameclock), start, end, opts...)
	return out
}

// SliceBy keeps the events whose numeric value in column lies in [start, end). Events with
// a null or non-numeric entry in the column are dropped.
func (ev *Events) SliceBy(column string, start, end float64, opts ...TransformOption) (*Events, error) {
	if !ev.HasColumn(column) {
		return nil, fmt.Errorf("%w: cannot slice by unknown column %q", ErrKey, column)
	}
	cond := Range(column, start, end)
	rows := lo.FilterMap(ev.rows, func(e Event, _ int) (Event, bool) {
		return e.clone(), cond.Matches(e.Get(column))
	})
	return ev.derive(rows, opts), nil
}

var locationPairs = [][2]string{
	{string(ColAtX), string(ColAtY)},
	{string(ColToX), string(ColToY)},
}

// mapAxes applies fx to the numeric entries of every x location column and fy to those of
// every y location column in the schema. Null and non-numeric entries are left as they are.
func (ev *Events) mapAxes(opts []TransformOption, fx, fy func(float64) float64) *Events {
	rows := ev.Rows()
	for _, pair := range locationPairs {
		for k, fn := range []func(float64) float64{fx, fy} {
			column := pair[k]
			if !ev.HasColumn(column) {
				continue
			}
			for i := range rows {
				if v, ok := rows[i].Fields[column].Float(); ok {
					rows[i].Fields[column] = Num(fn(v))
				}
			}
		}
	}
	return ev.derive(rows, opts)
}

// Translate shifts every event location by (dx, dy).
func (ev *Events) Translate(dx, dy float64, opts ...TransformOption) *Events {
	return ev.mapAxes(opts,
		func(x float64) float64 { return x + dx },
		func(y float64) float64 { return y + dy })
}

// Scale multiplies event locations by factor along one axis, or both when axis is AxisBoth.
func (ev *Events) Scale(factor float64, axis schema.Axis, opts ...TransformOption) (*Events, error) {
	fx, fy, err := axisFactors(factor, axis)
	if err != nil {
		return nil, err
	}
	return ev.mapAxes(opts,
		func(x float64) float64 { return x * fx },
		func(y float64) float64 { return y * fy }), nil
}

// Reflect mirrors event locations on the given axis.
func (ev *Events) Reflect(axis schema.Axis, opts ...TransformOption) (*Events, error) {
	switch axis {
	case schema.AxisX:
		return ev.mapAxes(opts, identity, func(y float64) float64 { return -y }), nil
	case schema.AxisY:
		return ev.mapAxes(opts, func(x float64) float64 { return -x }, identity), nil
	default:
		return nil, fmt.Errorf("%w: expected axis to be one of (x, y), got %q", ErrInvalidArgument, axis)
	}
}

// Rotate turns event locations counterclockwise by degrees about the coordinate origin.
// Only pairs whose x and y columns both exist are rotated. A location with one null side
// becomes null on both sides.
func (ev *Events) Rotate(degrees float64, opts ...TransformOption) *Events {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	rows := ev.Rows()
	for _, pair := range locationPairs {
		if !ev.HasColumn(pair[0]) || !ev.HasColumn(pair[1]) {
			continue
		}
		for i := range rows {
			xv, yv := rows[i].Fields[pair[0]], rows[i].Fields[pair[1]]
			if xv.IsNull() && yv.IsNull() {
				continue
			}
			x, y := xv.FloatOrNaN(), yv.FloatOrNaN()
			rows[i].Fields[pair[0]] = Num(x*cos - y*sin)
			rows[i].Fields[pair[1]] = Num(x*sin + y*cos)
		}
	}
	return ev.derive(rows, opts)
}

func identity(v float64) float64 { return v }
