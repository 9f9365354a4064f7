package parquet

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/touchline/core"
)

// XYRow is one entity position in one frame. Missing coordinates are null.
type XYRow struct {
	Frame  int32    `parquet:"frame,snappy"`
	Entity int32    `parquet:"entity,snappy"`
	X      *float64 `parquet:"x,optional,snappy"`
	Y      *float64 `parquet:"y,optional,snappy"`
}

// EventRow is one event. Frequently used protected columns are typed; every other
// column is kept in Fields as a JSON object.
type EventRow struct {
	EID        string   `parquet:"eID,snappy"`
	Gameclock  float64  `parquet:"gameclock,snappy"`
	Frameclock *float64 `parquet:"frameclock,optional,snappy"`
	TeamID     *string  `parquet:"tID,optional,snappy"`
	PlayerID   *string  `parquet:"pID,optional,snappy"`
	Outcome    *float64 `parquet:"outcome,optional,snappy"`
	AtX        *float64 `parquet:"at_x,optional,snappy"`
	AtY        *float64 `parquet:"at_y,optional,snappy"`
	ToX        *float64 `parquet:"to_x,optional,snappy"`
	ToY        *float64 `parquet:"to_y,optional,snappy"`
	Fields     *string  `parquet:"fields,optional,snappy"`
}

// PropertyRow is one value of a team or player property. Team properties use entity 0.
type PropertyRow struct {
	Name   string   `parquet:"name,snappy"`
	Frame  int32    `parquet:"frame,snappy"`
	Entity int32    `parquet:"entity,snappy"`
	Value  *float64 `parquet:"value,optional,snappy"`
}

func optionalFloat(v float64) *float64 {
	if core.IsMissing(v) {
		return nil
	}
	return &v
}

func floatOrNaN(p *float64) float64 {
	if p == nil {
		return core.NaN
	}
	return *p
}

// XYRows flattens an XY container into long rows, frame-major.
func XYRows(xy *core.XY) []XYRow {
	raw := xy.Raw()
	rows := make([]XYRow, 0, xy.Len()*xy.N())
	for t, frame := range raw {
		for e := range xy.N() {
			rows = append(rows, XYRow{
				Frame:  int32(t),
				Entity: int32(e),
				X:      optionalFloat(frame[2*e]),
				Y:      optionalFloat(frame[2*e+1]),
			})
		}
	}
	return rows
}

// XYFromRows rebuilds an XY container from long rows in any order. Frames and entities
// without a row are missing.
func XYFromRows(rows []XYRow, framerate float64, opts ...core.XYOption) (*core.XY, error) {
	frames, entities := 0, 0
	for _, r := range rows {
		if r.Frame < 0 || r.Entity < 0 {
			return nil, fmt.Errorf("%w: negative frame or entity in row %+v", core.ErrShape, r)
		}
		frames = max(frames, int(r.Frame)+1)
		entities = max(entities, int(r.Entity)+1)
	}
	cols := 2 * entities
	data := make([]float64, frames*cols)
	for i := range data {
		data[i] = core.NaN
	}
	for _, r := range rows {
		at := int(r.Frame)*cols + 2*int(r.Entity)
		data[at] = floatOrNaN(r.X)
		data[at+1] = floatOrNaN(r.Y)
	}
	return core.NewXYFromFlat(data, cols, framerate, opts...)
}

// WriteXYParquet writes an XY container as long rows.
func WriteXYParquet(xy *core.XY, outputPath string) error {
	return writeRows(XYRows(xy), outputPath)
}

// ReadXYParquet reads long rows written by WriteXYParquet.
func ReadXYParquet(inputPath string, framerate float64, opts ...core.XYOption) (*core.XY, error) {
	rows, err := readRows[XYRow](inputPath)
	if err != nil {
		return nil, err
	}
	return XYFromRows(rows, framerate, opts...)
}

// typedEventColumns are the columns EventRow stores outside Fields.
var typedEventColumns = []core.Column{
	core.ColFrameclock, core.ColTeamID, core.ColPlayerID, core.ColOutcome,
	core.ColAtX, core.ColAtY, core.ColToX, core.ColToY,
}

// EventRows converts an Events container into Parquet rows.
func EventRows(ev *core.Events) ([]EventRow, error) {
	rows := make([]EventRow, 0, ev.Len())
	for _, e := range ev.Rows() {
		row := EventRow{
			EID:        e.EID.String(),
			Gameclock:  e.Gameclock,
			Frameclock: optionalFloat(e.Get(string(core.ColFrameclock)).FloatOrNaN()),
			Outcome:    optionalFloat(e.Get(string(core.ColOutcome)).FloatOrNaN()),
			AtX:        optionalFloat(e.Get(string(core.ColAtX)).FloatOrNaN()),
			AtY:        optionalFloat(e.Get(string(core.ColAtY)).FloatOrNaN()),
			ToX:        optionalFloat(e.Get(string(core.ColToX)).FloatOrNaN()),
			ToY:        optionalFloat(e.Get(string(core.ColToY)).FloatOrNaN()),
		}
		if v := e.Get(string(core.ColTeamID)); !v.IsNull() {
			s := v.String()
			row.TeamID = &s
		}
		if v := e.Get(string(core.ColPlayerID)); !v.IsNull() {
			s := v.String()
			row.PlayerID = &s
		}

		extra := maps.Clone(e.Fields)
		for _, c := range typedEventColumns {
			delete(extra, string(c))
		}
		maps.DeleteFunc(extra, func(_ string, v core.Value) bool { return v.IsNull() })
		if len(extra) > 0 {
			data, err := json.Marshal(extra)
			if err != nil {
				return nil, fmt.Errorf("failed to encode fields of event %s: %w", e.EID, err)
			}
			s := string(data)
			row.Fields = &s
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EventsFromRows rebuilds an Events container. Columns are eID, gameclock, then every other
// column that holds at least one value, in first-seen order.
func EventsFromRows(rows []EventRow) (*core.Events, error) {
	columns := []string{string(core.ColEventID), string(core.ColGameclock)}
	seen := map[string]struct{}{}
	addColumn := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}

	records := make([]map[string]core.Value, 0, len(rows))
	for i, r := range rows {
		record := map[string]core.Value{
			string(core.ColEventID):   core.ParseValue(r.EID),
			string(core.ColGameclock): core.Num(r.Gameclock),
		}
		set := func(c core.Column, v core.Value) {
			if !v.IsNull() {
				addColumn(string(c))
				record[string(c)] = v
			}
		}
		set(core.ColFrameclock, core.Num(floatOrNaN(r.Frameclock)))
		if r.TeamID != nil {
			set(core.ColTeamID, core.ParseValue(*r.TeamID))
		}
		if r.PlayerID != nil {
			set(core.ColPlayerID, core.ParseValue(*r.PlayerID))
		}
		set(core.ColOutcome, core.Num(floatOrNaN(r.Outcome)))
		set(core.ColAtX, core.Num(floatOrNaN(r.AtX)))
		set(core.ColAtY, core.Num(floatOrNaN(r.AtY)))
		set(core.ColToX, core.Num(floatOrNaN(r.ToX)))
		set(core.ColToY, core.Num(floatOrNaN(r.ToY)))

		if r.Fields != nil {
			var extra map[string]core.Value
			if err := json.Unmarshal([]byte(*r.Fields), &extra); err != nil {
				return nil, fmt.Errorf("failed to decode fields of row %d: %w", i, err)
			}
			for _, name := range slices.Sorted(maps.Keys(extra)) {
				set(core.Column(name), extra[name])
			}
		}
		records = append(records, record)
	}
	return core.NewEvents(columns, records)
}

// WriteEventsParquet writes an Events container to a Parquet file.
func WriteEventsParquet(ev *core.Events, outputPath string) error {
	rows, err := EventRows(ev)
	if err != nil {
		return err
	}
	return writeRows(rows, outputPath)
}

// ReadEventsParquet reads an Events container written by WriteEventsParquet.
func ReadEventsParquet(inputPath string) (*core.Events, error) {
	rows, err := readRows[EventRow](inputPath)
	if err != nil {
		return nil, err
	}
	return EventsFromRows(rows)
}

// PlayerPropertyRows flattens a PlayerProperty into long rows.
func PlayerPropertyRows(p *core.PlayerProperty) []PropertyRow {
	rows := make([]PropertyRow, 0, p.Len()*p.N())
	for t, frame := range p.Raw() {
		for e, v := range frame {
			rows = append(rows, PropertyRow{Name: p.Name(), Frame: int32(t), Entity: int32(e), Value: optionalFloat(v)})
		}
	}
	return rows
}

// TeamPropertyRows flattens a TeamProperty into long rows with entity 0.
func TeamPropertyRows(p *core.TeamProperty) []PropertyRow {
	values := p.Values()
	rows := make([]PropertyRow, len(values))
	for t, v := range values {
		rows[t] = PropertyRow{Name: p.Name(), Frame: int32(t), Value: optionalFloat(v)}
	}
	return rows
}

// WritePropertiesParquet writes property rows, possibly from several properties, to one file.
func WritePropertiesParquet(rows []PropertyRow, outputPath string) error {
	return writeRows(rows, outputPath)
}

// ReadPropertiesParquet reads property rows.
func ReadPropertiesParquet(inputPath string) ([]PropertyRow, error) {
	return readRows[PropertyRow](inputPath)
}
