package dataio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/huangsam/touchline/core"
)

// ReadEventsJSON reads events from a JSON array of objects. The schema is the union of the
// object keys; nested objects become nested values.
func ReadEventsJSON(path string) (*core.Events, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []map[string]core.Value
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON array of event objects: %v", core.ErrSchema, path, err)
	}
	return core.FromRecords(records)
}

// WriteEventsJSON writes events as a JSON array of objects with null fields omitted.
func WriteEventsJSON(ev *core.Events, path string) error {
	records := make([]map[string]core.Value, 0, ev.Len())
	for _, e := range ev.Rows() {
		record := map[string]core.Value{
			string(core.ColEventID):   e.EID,
			string(core.ColGameclock): core.Num(e.Gameclock),
		}
		for k, v := range e.Fields {
			if !v.IsNull() {
				record[k] = v
			}
		}
		records = append(records, record)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
