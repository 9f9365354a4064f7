package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Condition is a (column, predicate) pair used by Events.Select.
type Condition struct {
	Column string
	match  func(Value) bool
	desc   string
}

// Matches reports whether v satisfies the predicate.
func (c Condition) Matches(v Value) bool {
	if c.match == nil {
		return false
	}
	return c.match(v)
}

// String implements fmt.Stringer.
func (c Condition) String() string {
	return c.Column + c.desc
}

// Equal matches values equal to v. Equal to the null value matches missing entries.
func Equal(column string, v Value) Condition {
	return Condition{Column: column, match: v.Equal, desc: fmt.Sprintf(" == %q", v)}
}

// Range matches numbers in the half-open interval [lo, hi).
func Range(column string, lo, hi float64) Condition {
	return Condition{
		Column: column,
		match: func(v Value) bool {
			f, ok := v.Float()
			return ok && f >= lo && f < hi
		},
		desc: fmt.Sprintf(" in [%g, %g)", lo, hi),
	}
}

// TimeRange matches timestamps in the half-open interval [from, to).
func TimeRange(column string, from, to time.Time) Condition {
	return Condition{
		Column: column,
		match: func(v Value) bool {
			t, ok := v.Timestamp()
			return ok && !t.Before(from) && t.Before(to)
		},
		desc: fmt.Sprintf(" in [%s, %s)", from.Format(time.RFC3339), to.Format(time.RFC3339)),
	}
}

// IsNull matches missing entries.
func IsNull(column string) Condition {
	return Condition{Column: column, match: Value.IsNull, desc: " is null"}
}

// ParseCondition parses "column=value", "column=lo:hi" or "column=null". A numeric range
// bound left empty is unbounded on that side.
func ParseCondition(expr string) (Condition, error) {
	column, raw, ok := strings.Cut(expr, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return Condition{}, fmt.Errorf("%w: condition %q must look like column=value", ErrInvalidArgument, expr)
	}
	if lo, hi, isRange := parseRange(raw); isRange {
		if lo >= hi {
			return Condition{}, fmt.Errorf("%w: empty range in condition %q", ErrInvalidArgument, expr)
		}
		return Range(column, lo, hi), nil
	}
	v := ParseValue(raw)
	if v.IsNull() {
		return IsNull(column), nil
	}
	return Equal(column, v), nil
}

func parseRange(raw string) (float64, float64, bool) {
	loText, hiText, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || strings.Contains(hiText, ":") {
		return 0, 0, false
	}
	lo, hi := math.Inf(-1), math.Inf(1)
	var err error
	if loText != "" {
		if lo, err = strconv.ParseFloat(loText, 64); err != nil {
			return 0, 0, false
		}
	}
	if hiText != "" {
		if hi, err = strconv.ParseFloat(hiText, 64); err != nil {
			return 0, 0, false
		}
	}
	return lo, hi, !math.IsNaN(lo) && !math.IsNaN(hi)
}
