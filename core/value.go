package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValueKind enumerates the kinds of values an event field can hold.
type ValueKind uint8

// Value kinds.
const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindTime
	KindNested
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindNested:
		return "nested"
	default:
		return "null"
	}
}

// Value is a single event field. The zero Value is null.
type Value struct {
	kind   ValueKind
	num    float64
	str    string
	tm     time.Time
	nested map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Num wraps a number. NaN is normalized to null.
func Num(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{kind: KindNumber, num: v}
}

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Time wraps a timestamp.
func Time(t time.Time) Value { return Value{kind: KindTime, tm: t} }

// Nested wraps a qualifier structure. The map is copied.
func Nested(m map[string]Value) Value {
	return Value{kind: KindNested, nested: maps.Clone(m)}
}

// Kind reports the kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the number held by v.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// FloatOrNaN returns the number held by v, or NaN for every other kind.
func (v Value) FloatOrNaN() float64 {
	if v.kind != KindNumber {
		return math.NaN()
	}
	return v.num
}

// Text returns the string held by v.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// Timestamp returns the time held by v.
func (v Value) Timestamp() (time.Time, bool) {
	return v.tm, v.kind == KindTime
}

// Fields returns a copy of the nested structure held by v.
func (v Value) Fields() (map[string]Value, bool) {
	return maps.Clone(v.nested), v.kind == KindNested
}

// Equal reports whether two values have the same kind and content. Two nulls are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindTime:
		return v.tm.Equal(other.tm)
	case KindNested:
		return maps.EqualFunc(v.nested, other.nested, Value.Equal)
	default:
		return true
	}
}

// String renders the value for display and for text-based interchange.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindTime:
		return v.tm.Format(time.RFC3339Nano)
	case KindNested:
		keys := slices.Sorted(maps.Keys(v.nested))
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s:%s", k, v.nested[k]))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return ""
	}
}

// ParseValue infers a value from text: empty, "NaN", "null" and "None" are null, numbers
// become numbers, RFC 3339 strings become timestamps, anything else stays a string.
func ParseValue(s string) Value {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "", "nan", "null", "none":
		return Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Num(f)
	}
	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return Time(t)
	}
	return Str(s)
}

// MarshalJSON encodes numbers and strings natively, timestamps as RFC 3339 strings,
// nested values as objects and null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindTime:
		return json.Marshal(v.tm.Format(time.RFC3339Nano))
	case KindNested:
		return json.Marshal(v.nested)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON scalar or object. Booleans become 1 and 0, strings in
// RFC 3339 form become timestamps and arrays are kept as their raw text.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	switch trimmed[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Num(0)
		if b {
			*v = Num(1)
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			*v = Time(t)
		} else {
			*v = Str(s)
		}
	case '{':
		var m map[string]Value
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		*v = Nested(m)
	case '[':
		*v = Str(string(trimmed))
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		*v = Num(f)
	}
	return nil
}
