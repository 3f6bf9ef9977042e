package relic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type is the semantic type tag of an entity attribute. It drives the
// coercion of raw column values during row loading.
type Type int

const (
	TypeInvalid Type = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
	TypeBytes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeBool:    "bool",
	TypeTime:    "time",
	TypeBytes:   "bytes",
}

// String returns the type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Timestamp layouts for textual time columns. TimeLayout is tried first;
// values without a fractional part fall back to the seconds-only form.
const (
	TimeLayout       = "2006-01-02 15:04:05.999999"
	timeLayoutNoFrac = "2006-01-02 15:04:05"
)

// Convert coerces a raw column value to the canonical Go representation of
// the given type tag: string, int64, float64, bool, time.Time or []byte.
// A value that already has the target representation passes through
// unchanged; nil stays nil. Unsupported source/target pairs fail with a
// *ConversionError rather than producing silently wrong data.
func Convert(v any, t Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeString:
		switch v := v.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
	case TypeInt:
		switch v := v.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n, nil
			}
		}
	case TypeFloat:
		switch v := v.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, nil
			}
		}
	case TypeBool:
		switch v := v.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case int:
			return v != 0, nil
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b, nil
			}
		}
	case TypeTime:
		switch v := v.(type) {
		case time.Time:
			return v, nil
		case string:
			return parseTimestamp(v)
		case []byte:
			return parseTimestamp(string(v))
		}
	case TypeBytes:
		switch v := v.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
	}
	return nil, &ConversionError{Value: v, Type: t}
}

func parseTimestamp(s string) (any, error) {
	layout := timeLayoutNoFrac
	if strings.Contains(s, ".") {
		layout = TimeLayout
	}
	ts, err := time.Parse(layout, s)
	if err != nil {
		return nil, &ConversionError{Value: s, Type: TypeTime, cause: err}
	}
	return ts, nil
}
