package config

import (
	"fmt"
	"strconv"
)

// Dict is a typed validator over a settings dictionary. Mandatory lookups
// fail with a descriptive error when the item is missing or has the wrong
// type; optional lookups fall back to a default and record it in the
// dictionary.
type Dict struct {
	m map[string]any
}

// NewDict wraps the given settings map.
func NewDict(m map[string]any) *Dict {
	if m == nil {
		m = make(map[string]any)
	}
	return &Dict{m: m}
}

// Contains reports whether the item is present.
func (d *Dict) Contains(name string) bool {
	_, ok := d.m[name]
	return ok
}

// Get returns the raw value of an item.
func (d *Dict) Get(name string) (any, bool) {
	v, ok := d.m[name]
	return v, ok
}

// MandatoryInt returns the named integer setting. Bounds, when given, are
// checked as [min] or [min, max].
func (d *Dict) MandatoryInt(name string, bounds ...int) (int, error) {
	raw, ok := d.m[name]
	if !ok {
		return 0, fmt.Errorf("config: missing mandatory parameter %q", name)
	}
	n, ok := intValue(raw)
	if !ok {
		return 0, fmt.Errorf("config: parameter %q: expected int, got %T", name, raw)
	}
	if len(bounds) > 0 && n < bounds[0] {
		return 0, fmt.Errorf("config: parameter %q: value %d less than minimum %d", name, n, bounds[0])
	}
	if len(bounds) > 1 && n > bounds[1] {
		return 0, fmt.Errorf("config: parameter %q: value %d greater than maximum %d", name, n, bounds[1])
	}
	d.m[name] = n
	return n, nil
}

// OptionalInt returns the named integer setting, storing and returning the
// default when it is absent or not an integer.
func (d *Dict) OptionalInt(name string, def int) int {
	if raw, ok := d.m[name]; ok {
		if n, ok := intValue(raw); ok {
			d.m[name] = n
			return n
		}
	}
	d.m[name] = def
	return def
}

// MandatoryString returns the named string setting. When an allowed set is
// given, the value must be one of its members.
func (d *Dict) MandatoryString(name string, allowed ...string) (string, error) {
	raw, ok := d.m[name]
	if !ok {
		return "", fmt.Errorf("config: missing mandatory parameter %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("config: parameter %q: expected string, got %T", name, raw)
	}
	if len(allowed) > 0 {
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return "", fmt.Errorf("config: parameter %q: value %q not in %v", name, s, allowed)
	}
	return s, nil
}

// OptionalString returns the named string setting, storing and returning
// the default when it is absent or not a string.
func (d *Dict) OptionalString(name, def string) string {
	if raw, ok := d.m[name]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	d.m[name] = def
	return def
}

// MandatoryDict returns the named nested settings dictionary.
func (d *Dict) MandatoryDict(name string) (*Dict, error) {
	raw, ok := d.m[name]
	if !ok {
		return nil, fmt.Errorf("config: missing mandatory parameter %q", name)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config: parameter %q: expected object, got %T", name, raw)
	}
	return NewDict(m), nil
}

// MandatoryList returns the named list setting.
func (d *Dict) MandatoryList(name string) ([]any, error) {
	raw, ok := d.m[name]
	if !ok {
		return nil, fmt.Errorf("config: missing mandatory parameter %q", name)
	}
	l, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config: parameter %q: expected list, got %T", name, raw)
	}
	return l, nil
}

// intValue converts raw setting values to int. JSON decodes numbers as
// float64; numeric strings appear in hand-edited settings files and are
// accepted too.
func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}
