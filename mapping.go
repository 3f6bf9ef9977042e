package relic

import (
	"fmt"
	"sort"
)

// KeyRole describes how a column participates in the primary key of its
// table.
type KeyRole int

const (
	// KeyNone marks a regular, non-key column.
	KeyNone KeyRole = iota
	// KeyPrimary marks a column that is part of the primary key.
	KeyPrimary
	// KeyAuto marks an auto-increment primary key column. Auto-increment
	// columns are never written by INSERT or UPDATE statements; the engine
	// generates their values.
	KeyAuto
)

// String returns the role name.
func (k KeyRole) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyPrimary:
		return "primary"
	case KeyAuto:
		return "auto"
	default:
		return fmt.Sprintf("KeyRole(%d)", int(k))
	}
}

// Mapping links one entity attribute to one table column. Values are
// immutable after construction of their Map.
type Mapping struct {
	// SelectRank is the position of the column in the SELECT list.
	// A negative rank excludes the column from SELECT statements.
	SelectRank int
	// Attr is the entity-side attribute name, as used in accessor tables
	// and select criteria.
	Attr string
	// Type is the semantic type used when loading raw rows back into
	// entity attributes.
	Type Type
	// Column is the database column name.
	Column string
	// Key is the column's role in the primary key.
	Key KeyRole
	// InInsert and InUpdate declare whether the column appears in INSERT
	// and UPDATE column lists. Auto-increment columns are excluded from
	// both regardless of these flags, and key columns are excluded from
	// UPDATE SET lists.
	InInsert bool
	InUpdate bool
}

// IsKey reports whether the column is part of the primary key.
func (m Mapping) IsKey() bool { return m.Key != KeyNone }

// IsAuto reports whether the column is an auto-increment key.
func (m Mapping) IsAuto() bool { return m.Key == KeyAuto }

func (m Mapping) inSelect() bool { return m.SelectRank >= 0 }

func (m Mapping) inInsert() bool { return m.InInsert && !m.IsAuto() }

func (m Mapping) inUpdate() bool { return m.InUpdate && !m.IsAuto() && !m.IsKey() }

// Map is the ordered attribute map of one entity type. It is built once per
// type, typically assigned to a package-level variable, and referenced by
// every instance. A Map is immutable and safe for concurrent use.
type Map struct {
	table     string
	mappings  []Mapping
	forSelect []Mapping
	forInsert []Mapping
	forUpdate []Mapping
	keys      []Mapping
	auto      int // index into mappings, or -1
}

// NewMap builds the attribute map for table with the given mappings. The
// mappings are stable-sorted ascending by SelectRank. At most one mapping
// may declare KeyAuto; a second one is a construction error.
func NewMap(table string, mappings ...Mapping) (*Map, error) {
	m := &Map{
		table:    table,
		mappings: make([]Mapping, len(mappings)),
		auto:     -1,
	}
	copy(m.mappings, mappings)
	sort.SliceStable(m.mappings, func(i, j int) bool {
		return m.mappings[i].SelectRank < m.mappings[j].SelectRank
	})
	for i, am := range m.mappings {
		if am.IsAuto() {
			if m.auto >= 0 {
				return nil, fmt.Errorf("relic: table %q declares more than one auto-increment key (%q, %q)",
					table, m.mappings[m.auto].Column, am.Column)
			}
			m.auto = i
		}
		if am.inSelect() {
			m.forSelect = append(m.forSelect, am)
		}
		if am.inInsert() {
			m.forInsert = append(m.forInsert, am)
		}
		if am.inUpdate() {
			m.forUpdate = append(m.forUpdate, am)
		}
		if am.IsKey() {
			m.keys = append(m.keys, am)
		}
	}
	return m, nil
}

// MustMap is like NewMap but panics on error. It is intended for
// package-level attribute map variables.
func MustMap(table string, mappings ...Mapping) *Map {
	m, err := NewMap(table, mappings...)
	if err != nil {
		panic(err)
	}
	return m
}

// Table returns the database table name.
func (m *Map) Table() string { return m.table }

// Mappings returns the full mapping list in ascending SelectRank order.
// The returned slice must not be modified.
func (m *Map) Mappings() []Mapping { return m.mappings }

// ForSelect returns the mappings included in SELECT lists (SelectRank >= 0),
// in rank order.
func (m *Map) ForSelect() []Mapping { return m.forSelect }

// ForInsert returns the mappings included in INSERT column lists, in rank
// order. Auto-increment columns are never included.
func (m *Map) ForInsert() []Mapping { return m.forInsert }

// ForUpdate returns the mappings included in UPDATE SET lists, in rank
// order. Key and auto-increment columns are never included.
func (m *Map) ForUpdate() []Mapping { return m.forUpdate }

// Keys returns the primary key mappings in rank order.
func (m *Map) Keys() []Mapping { return m.keys }

// AutoKey returns the auto-increment key mapping, if one is declared.
func (m *Map) AutoKey() (Mapping, bool) {
	if m.auto < 0 {
		return Mapping{}, false
	}
	return m.mappings[m.auto], true
}

// Lookup returns the mapping for the given attribute name.
func (m *Map) Lookup(attr string) (Mapping, bool) {
	for _, am := range m.mappings {
		if am.Attr == attr {
			return am, true
		}
	}
	return Mapping{}, false
}

// ExpandRow converts values scanned in ForSelect order into a row indexable
// by SelectRank, as expected by LoadRow. Ranks may be sparse; gaps are left
// nil.
func (m *Map) ExpandRow(values []any) ([]any, error) {
	sel := m.forSelect
	if len(values) != len(sel) {
		return nil, fmt.Errorf("relic: table %q: %d scanned values for %d select columns", m.table, len(values), len(sel))
	}
	width := 0
	for _, am := range sel {
		if am.SelectRank >= width {
			width = am.SelectRank + 1
		}
	}
	row := make([]any, width)
	for i, am := range sel {
		row[am.SelectRank] = values[i]
	}
	return row, nil
}
