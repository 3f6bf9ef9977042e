package relic

import "fmt"

// Accessor is a getter/setter pair for one entity attribute. Accessor
// tables replace reflection-based field access: each entity type builds its
// table once and the statement builders and row loader reuse it.
type Accessor struct {
	Get func() any
	Set func(any) error
}

// Accessors maps attribute names to their accessors.
type Accessors map[string]Accessor

// Field returns an Accessor bound to the given field pointer. The setter
// accepts the field's exact type (or nil, which resets the field to its
// zero value); row loading converts raw column values to the canonical
// representation of the attribute's type tag before calling it.
func Field[T any](p *T) Accessor {
	return Accessor{
		Get: func() any { return *p },
		Set: func(v any) error {
			if v == nil {
				var zero T
				*p = zero
				return nil
			}
			t, ok := v.(T)
			if !ok {
				return fmt.Errorf("relic: cannot assign %T to field of type %T", v, *p)
			}
			*p = t
			return nil
		},
	}
}

// Element is the contract a storable entity type implements. An element
// owns its current attribute values; repositories never retain elements,
// they only route them through SQL.
type Element interface {
	// AttributeMap returns the per-type attribute map. Implementations
	// return a shared package-level *Map; the map is never mutated.
	AttributeMap() *Map

	// Accessors returns the accessor table for this instance's fields.
	Accessors() Accessors
}

// LoadRow assigns a raw row of column values to the element's attributes.
// The row is indexed by each mapping's SelectRank, never by list position;
// mappings with a negative rank carry no row value and are skipped. Every
// value is coerced to the mapping's type tag via Convert before assignment.
func LoadRow(e Element, row []any) error {
	m := e.AttributeMap()
	accs := e.Accessors()
	for _, am := range m.Mappings() {
		if am.SelectRank < 0 {
			continue
		}
		if am.SelectRank >= len(row) {
			return fmt.Errorf("relic: table %q: row has no value at rank %d for attribute %q", m.Table(), am.SelectRank, am.Attr)
		}
		acc, ok := accs[am.Attr]
		if !ok {
			return &UnknownAttributeError{Table: m.Table(), Attr: am.Attr}
		}
		v, err := Convert(row[am.SelectRank], am.Type)
		if err != nil {
			if ce, isConv := err.(*ConversionError); isConv {
				ce.Attr = am.Attr
			}
			return err
		}
		if err := acc.Set(v); err != nil {
			return err
		}
	}
	return nil
}
