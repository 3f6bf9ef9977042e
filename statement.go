package relic

import (
	"fmt"
	"strings"
	"time"
)

// Statement is a SQL text plus the ordered parameter list matching its `?`
// placeholders, ready for parameterized execution.
type Statement struct {
	Text   string
	Params []any
}

// Comparison operators accepted in select criteria. Matching is
// case-insensitive.
const (
	OpEQ      = "="
	OpNEQ     = "!="
	OpGT      = ">"
	OpLT      = "<"
	OpGTE     = ">="
	OpLTE     = "<="
	OpLike    = "LIKE"
	OpBetween = "BETWEEN"
	OpIn      = "IN"
)

// Criterion is one WHERE term of a criteria select: an entity attribute
// name, a comparison operator, and the comparison value. For OpBetween the
// value must be a []any holding exactly the lower and upper bound; for OpIn
// a non-empty []any; for every other operator a single scalar.
type Criterion struct {
	Attr  string
	Op    string
	Value any
}

// EQ returns an equality criterion.
func EQ(attr string, v any) Criterion { return Criterion{Attr: attr, Op: OpEQ, Value: v} }

// NEQ returns an inequality criterion.
func NEQ(attr string, v any) Criterion { return Criterion{Attr: attr, Op: OpNEQ, Value: v} }

// GT returns a greater-than criterion.
func GT(attr string, v any) Criterion { return Criterion{Attr: attr, Op: OpGT, Value: v} }

// LT returns a less-than criterion.
func LT(attr string, v any) Criterion { return Criterion{Attr: attr, Op: OpLT, Value: v} }

// GTE returns a greater-or-equal criterion.
func GTE(attr string, v any) Criterion { return Criterion{Attr: attr, Op: OpGTE, Value: v} }

// LTE returns a less-or-equal criterion.
func LTE(attr string, v any) Criterion { return Criterion{Attr: attr, Op: OpLTE, Value: v} }

// Like returns a LIKE pattern criterion.
func Like(attr string, pattern string) Criterion {
	return Criterion{Attr: attr, Op: OpLike, Value: pattern}
}

// Between returns an inclusive range criterion.
func Between(attr string, lo, hi any) Criterion {
	return Criterion{Attr: attr, Op: OpBetween, Value: []any{lo, hi}}
}

// In returns a set membership criterion.
func In(attr string, vs ...any) Criterion {
	return Criterion{Attr: attr, Op: OpIn, Value: vs}
}

// InsertStatement builds the INSERT statement for the element. The column
// list is the map's ForInsert view in rank order, with one parameter per
// column holding the element's current value.
func InsertStatement(e Element) (*Statement, error) {
	m := e.AttributeMap()
	cols := make([]string, 0, len(m.ForInsert()))
	params := make([]any, 0, len(m.ForInsert()))
	for _, am := range m.ForInsert() {
		v, err := attrValue(e, am)
		if err != nil {
			return nil, err
		}
		cols = append(cols, am.Column)
		params = append(params, v)
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(m.Table())
	b.WriteString(" ( ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" ) VALUES ( ")
	b.WriteString(strings.Join(placeholders(len(cols)), ", "))
	b.WriteString(" )")
	return &Statement{Text: b.String(), Params: params}, nil
}

// UpdateStatement builds the UPDATE statement for the element: a SET list
// over the map's ForUpdate view and a WHERE clause over its key columns,
// both in rank order.
func UpdateStatement(e Element) (*Statement, error) {
	m := e.AttributeMap()
	sets := make([]string, 0, len(m.ForUpdate()))
	params := make([]any, 0, len(m.ForUpdate())+len(m.Keys()))
	for _, am := range m.ForUpdate() {
		v, err := attrValue(e, am)
		if err != nil {
			return nil, err
		}
		sets = append(sets, am.Column+" = ?")
		params = append(params, v)
	}
	where, keyParams, err := keyWhere(e, m)
	if err != nil {
		return nil, err
	}
	text := "UPDATE " + m.Table() + " SET " + strings.Join(sets, ", ") + where
	return &Statement{Text: text, Params: append(params, keyParams...)}, nil
}

// DeleteStatement builds the DELETE statement for the element, identified
// by its key columns.
func DeleteStatement(e Element) (*Statement, error) {
	m := e.AttributeMap()
	where, params, err := keyWhere(e, m)
	if err != nil {
		return nil, err
	}
	return &Statement{Text: "DELETE FROM " + m.Table() + where, Params: params}, nil
}

// SelectByKeyStatement builds the SELECT statement returning the single row
// identified by the element's key columns.
func SelectByKeyStatement(e Element) (*Statement, error) {
	m := e.AttributeMap()
	where, params, err := keyWhere(e, m)
	if err != nil {
		return nil, err
	}
	return &Statement{Text: selectFrom(m) + where, Params: params}, nil
}

// SelectAllStatement builds the SELECT statement returning every row of the
// element's table, ordered ascending by its key columns.
func SelectAllStatement(e Element) *Statement {
	m := e.AttributeMap()
	return &Statement{Text: selectFrom(m) + orderByKeys(m)}
}

// SelectWhereStatement builds a SELECT statement whose WHERE clause is the
// conjunction of the given criteria, ordered ascending by key columns. Each
// criterion attribute must resolve to a mapping, and each operator must be
// in the supported set.
func SelectWhereStatement(e Element, criteria []Criterion) (*Statement, error) {
	m := e.AttributeMap()
	terms := make([]string, 0, len(criteria))
	var params []any
	for _, c := range criteria {
		am, ok := m.Lookup(c.Attr)
		if !ok {
			return nil, &UnknownAttributeError{Table: m.Table(), Attr: c.Attr}
		}
		op := strings.ToUpper(strings.TrimSpace(c.Op))
		switch op {
		case OpEQ, OpNEQ, OpGT, OpLT, OpGTE, OpLTE, OpLike:
			terms = append(terms, am.Column+" "+op+" ?")
			params = append(params, c.Value)
		case OpBetween:
			vs, ok := c.Value.([]any)
			if !ok || len(vs) != 2 {
				return nil, fmt.Errorf("relic: BETWEEN on %q requires exactly two values", c.Attr)
			}
			terms = append(terms, am.Column+" BETWEEN ? AND ?")
			params = append(params, vs[0], vs[1])
		case OpIn:
			vs, ok := c.Value.([]any)
			if !ok || len(vs) == 0 {
				return nil, fmt.Errorf("relic: IN on %q requires a non-empty value list", c.Attr)
			}
			terms = append(terms, am.Column+" IN ( "+strings.Join(placeholders(len(vs)), ", ")+" )")
			params = append(params, vs...)
		default:
			return nil, &InvalidOperatorError{Op: c.Op}
		}
	}
	text := selectFrom(m)
	if len(terms) > 0 {
		text += " WHERE " + strings.Join(terms, " AND ")
	}
	text += orderByKeys(m)
	return &Statement{Text: text, Params: params}, nil
}

// selectFrom returns the SELECT clause over the map's ForSelect columns
// plus the FROM clause.
func selectFrom(m *Map) string {
	cols := make([]string, 0, len(m.ForSelect()))
	for _, am := range m.ForSelect() {
		cols = append(cols, am.Column)
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + m.Table()
}

// keyWhere returns the WHERE clause conjunction over the key columns in
// rank order, with the element's current key values as parameters.
func keyWhere(e Element, m *Map) (string, []any, error) {
	terms := make([]string, 0, len(m.Keys()))
	params := make([]any, 0, len(m.Keys()))
	for _, am := range m.Keys() {
		v, err := attrValue(e, am)
		if err != nil {
			return "", nil, err
		}
		terms = append(terms, am.Column+" = ?")
		params = append(params, v)
	}
	return " WHERE " + strings.Join(terms, " AND "), params, nil
}

// orderByKeys returns the ORDER BY clause over the key columns in rank
// order. The direction keyword is omitted; ascending is the engine default.
func orderByKeys(m *Map) string {
	if len(m.Keys()) == 0 {
		return ""
	}
	cols := make([]string, 0, len(m.Keys()))
	for _, am := range m.Keys() {
		cols = append(cols, am.Column)
	}
	return " ORDER BY " + strings.Join(cols, ", ")
}

func attrValue(e Element, am Mapping) (any, error) {
	acc, ok := e.Accessors()[am.Attr]
	if !ok {
		return nil, &UnknownAttributeError{Table: e.AttributeMap().Table(), Attr: am.Attr}
	}
	v := acc.Get()
	// Timestamps are stored textually in the fixed-point format LoadRow
	// parses, which also keeps them comparable in WHERE clauses.
	if am.Type == TypeTime {
		if t, ok := v.(time.Time); ok {
			return t.Format(TimeLayout), nil
		}
	}
	return v, nil
}

func placeholders(n int) []string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = "?"
	}
	return ps
}
