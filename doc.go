// Package relic is a minimal metadata-driven object-relational mapper for
// single-table entities stored in an embedded SQLite database.
//
// An entity type declares a static attribute [Map]: one [Mapping] per
// column, carrying the column name, the entity attribute name, a semantic
// [Type] tag, the key role, and the insert/update inclusion flags. From that
// map, the statement builders derive parameterized INSERT, UPDATE, DELETE
// and SELECT statements:
//
//	stmt, err := relic.InsertStatement(person)
//	// stmt.Text   == "INSERT INTO person ( name, age ) VALUES ( ?, ? )"
//	// stmt.Params == []any{"John", int64(35)}
//
// The builders never touch a database connection; execution is the job of
// the repo package, which routes statements through a dialect.Driver and
// reconstructs entities from raw rows via [LoadRow].
//
// # Entity contract
//
// A storable type implements [Element]: it exposes its attribute map and an
// accessor table mapping attribute names to getter/setter closures. The
// accessor table replaces reflection; it is built once per type and shared
// by all instances:
//
//	type Person struct {
//		Name string
//		Age  int64
//	}
//
//	var personMap = relic.MustMap("person",
//		relic.Mapping{SelectRank: 0, Attr: "name", Column: "name", Type: relic.TypeString, Key: relic.KeyPrimary, InInsert: true},
//		relic.Mapping{SelectRank: 1, Attr: "age", Column: "age", Type: relic.TypeInt, InInsert: true, InUpdate: true},
//	)
//
//	func (p *Person) AttributeMap() *relic.Map { return personMap }
//	func (p *Person) Accessors() relic.Accessors {
//		return relic.Accessors{
//			"name": relic.Field(&p.Name),
//			"age":  relic.Field(&p.Age),
//		}
//	}
//
// # Concurrency
//
// Statement building is pure and safe for concurrent use. A repository and
// its underlying connection are not; callers must serialize access.
package relic
