package relic_test

import (
	"github.com/wpachlinger/relic"
)

// Person maps to a table with a plain (non-auto) string key.
type Person struct {
	Name     string
	Age      int64
	Weight   float64
	EyeColor string
}

var personMap = relic.MustMap("person",
	relic.Mapping{SelectRank: 0, Attr: "name", Column: "name", Type: relic.TypeString, Key: relic.KeyPrimary, InInsert: true, InUpdate: true},
	relic.Mapping{SelectRank: 1, Attr: "age", Column: "age", Type: relic.TypeInt, InInsert: true, InUpdate: true},
	relic.Mapping{SelectRank: 2, Attr: "weight", Column: "weight", Type: relic.TypeFloat, InInsert: true, InUpdate: true},
	relic.Mapping{SelectRank: 3, Attr: "eye_color", Column: "eye_color", Type: relic.TypeString, InInsert: true, InUpdate: true},
)

func (p *Person) AttributeMap() *relic.Map { return personMap }

func (p *Person) Accessors() relic.Accessors {
	return relic.Accessors{
		"name":      relic.Field(&p.Name),
		"age":       relic.Field(&p.Age),
		"weight":    relic.Field(&p.Weight),
		"eye_color": relic.Field(&p.EyeColor),
	}
}

func john() *Person {
	return &Person{Name: "John", Age: 35, Weight: 84.6, EyeColor: "brown"}
}

// Product maps to a table with an auto-increment key.
type Product struct {
	ID       int64
	EAN      string
	Name     string
	Category string
}

var productMap = relic.MustMap("product",
	relic.Mapping{SelectRank: 0, Attr: "id", Column: "id", Type: relic.TypeInt, Key: relic.KeyAuto, InInsert: true, InUpdate: true},
	relic.Mapping{SelectRank: 1, Attr: "ean", Column: "ean", Type: relic.TypeString, InInsert: true, InUpdate: true},
	relic.Mapping{SelectRank: 2, Attr: "name", Column: "name", Type: relic.TypeString, InInsert: true, InUpdate: true},
	relic.Mapping{SelectRank: 3, Attr: "category", Column: "category", Type: relic.TypeString, InInsert: true, InUpdate: true},
)

func (p *Product) AttributeMap() *relic.Map { return productMap }

func (p *Product) Accessors() relic.Accessors {
	return relic.Accessors{
		"id":       relic.Field(&p.ID),
		"ean":      relic.Field(&p.EAN),
		"name":     relic.Field(&p.Name),
		"category": relic.Field(&p.Category),
	}
}
