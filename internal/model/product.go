package model

import "github.com/shopspring/decimal"

// ProductKind discriminates catalog entries. SIMPLE and BASE carry their own
// inventory; COMPOSITE stock is derived from its recipe.
type ProductKind string

const (
	KindSimple    ProductKind = "SIMPLE"
	KindBase      ProductKind = "BASE"
	KindComposite ProductKind = "COMPOSITE"
)

func (k ProductKind) Valid() bool {
	switch k {
	case KindSimple, KindBase, KindComposite:
		return true
	}
	return false
}

// Sellable reports whether the kind may appear on an order line.
func (k ProductKind) Sellable() bool {
	return k == KindSimple || k == KindComposite
}

// Stocked reports whether the kind has inventory records of its own.
func (k ProductKind) Stocked() bool {
	return k == KindSimple || k == KindBase
}

type Product struct {
	BaseModel
	Code        string          `db:"code" json:"code"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Category    string          `db:"category" json:"category"`
	Kind        ProductKind     `db:"kind" json:"kind"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Recipe      []RecipeLine    `db:"-" json:"recipe,omitempty"`
}
