package dto

import (
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/shopspring/decimal"
)

type RecipeLineInput struct {
	ComponentID string
	Quantity    int
	Optional    bool
	OptionGroup string
}

type CreateProductInput struct {
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Kind        model.ProductKind
	Recipe      []RecipeLineInput
}

// UpdateProductInput replaces the recipe only when Recipe is non-nil.
type UpdateProductInput struct {
	ID          string
	Code        string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	IsActive    bool
	Recipe      []RecipeLineInput
}
