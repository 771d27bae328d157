package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComposite(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	vodka := w.AddProduct("VODKA", "Vodka", model.KindBase, "0")
	orange := w.AddProduct("OJ", "Orange juice", model.KindBase, "0")
	cola := w.AddProduct("COLA", "Cola", model.KindBase, "0")

	p, err := w.Products.CreateProduct(ctx, &dto.CreateProductInput{
		Code:  "VODKA-MIX",
		Name:  "Vodka mix",
		Price: decimal.NewFromInt(70),
		Kind:  model.KindComposite,
		Recipe: []dto.RecipeLineInput{
			{ComponentID: vodka, Quantity: 1},
			{ComponentID: orange, Quantity: 3, Optional: true, OptionGroup: "mixer"},
			{ComponentID: cola, Quantity: 3, Optional: true, OptionGroup: "mixer"},
		},
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Len(t, p.Recipe, 3)

	view, err := w.Recipes.ResolveRecipe(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Len(t, view.Mandatory, 1)
	assert.Equal(t, "Vodka", view.Mandatory[0].Name)
	assert.Equal(t, []string{"mixer"}, view.GroupNames())
	assert.Len(t, view.OptionalGroups["mixer"], 2)

	got, err := w.Products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Recipe, 3)

	simple, err := w.Recipes.ResolveRecipe(ctx, vodka)
	require.NoError(t, err)
	assert.Nil(t, simple)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	gin := w.AddProduct("GIN", "Gin", model.KindBase, "0")
	combo := w.AddProduct("COMBO", "Combo", model.KindComposite, "10")

	cases := []struct {
		name string
		in   dto.CreateProductInput
		code string
	}{
		{"duplicate code", dto.CreateProductInput{Code: "GIN", Name: "Gin 2", Kind: model.KindBase}, apperr.CodeDuplicateCode},
		{"unknown kind", dto.CreateProductInput{Code: "X", Name: "X", Kind: "BUNDLE"}, apperr.CodeInvalidInput},
		{"negative price", dto.CreateProductInput{Code: "X", Name: "X", Kind: model.KindSimple, Price: decimal.NewFromInt(-1)}, apperr.CodeInvalidInput},
		{"composite without recipe", dto.CreateProductInput{Code: "X", Name: "X", Kind: model.KindComposite}, apperr.CodeInvalidInput},
		{"simple with recipe", dto.CreateProductInput{Code: "X", Name: "X", Kind: model.KindSimple,
			Recipe: []dto.RecipeLineInput{{ComponentID: gin, Quantity: 1}}}, apperr.CodeInvalidInput},
		{"nested composite", dto.CreateProductInput{Code: "X", Name: "X", Kind: model.KindComposite,
			Recipe: []dto.RecipeLineInput{{ComponentID: combo, Quantity: 1}}}, apperr.CodeInvalidInput},
		{"optional without group", dto.CreateProductInput{Code: "X", Name: "X", Kind: model.KindComposite,
			Recipe: []dto.RecipeLineInput{{ComponentID: gin, Quantity: 1, Optional: true}}}, apperr.CodeInvalidInput},
		{"missing component", dto.CreateProductInput{Code: "X", Name: "X", Kind: model.KindComposite,
			Recipe: []dto.RecipeLineInput{{ComponentID: "ghost", Quantity: 1}}}, apperr.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := w.Products.CreateProduct(ctx, &tc.in)
			assert.True(t, apperr.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestUpdateProductKeepsRecipe(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	gin := w.AddProduct("GIN", "Gin", model.KindBase, "0")
	p, err := w.Products.CreateProduct(ctx, &dto.CreateProductInput{
		Code: "GIN-SHOT", Name: "Gin shot", Kind: model.KindComposite, Price: decimal.NewFromInt(30),
		Recipe: []dto.RecipeLineInput{{ComponentID: gin, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := w.Products.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Gin shot (double)", Price: decimal.NewFromInt(50), IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "GIN-SHOT", updated.Code)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(50)))

	got, err := w.Products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Recipe, 1)

	_, err = w.Products.UpdateProduct(ctx, &dto.UpdateProductInput{ID: p.ID, Code: "GIN", IsActive: true})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateCode))
}

func TestListProductsFilters(t *testing.T) {
	w := bartest.New(true)
	w.AddProduct("BEER", "Beer", model.KindSimple, "8")
	w.AddProduct("GIN", "Gin", model.KindBase, "0")

	items, total, err := w.Products.ListProducts(context.Background(), &dto.ProductFilters{Kind: string(model.KindSimple)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Beer", items[0].Name)
}
