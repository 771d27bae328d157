package handler

import (
	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
)

// toRecipeInput keeps nil as nil so updates can leave the recipe untouched.
func toRecipeInput(lines []barposv1.RecipeLine) []dto.RecipeLineInput {
	if lines == nil {
		return nil
	}
	out := make([]dto.RecipeLineInput, len(lines))
	for i, l := range lines {
		out[i] = dto.RecipeLineInput{
			ComponentID: l.ComponentID,
			Quantity:    int(l.Quantity),
			Optional:    l.Optional,
			OptionGroup: l.OptionGroup,
		}
	}
	return out
}

func toProduct(p *model.Product) *barposv1.Product {
	out := &barposv1.Product{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Price:     p.Price.StringFixed(2),
		Category:  p.Category,
		Kind:      string(p.Kind),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	for _, l := range p.Recipe {
		out.Recipe = append(out.Recipe, barposv1.RecipeLine{
			ComponentID:   l.ComponentID,
			ComponentCode: l.ComponentCode,
			ComponentName: l.ComponentName,
			Quantity:      int32(l.Quantity),
			Optional:      l.Optional,
			OptionGroup:   l.Group(),
		})
	}
	return out
}

func toRecipe(v *recipe.View) *barposv1.Recipe {
	if v == nil {
		return nil
	}
	out := &barposv1.Recipe{
		ProductID:      v.ProductID,
		ProductName:    v.ProductName,
		Mandatory:      toComponents(v.Mandatory),
		OptionalGroups: make(map[string][]barposv1.RecipeComponent, len(v.OptionalGroups)),
	}
	for group, cs := range v.OptionalGroups {
		out.OptionalGroups[group] = toComponents(cs)
	}
	return out
}

func toComponents(cs []recipe.Component) []barposv1.RecipeComponent {
	out := make([]barposv1.RecipeComponent, len(cs))
	for i, c := range cs {
		out[i] = barposv1.RecipeComponent{
			ProductID: c.ProductID,
			Code:      c.Code,
			Name:      c.Name,
			Quantity:  int32(c.Quantity),
		}
	}
	return out
}
