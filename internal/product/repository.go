package product

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error

	IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error)

	// Recipe lines of a composite product, joined with their component.
	FindRecipe(ctx context.Context, productID string) ([]model.RecipeLine, error)
	ReplaceRecipe(ctx context.Context, productID string, lines []model.RecipeLine) error
}
