package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	"github.com/fekuna/omnipos-bar-service/pkg/cache"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"go.uber.org/zap"
)

const viewTTL = 10 * time.Minute

type recipeUseCase struct {
	products product.Repository
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewRecipeUseCase(products product.Repository, cache *cache.RedisClient, log logger.ZapLogger) recipe.UseCase {
	return &recipeUseCase{
		products: products,
		cache:    cache,
		logger:   log,
	}
}

func viewKey(productID string) string {
	return fmt.Sprintf("recipes:view:%s", productID)
}

func (uc *recipeUseCase) ResolveRecipe(ctx context.Context, productID string) (*recipe.View, error) {
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", productID)
	}
	return uc.resolve(ctx, p)
}

func (uc *recipeUseCase) resolve(ctx context.Context, p *model.Product) (*recipe.View, error) {
	if p.Kind != model.KindComposite {
		return nil, nil
	}

	if uc.cache != nil {
		var cached recipe.View
		hit, err := uc.cache.GetJSON(ctx, viewKey(p.ID), &cached)
		if err != nil {
			uc.logger.Warn("recipe cache read failed", zap.String("product_id", p.ID), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	lines, err := uc.products.FindRecipe(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	view := recipe.Group(p, lines)
	if view == nil {
		return nil, nil
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, viewKey(p.ID), view, viewTTL); err != nil {
			uc.logger.Warn("recipe cache write failed", zap.String("product_id", p.ID), zap.Error(err))
		}
	}
	return view, nil
}

func (uc *recipeUseCase) Expand(ctx context.Context, p *model.Product, options map[string]string, qty int) ([]recipe.Requirement, model.Options, error) {
	switch p.Kind {
	case model.KindSimple:
		return []recipe.Requirement{{ProductID: p.ID, ProductName: p.Name, Quantity: qty}}, nil, nil
	case model.KindBase:
		return nil, nil, apperr.NotSellable(p.Name)
	}

	view, err := uc.resolve(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	if view == nil {
		return nil, nil, apperr.RecipeMissing(p.Name)
	}

	components, err := view.ValidateSelection(options)
	if err != nil {
		return nil, nil, err
	}
	return recipe.Scale(components, qty), view.ChosenOptions(options), nil
}

func (uc *recipeUseCase) Invalidate(ctx context.Context, productID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, viewKey(productID)); err != nil {
		uc.logger.Warn("recipe cache invalidation failed", zap.String("product_id", productID), zap.Error(err))
	}
}

func (uc *recipeUseCase) InvalidateAll(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, "recipes:view:*"); err != nil {
		uc.logger.Warn("recipe cache invalidation failed", zap.Error(err))
	}
}
