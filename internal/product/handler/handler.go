package handler

import (
	"context"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/auth"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var staff = []string{auth.RoleAdmin, auth.RoleSupervisor, auth.RoleCashier, auth.RoleBartender, auth.RoleInventory}

// CatalogHandler serves products and recipes. Only admins write; any staff
// role may read.
type CatalogHandler struct {
	barposv1.UnimplementedCatalogServiceServer

	uc      product.UseCase
	recipes recipe.UseCase
	tr      apperr.Localizer
	logger  logger.ZapLogger
}

func NewCatalogHandler(uc product.UseCase, recipes recipe.UseCase, tr apperr.Localizer, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:      uc,
		recipes: recipes,
		tr:      tr,
		logger:  log,
	}
}

func (h *CatalogHandler) fail(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); !ok {
		h.logger.Error(msg, zap.Error(err))
	}
	return apperr.ToStatus(err, h.tr, auth.GetLang(ctx))
}

func (h *CatalogHandler) CreateProduct(ctx context.Context, req *barposv1.CreateProductRequest) (*barposv1.ProductResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "create product", err)
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, h.fail(ctx, "create product", err)
	}

	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		Kind:        model.ProductKind(req.Kind),
		Recipe:      toRecipeInput(req.Recipe),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to create product", err)
	}
	return &barposv1.ProductResponse{Product: toProduct(p)}, nil
}

func (h *CatalogHandler) GetProduct(ctx context.Context, req *barposv1.GetProductRequest) (*barposv1.ProductResponse, error) {
	if err := auth.RequireRole(ctx, staff...); err != nil {
		return nil, h.fail(ctx, "get product", err)
	}
	p, err := h.uc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, h.fail(ctx, "failed to get product", err)
	}
	return &barposv1.ProductResponse{Product: toProduct(p)}, nil
}

func (h *CatalogHandler) ListProducts(ctx context.Context, req *barposv1.ListProductsRequest) (*barposv1.ListProductsResponse, error) {
	if err := auth.RequireRole(ctx, staff...); err != nil {
		return nil, h.fail(ctx, "list products", err)
	}

	products, total, err := h.uc.ListProducts(ctx, &dto.ProductFilters{
		Category:    req.Category,
		Kind:        req.Kind,
		IsActive:    req.IsActive,
		SearchQuery: req.Query,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        int(req.Page),
		PageSize:    int(req.PageSize),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to list products", err)
	}

	out := make([]*barposv1.Product, len(products))
	for i := range products {
		out[i] = toProduct(&products[i])
	}
	return &barposv1.ListProductsResponse{Products: out, Total: int32(total), Paging: req.Paging}, nil
}

func (h *CatalogHandler) UpdateProduct(ctx context.Context, req *barposv1.UpdateProductRequest) (*barposv1.ProductResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "update product", err)
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, h.fail(ctx, "update product", err)
	}

	p, err := h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:          req.ID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		IsActive:    req.IsActive,
		Recipe:      toRecipeInput(req.Recipe),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to update product", err)
	}
	return &barposv1.ProductResponse{Product: toProduct(p)}, nil
}

func (h *CatalogHandler) ResolveRecipe(ctx context.Context, req *barposv1.ResolveRecipeRequest) (*barposv1.ResolveRecipeResponse, error) {
	if err := auth.RequireRole(ctx, staff...); err != nil {
		return nil, h.fail(ctx, "resolve recipe", err)
	}
	v, err := h.recipes.ResolveRecipe(ctx, req.ProductID)
	if err != nil {
		return nil, h.fail(ctx, "failed to resolve recipe", err)
	}
	return &barposv1.ResolveRecipeResponse{Recipe: toRecipe(v)}, nil
}

// parsePrice treats an empty string as zero; BASE products carry no price.
func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation("price", "price must be a decimal number")
	}
	return d, nil
}
