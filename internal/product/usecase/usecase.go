package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	"github.com/fekuna/omnipos-bar-service/pkg/cache"
	"github.com/fekuna/omnipos-bar-service/pkg/database"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/fekuna/omnipos-bar-service/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName = "bar_products"
	listTTL   = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"code": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category": { "type": "keyword" },
			"kind": { "type": "keyword" },
			"is_active": { "type": "boolean" },
			"price": { "type": "keyword" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo    product.Repository
	recipes recipe.UseCase
	tx      database.Transactor
	cache   *cache.RedisClient
	es      *search.Client
	logger  logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, recipes recipe.UseCase, tx database.Transactor, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:    repo,
		recipes: recipes,
		tx:      tx,
		cache:   cache,
		es:      es,
		logger:  log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.Code == "" || input.Name == "" {
		return nil, apperr.Validation("code", "code and name are required")
	}
	if !input.Kind.Valid() {
		return nil, apperr.Validation("kind", fmt.Sprintf("unknown product kind %q", input.Kind))
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("price", "price cannot be negative")
	}

	unique, err := uc.repo.IsCodeUnique(ctx, input.Code, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperr.DuplicateCode(input.Code)
	}

	id := uuid.New().String()
	now := time.Now()

	var description *string
	if input.Description != "" {
		description = &input.Description
	}

	p := &model.Product{
		BaseModel:   model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Code:        input.Code,
		Name:        input.Name,
		Description: description,
		Price:       input.Price,
		Category:    input.Category,
		Kind:        input.Kind,
		IsActive:    true,
	}

	lines, err := uc.buildRecipe(ctx, p, input.Recipe)
	if err != nil {
		return nil, err
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		if p.Kind == model.KindComposite {
			return uc.repo.ReplaceRecipe(ctx, p.ID, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.Recipe = lines

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

// buildRecipe validates recipe input for p. Only composites carry a recipe;
// it needs at least one line and components must be stock-bearing products.
func (uc *productUseCase) buildRecipe(ctx context.Context, p *model.Product, in []dto.RecipeLineInput) ([]model.RecipeLine, error) {
	if p.Kind != model.KindComposite {
		if len(in) > 0 {
			return nil, apperr.Validation("recipe", "only composite products have a recipe")
		}
		return nil, nil
	}
	if len(in) == 0 {
		return nil, apperr.Validation("recipe", "a composite product needs at least one recipe line")
	}

	ids := make([]string, 0, len(in))
	for _, l := range in {
		ids = append(ids, l.ComponentID)
	}
	components, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(components))
	for _, c := range components {
		byID[c.ID] = c
	}

	lines := make([]model.RecipeLine, 0, len(in))
	for _, l := range in {
		c, ok := byID[l.ComponentID]
		switch {
		case !ok:
			return nil, apperr.NotFound("component", l.ComponentID)
		case c.ID == p.ID || c.Kind == model.KindComposite:
			return nil, apperr.Validation("recipe", fmt.Sprintf("%s cannot be a recipe component", c.Name))
		case l.Quantity <= 0:
			return nil, apperr.Validation("recipe", "component quantity must be positive")
		case l.Optional && l.OptionGroup == "":
			return nil, apperr.Validation("recipe", fmt.Sprintf("optional component %s needs an option group", c.Name))
		}

		line := model.RecipeLine{
			ID:            uuid.New().String(),
			ProductID:     p.ID,
			ComponentID:   c.ID,
			Quantity:      l.Quantity,
			Optional:      l.Optional,
			ComponentCode: c.Code,
			ComponentName: c.Name,
			ComponentKind: c.Kind,
		}
		if l.Optional {
			group := l.OptionGroup
			line.OptionGroup = &group
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", id)
	}
	if p.Kind == model.KindComposite {
		if p.Recipe, err = uc.repo.FindRecipe(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		var result cachedList
		if hit, err := uc.cache.GetJSON(ctx, cacheKey, &result); err == nil && hit {
			return result.Products, result.Count, nil
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, total, err := uc.search(ctx, filters)
		if err == nil {
			return products, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Count: count}, listTTL); err != nil {
			uc.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}
	return products, count, nil
}

func (uc *productUseCase) search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "code", "description"},
			},
		},
	}
	if filters.Category != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category": filters.Category}})
	}
	if filters.Kind != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"kind": filters.Kind}})
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		q["from"] = (max(filters.Page, 1) - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, "products:list:*"); err != nil {
		uc.logger.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", input.ID)
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("price", "price cannot be negative")
	}

	if input.Code != "" && p.Code != input.Code {
		unique, err := uc.repo.IsCodeUnique(ctx, input.Code, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperr.DuplicateCode(input.Code)
		}
		p.Code = input.Code
	}
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	}
	p.Price = input.Price
	p.Category = input.Category
	p.IsActive = input.IsActive
	p.UpdatedAt = time.Now()

	var lines []model.RecipeLine
	replaceRecipe := input.Recipe != nil
	if replaceRecipe {
		if lines, err = uc.buildRecipe(ctx, p, input.Recipe); err != nil {
			return nil, err
		}
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.Update(ctx, p); err != nil {
			return err
		}
		if replaceRecipe {
			return uc.repo.ReplaceRecipe(ctx, p.ID, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Component renames show up in every composite view that uses them.
	if p.Kind == model.KindComposite {
		uc.recipes.Invalidate(ctx, p.ID)
	} else {
		uc.recipes.InvalidateAll(ctx)
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}
