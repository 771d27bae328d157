package recipe

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type UseCase interface {
	// ResolveRecipe returns nil for products that are not composite or have
	// no recipe lines.
	ResolveRecipe(ctx context.Context, productID string) (*View, error)
	// Expand validates options for p and returns the stock requirements of
	// qty units together with the options to persist.
	Expand(ctx context.Context, p *model.Product, options map[string]string, qty int) ([]Requirement, model.Options, error)
	Invalidate(ctx context.Context, productID string)
	// InvalidateAll drops every cached view, used when a component changes.
	InvalidateAll(ctx context.Context)
}
