package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
)

type Repository interface {
	// Create inserts the order together with its lines.
	Create(ctx context.Context, order *model.Order) error
	// Finders load lines too and return (nil, nil) when nothing matches.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByToken(ctx context.Context, token string) (*model.Order, error)
	// Lock variants select the order row FOR UPDATE.
	LockByID(ctx context.Context, id string) (*model.Order, error)
	LockByToken(ctx context.Context, token string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)

	// Update writes payment and fulfillment state.
	Update(ctx context.Context, order *model.Order) error
	UpdateLine(ctx context.Context, line *model.OrderLine) error
}
