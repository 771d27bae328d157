package delivery

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type Repository interface {
	// Create inserts the delivery and its details.
	Create(ctx context.Context, delivery *model.Delivery) error
	FindByOrder(ctx context.Context, orderID string) ([]model.Delivery, error)
	FindAll(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, int, error)
}
