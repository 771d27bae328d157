package delivery

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

const EventDeliveryRecorded = "DeliveryRecorded"

type UseCase interface {
	RecordDelivery(ctx context.Context, input *dto.RecordInput) (*dto.RecordResult, error)
	ListDeliveries(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, int, error)
}
