package order

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
)

const (
	EventOrderCreated    = "OrderCreated"
	EventPaymentReviewed = "PaymentReviewed"
	EventOrderCancelled  = "OrderCancelled"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.OrderResult, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	// GetByToken is the public lookup behind the order QR code.
	GetByToken(ctx context.Context, token string) (*dto.OrderDetail, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	CancelOrder(ctx context.Context, input *dto.CancelInput) (*model.Order, error)
}

// PaymentUseCase is the transfer approval workflow.
type PaymentUseCase interface {
	ReviewPayment(ctx context.Context, input *dto.ReviewInput) (*model.Order, error)
	ListPending(ctx context.Context, eventID string) ([]model.Order, error)
}
