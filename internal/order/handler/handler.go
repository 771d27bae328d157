package handler

import (
	"context"
	"time"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/auth"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	barposv1.UnimplementedOrderServiceServer

	uc       order.UseCase
	payments order.PaymentUseCase
	tr       apperr.Localizer
	loc      *time.Location
	logger   logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, payments order.PaymentUseCase, tr apperr.Localizer, loc *time.Location, log logger.ZapLogger) *OrderHandler {
	if loc == nil {
		loc = time.Local
	}
	return &OrderHandler{
		uc:       uc,
		payments: payments,
		tr:       tr,
		loc:      loc,
		logger:   log,
	}
}

func (h *OrderHandler) fail(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); !ok {
		h.logger.Error(msg, zap.Error(err))
	}
	return apperr.ToStatus(err, h.tr, auth.GetLang(ctx))
}

func (h *OrderHandler) CreateOrder(ctx context.Context, req *barposv1.CreateOrderRequest) (*barposv1.OrderResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleCashier, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "create order", err)
	}

	input := &dto.CreateOrderInput{
		EventID:       req.EventID,
		RegisterID:    req.RegisterID,
		CashierID:     auth.GetUserID(ctx),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		BalanceToken:  req.BalanceToken,
		Lines:         make([]dto.LineInput, len(req.Lines)),
	}
	for i, l := range req.Lines {
		input.Lines[i] = dto.LineInput{ProductID: l.ProductID, Quantity: int(l.Quantity), Options: l.Options}
	}

	res, err := h.uc.CreateOrder(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, "failed to create order", err)
	}
	return &barposv1.OrderResponse{Order: ToOrder(res.Order), QRURL: res.QRURL}, nil
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *barposv1.GetOrderRequest) (*barposv1.OrderResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleCashier, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "get order", err)
	}
	o, err := h.uc.GetOrder(ctx, req.ID)
	if err != nil {
		return nil, h.fail(ctx, "failed to get order", err)
	}
	return &barposv1.OrderResponse{Order: ToOrder(o)}, nil
}

// GetOrderByToken is public: the token itself is the credential.
func (h *OrderHandler) GetOrderByToken(ctx context.Context, req *barposv1.GetOrderByTokenRequest) (*barposv1.OrderDetailResponse, error) {
	detail, err := h.uc.GetByToken(ctx, req.Token)
	if err != nil {
		return nil, h.fail(ctx, "failed to look up order", err)
	}

	deliveries := make([]*barposv1.Delivery, len(detail.Deliveries))
	for i := range detail.Deliveries {
		deliveries[i] = ToDelivery(&detail.Deliveries[i])
	}
	return &barposv1.OrderDetailResponse{Order: ToOrder(detail.Order), Deliveries: deliveries}, nil
}

func (h *OrderHandler) ListOrders(ctx context.Context, req *barposv1.ListOrdersRequest) (*barposv1.ListOrdersResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleCashier, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "list orders", err)
	}

	filters := &dto.OrderFilters{
		EventID:           req.EventID,
		RegisterID:        req.RegisterID,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     req.PaymentStatus,
		FulfillmentStatus: req.FulfillmentStatus,
		Page:              int(req.Page),
		PageSize:          int(req.PageSize),
	}
	if req.Date != "" {
		day, err := ParseDay(req.Date, h.loc)
		if err != nil {
			return nil, h.fail(ctx, "list orders", err)
		}
		filters.Date = &day
	}

	orders, total, err := h.uc.ListOrders(ctx, filters)
	if err != nil {
		return nil, h.fail(ctx, "failed to list orders", err)
	}
	return &barposv1.ListOrdersResponse{Orders: toOrders(orders), Total: int32(total), Paging: req.Paging}, nil
}

func (h *OrderHandler) CancelOrder(ctx context.Context, req *barposv1.CancelOrderRequest) (*barposv1.OrderResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "cancel order", err)
	}
	o, err := h.uc.CancelOrder(ctx, &dto.CancelInput{OrderID: req.ID, Reason: req.Reason, ActorID: auth.GetUserID(ctx)})
	if err != nil {
		return nil, h.fail(ctx, "failed to cancel order", err)
	}
	return &barposv1.OrderResponse{Order: ToOrder(o)}, nil
}

func (h *OrderHandler) ReviewPayment(ctx context.Context, req *barposv1.ReviewPaymentRequest) (*barposv1.OrderResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "review payment", err)
	}
	o, err := h.payments.ReviewPayment(ctx, &dto.ReviewInput{
		OrderID:    req.OrderID,
		Approve:    req.Approve,
		Notes:      req.Notes,
		ReviewerID: auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to review payment", err)
	}
	return &barposv1.OrderResponse{Order: ToOrder(o)}, nil
}

func (h *OrderHandler) ListPendingPayments(ctx context.Context, req *barposv1.ListPendingPaymentsRequest) (*barposv1.ListOrdersResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "list pending payments", err)
	}
	orders, err := h.payments.ListPending(ctx, req.EventID)
	if err != nil {
		return nil, h.fail(ctx, "failed to list pending payments", err)
	}
	return &barposv1.ListOrdersResponse{Orders: toOrders(orders), Total: int32(len(orders))}, nil
}
