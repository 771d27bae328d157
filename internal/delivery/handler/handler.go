package handler

import (
	"context"
	"time"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/auth"
	"github.com/fekuna/omnipos-bar-service/internal/delivery"
	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	orderHandler "github.com/fekuna/omnipos-bar-service/internal/order/handler"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"go.uber.org/zap"
)

type DeliveryHandler struct {
	barposv1.UnimplementedDeliveryServiceServer

	uc     delivery.UseCase
	tr     apperr.Localizer
	loc    *time.Location
	logger logger.ZapLogger
}

func NewDeliveryHandler(uc delivery.UseCase, tr apperr.Localizer, loc *time.Location, log logger.ZapLogger) *DeliveryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &DeliveryHandler{uc: uc, tr: tr, loc: loc, logger: log}
}

func (h *DeliveryHandler) fail(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); !ok {
		h.logger.Error(msg, zap.Error(err))
	}
	return apperr.ToStatus(err, h.tr, auth.GetLang(ctx))
}

func (h *DeliveryHandler) RecordDelivery(ctx context.Context, req *barposv1.RecordDeliveryRequest) (*barposv1.RecordDeliveryResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleBartender, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "record delivery", err)
	}

	input := &dto.RecordInput{
		OrderToken:  req.OrderToken,
		BarID:       req.BarID,
		BartenderID: auth.GetUserID(ctx),
		Notes:       req.Notes,
		Items:       make([]dto.ItemInput, len(req.Items)),
	}
	for i, it := range req.Items {
		input.Items[i] = dto.ItemInput{LineID: it.LineID, Quantity: int(it.Quantity)}
	}

	res, err := h.uc.RecordDelivery(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, "failed to record delivery", err)
	}
	return &barposv1.RecordDeliveryResponse{
		Delivery: orderHandler.ToDelivery(res.Delivery),
		Order:    orderHandler.ToOrder(res.Order),
	}, nil
}

func (h *DeliveryHandler) ListDeliveries(ctx context.Context, req *barposv1.ListDeliveriesRequest) (*barposv1.ListDeliveriesResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleBartender, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "list deliveries", err)
	}

	filters := &dto.DeliveryFilters{
		OrderID:     req.OrderID,
		BarID:       req.BarID,
		BartenderID: req.BartenderID,
		Page:        int(req.Page),
		PageSize:    int(req.PageSize),
	}
	if req.Date != "" {
		day, err := orderHandler.ParseDay(req.Date, h.loc)
		if err != nil {
			return nil, h.fail(ctx, "list deliveries", err)
		}
		filters.Date = &day
	}

	items, total, err := h.uc.ListDeliveries(ctx, filters)
	if err != nil {
		return nil, h.fail(ctx, "failed to list deliveries", err)
	}
	out := make([]*barposv1.Delivery, len(items))
	for i := range items {
		out[i] = orderHandler.ToDelivery(&items[i])
	}
	return &barposv1.ListDeliveriesResponse{Deliveries: out, Total: int32(total), Paging: req.Paging}, nil
}
