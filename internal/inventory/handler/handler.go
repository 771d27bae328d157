package handler

import (
	"context"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/auth"
	"github.com/fekuna/omnipos-bar-service/internal/inventory"
	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
)

var (
	writers = []string{auth.RoleInventory, auth.RoleAdmin}
	readers = []string{auth.RoleInventory, auth.RoleSupervisor, auth.RoleAdmin, auth.RoleBartender}
)

type InventoryHandler struct {
	barposv1.UnimplementedInventoryServiceServer
	uc     inventory.UseCase
	tr     apperr.Localizer
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, tr apperr.Localizer, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *InventoryHandler) fail(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); !ok {
		h.logger.Error(msg, zap.Error(err))
	}
	return apperr.ToStatus(err, h.tr, auth.GetLang(ctx))
}

func (h *InventoryHandler) AdjustStock(ctx context.Context, req *barposv1.AdjustStockRequest) (*barposv1.StockResponse, error) {
	if err := auth.RequireRole(ctx, writers...); err != nil {
		return nil, h.fail(ctx, "adjust stock", err)
	}

	rec, err := h.uc.Adjust(ctx, &dto.AdjustInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Delta:      int(req.Delta),
		Kind:       model.MovementKind(req.Kind),
		Reason:     req.Reason,
		Notes:      req.Notes,
		UserID:     auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to adjust stock", err)
	}
	return &barposv1.StockResponse{Stock: toStock(rec)}, nil
}

func (h *InventoryHandler) RecordInbound(ctx context.Context, req *barposv1.RecordInboundRequest) (*barposv1.StockResponse, error) {
	if err := auth.RequireRole(ctx, writers...); err != nil {
		return nil, h.fail(ctx, "record inbound", err)
	}

	rec, err := h.uc.Inbound(ctx, &dto.InboundInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Quantity:   int(req.Quantity),
		Reason:     req.Reason,
		Notes:      req.Notes,
		UserID:     auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to record inbound stock", err)
	}
	return &barposv1.StockResponse{Stock: toStock(rec)}, nil
}

func (h *InventoryHandler) TransferStock(ctx context.Context, req *barposv1.TransferStockRequest) (*emptypb.Empty, error) {
	if err := auth.RequireRole(ctx, writers...); err != nil {
		return nil, h.fail(ctx, "transfer stock", err)
	}

	err := h.uc.Transfer(ctx, &dto.TransferInput{
		ProductID:      req.ProductID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       int(req.Quantity),
		Reason:         req.Reason,
		Notes:          req.Notes,
		UserID:         auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to transfer stock", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *InventoryHandler) GetStock(ctx context.Context, req *barposv1.GetStockRequest) (*barposv1.StockResponse, error) {
	if err := auth.RequireRole(ctx, readers...); err != nil {
		return nil, h.fail(ctx, "get stock", err)
	}
	rec, err := h.uc.GetStock(ctx, req.ProductID, req.LocationID)
	if err != nil {
		return nil, h.fail(ctx, "failed to get stock", err)
	}
	return &barposv1.StockResponse{Stock: toStock(rec)}, nil
}

func (h *InventoryHandler) ListStock(ctx context.Context, req *barposv1.ListStockRequest) (*barposv1.ListStockResponse, error) {
	if err := auth.RequireRole(ctx, readers...); err != nil {
		return nil, h.fail(ctx, "list stock", err)
	}

	items, count, err := h.uc.ListStock(ctx, &dto.StockFilters{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		EventID:    req.EventID,
		LowStock:   req.LowStock,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to list stock", err)
	}
	return &barposv1.ListStockResponse{Stock: toStocks(items), Total: int32(count), Paging: req.Paging}, nil
}

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *barposv1.ListLowStockRequest) (*barposv1.ListStockResponse, error) {
	if err := auth.RequireRole(ctx, readers...); err != nil {
		return nil, h.fail(ctx, "list low stock", err)
	}

	items, count, err := h.uc.ListLowStock(ctx, req.EventID, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, h.fail(ctx, "failed to list low stock", err)
	}
	return &barposv1.ListStockResponse{Stock: toStocks(items), Total: int32(count), Paging: req.Paging}, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *barposv1.ListMovementsRequest) (*barposv1.ListMovementsResponse, error) {
	if err := auth.RequireRole(ctx, readers...); err != nil {
		return nil, h.fail(ctx, "list movements", err)
	}

	items, count, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Kind:       req.Kind,
		OrderID:    req.OrderID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to list stock movements", err)
	}

	out := make([]*barposv1.StockMovement, len(items))
	for i := range items {
		out[i] = toMovement(&items[i])
	}
	return &barposv1.ListMovementsResponse{Movements: out, Total: int32(count), Paging: req.Paging}, nil
}

func toStock(r *model.InventoryRecord) *barposv1.StockRecord {
	out := &barposv1.StockRecord{
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		LocationID:   r.LocationID,
		LocationName: r.LocationName,
		Quantity:     int32(r.Quantity),
		Reserved:     int32(r.Reserved),
		Available:    int32(r.Available()),
		IsLow:        r.IsLow(),
		UpdatedAt:    r.UpdatedAt,
	}
	if r.LowStockThreshold != nil {
		t := int32(*r.LowStockThreshold)
		out.LowStockThreshold = &t
	}
	return out
}

func toStocks(items []model.InventoryRecord) []*barposv1.StockRecord {
	out := make([]*barposv1.StockRecord, len(items))
	for i := range items {
		out[i] = toStock(&items[i])
	}
	return out
}

func toMovement(m *model.StockMovement) *barposv1.StockMovement {
	return &barposv1.StockMovement{
		ID:                    m.ID,
		ProductID:             m.ProductID,
		Kind:                  string(m.Kind),
		Quantity:              int32(m.Quantity),
		SourceLocationID:      deref(m.SourceLocationID),
		DestinationLocationID: deref(m.DestinationLocationID),
		UserID:                deref(m.UserID),
		OrderID:               deref(m.OrderID),
		DeliveryID:            deref(m.DeliveryID),
		Reason:                m.Reason,
		Notes:                 deref(m.Notes),
		CreatedAt:             m.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
