package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/delivery"
	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-bar-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	"github.com/fekuna/omnipos-bar-service/internal/venue"
	"github.com/fekuna/omnipos-bar-service/pkg/broker"
	"github.com/fekuna/omnipos-bar-service/pkg/database"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Deps struct {
	Repo      delivery.Repository
	Orders    order.Repository
	Ledger    inventory.UseCase
	Venues    venue.Repository
	Tx        database.Transactor
	Publisher broker.Publisher
	Logger    logger.ZapLogger
}

type deliveryUseCase struct {
	Deps
	now func() time.Time
}

func NewDeliveryUseCase(deps Deps) delivery.UseCase {
	return &deliveryUseCase{Deps: deps, now: time.Now}
}

type deliveryEvent struct {
	DeliveryID        string                  `json:"delivery_id"`
	OrderID           string                  `json:"order_id"`
	OrderCode         string                  `json:"order_code"`
	BarID             string                  `json:"bar_id"`
	BartenderID       string                  `json:"bartender_id"`
	FulfillmentStatus model.FulfillmentStatus `json:"fulfillment_status"`
	Items             []model.DeliveryDetail  `json:"items"`
}

func validateRecord(in *dto.RecordInput) error {
	if in.OrderToken == "" {
		return apperr.Validation("order_token", "order token is required")
	}
	if in.BarID == "" || in.BartenderID == "" {
		return apperr.Validation("bar_id", "bar and bartender are required")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("items", "a delivery needs at least one item")
	}
	for _, it := range in.Items {
		if it.LineID == "" {
			return apperr.Validation("line_id", "every item needs an order line")
		}
		if it.Quantity <= 0 {
			return apperr.Validation("quantity", "quantity must be positive")
		}
	}
	return nil
}

// RecordDelivery hands over units of a paid order at a bar. The order row
// stays locked for the whole transaction, so concurrent deliveries of the
// same order serialize and delivered never exceeds ordered.
func (uc *deliveryUseCase) RecordDelivery(ctx context.Context, in *dto.RecordInput) (*dto.RecordResult, error) {
	if err := validateRecord(in); err != nil {
		return nil, err
	}

	var result *dto.RecordResult
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Preconditions
		o, err := uc.Orders.LockByToken(ctx, in.OrderToken)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.NotFound("order", in.OrderToken)
		}
		switch o.FulfillmentStatus {
		case model.FulfillmentDelivered:
			return apperr.OrderDelivered(o.Code)
		case model.FulfillmentCancelled:
			return apperr.OrderCancelled(o.Code)
		}
		if !o.IsPaid() {
			return apperr.OrderUnpaid(string(o.PaymentStatus))
		}

		bar, err := uc.Venues.FindBar(ctx, in.BarID)
		if err != nil {
			return err
		}
		if bar == nil {
			return apperr.NotFound("bar", in.BarID)
		}
		if bar.EventID != o.EventID {
			return apperr.Validation("bar_id", fmt.Sprintf("bar %s does not serve the event of order %s", bar.Name, o.Code))
		}

		requested := map[string]int{}
		for _, it := range in.Items {
			requested[it.LineID] += it.Quantity
		}
		lineIdx := make(map[string]int, len(o.Lines))
		for i, l := range o.Lines {
			lineIdx[l.ID] = i
		}
		for lineID := range requested {
			if _, ok := lineIdx[lineID]; !ok {
				return apperr.Validation("line_id", fmt.Sprintf("line %s does not belong to order %s", lineID, o.Code))
			}
		}
		for _, l := range o.Lines {
			if qty, ok := requested[l.ID]; ok && qty > l.Remaining() {
				return apperr.OverDelivery(l.ID, l.ProductName, qty, l.Remaining())
			}
		}

		// 2. Delivery record
		now := uc.now()
		d := &model.Delivery{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			BarID:       bar.ID,
			BartenderID: in.BartenderID,
			CreatedAt:   now,
		}
		if in.Notes != "" {
			d.Notes = &in.Notes
		}
		for _, l := range o.Lines {
			if qty, ok := requested[l.ID]; ok {
				d.Details = append(d.Details, model.DeliveryDetail{
					ID:          uuid.New().String(),
					DeliveryID:  d.ID,
					OrderLineID: l.ID,
					Quantity:    qty,
				})
			}
		}
		if err := uc.Repo.Create(ctx, d); err != nil {
			return err
		}

		// 3. Lines and stock
		demand := [][]recipe.Requirement{}
		for i := range o.Lines {
			l := &o.Lines[i]
			qty, ok := requested[l.ID]
			if !ok {
				continue
			}
			l.Delivered += qty
			l.Status = l.DeriveStatus()
			if err := uc.Orders.UpdateLine(ctx, l); err != nil {
				return err
			}
			demand = append(demand, recipe.ForLine(l, qty))
		}

		for _, req := range recipe.Merge(demand...) {
			if err := uc.Ledger.Commit(ctx, &invDto.LedgerInput{
				ProductID:   req.ProductID,
				ProductName: req.ProductName,
				LocationID:  o.LocationID,
				Quantity:    req.Quantity,
				UserID:      in.BartenderID,
				OrderID:     o.ID,
				DeliveryID:  d.ID,
			}); err != nil {
				return err
			}
		}

		// 4. Order status
		prev := o.FulfillmentStatus
		o.FulfillmentStatus = o.DeriveFulfillment()
		if o.FulfillmentStatus == model.FulfillmentDelivered && prev != model.FulfillmentDelivered {
			o.CompletedAt = &now
		}
		o.UpdatedAt = now
		if err := uc.Orders.Update(ctx, o); err != nil {
			return err
		}

		result = &dto.RecordResult{Delivery: d, Order: o}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("delivery recorded",
		zap.String("order", result.Order.Code),
		zap.String("bar_id", in.BarID),
		zap.String("status", string(result.Order.FulfillmentStatus)),
	)
	uc.publish(ctx, result)
	return result, nil
}

func (uc *deliveryUseCase) publish(ctx context.Context, r *dto.RecordResult) {
	if uc.Publisher == nil {
		return
	}
	ev, err := broker.NewEvent(delivery.EventDeliveryRecorded, deliveryEvent{
		DeliveryID:        r.Delivery.ID,
		OrderID:           r.Order.ID,
		OrderCode:         r.Order.Code,
		BarID:             r.Delivery.BarID,
		BartenderID:       r.Delivery.BartenderID,
		FulfillmentStatus: r.Order.FulfillmentStatus,
		Items:             r.Delivery.Details,
	})
	if err == nil {
		err = uc.Publisher.Publish(ctx, r.Order.ID, ev)
	}
	if err != nil {
		uc.Logger.Warn("failed to publish delivery event", zap.String("delivery_id", r.Delivery.ID), zap.Error(err))
	}
}

func (uc *deliveryUseCase) ListDeliveries(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, int, error) {
	return uc.Repo.FindAll(ctx, filters)
}
