package dto

import (
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
)

// OrderEvent is the payload published on the bar events topic.
type OrderEvent struct {
	ID                string                  `json:"id"`
	Code              string                  `json:"code"`
	EventID           string                  `json:"event_id"`
	LocationID        string                  `json:"location_id"`
	PaymentMethod     model.PaymentMethod     `json:"payment_method"`
	PaymentStatus     model.PaymentStatus     `json:"payment_status"`
	FulfillmentStatus model.FulfillmentStatus `json:"fulfillment_status"`
	Total             string                  `json:"total"`
	Actor             string                  `json:"actor"`
	Lines             []OrderEventLine        `json:"lines,omitempty"`
	OccurredAt        time.Time               `json:"occurred_at"`
}

type OrderEventLine struct {
	ProductID string        `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Options   model.Options `json:"options,omitempty"`
}

func NewOrderEvent(o *model.Order, actor string, withLines bool) OrderEvent {
	ev := OrderEvent{
		ID:                o.ID,
		Code:              o.Code,
		EventID:           o.EventID,
		LocationID:        o.LocationID,
		PaymentMethod:     o.PaymentMethod,
		PaymentStatus:     o.PaymentStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		Total:             o.Total.StringFixed(2),
		Actor:             actor,
		OccurredAt:        time.Now().UTC(),
	}
	if withLines {
		for _, l := range o.Lines {
			ev.Lines = append(ev.Lines, OrderEventLine{ProductID: l.ProductID, Quantity: l.Quantity, Options: l.Options})
		}
	}
	return ev
}
