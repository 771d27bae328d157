package handler

import (
	"time"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

// ParseDay reads a YYYY-MM-DD date as the start of that day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, apperr.Validation("date", "date must look like 2006-01-02")
	}
	return day, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToOrder(o *model.Order) *barposv1.Order {
	if o == nil {
		return nil
	}
	out := &barposv1.Order{
		ID:                o.ID,
		Code:              o.Code,
		AccessToken:       o.AccessToken,
		EventID:           o.EventID,
		RegisterID:        o.RegisterID,
		CashierID:         o.CashierID,
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		FulfillmentStatus: string(o.FulfillmentStatus),
		Total:             o.Total.StringFixed(2),
		PaidAt:            o.PaidAt,
		ApprovedBy:        deref(o.ApprovedBy),
		ApprovedAt:        o.ApprovedAt,
		ReviewNotes:       deref(o.ReviewNotes),
		CompletedAt:       o.CompletedAt,
		CreatedAt:         o.CreatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, barposv1.OrderLine{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    int32(l.Quantity),
			Delivered:   int32(l.Delivered),
			Status:      string(l.Status),
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Subtotal:    l.Subtotal.StringFixed(2),
			Options:     l.Options,
		})
	}
	return out
}

func toOrders(orders []model.Order) []*barposv1.Order {
	out := make([]*barposv1.Order, len(orders))
	for i := range orders {
		out[i] = ToOrder(&orders[i])
	}
	return out
}

func ToDelivery(d *model.Delivery) *barposv1.Delivery {
	if d == nil {
		return nil
	}
	out := &barposv1.Delivery{
		ID:          d.ID,
		OrderID:     d.OrderID,
		BarID:       d.BarID,
		BartenderID: d.BartenderID,
		Notes:       deref(d.Notes),
		Items:       make([]barposv1.DeliveryItem, len(d.Details)),
		CreatedAt:   d.CreatedAt,
	}
	for i, det := range d.Details {
		out.Items[i] = barposv1.DeliveryItem{LineID: det.OrderLineID, Quantity: int32(det.Quantity)}
	}
	return out
}
