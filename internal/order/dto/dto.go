package dto

import (
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type OrderFilters struct {
	EventID           string
	RegisterID        string
	CashierID         string
	PaymentMethod     string
	PaymentStatus     string
	FulfillmentStatus string
	Date              *time.Time // local calendar day
	Page              int
	PageSize          int
}

type OrderResult struct {
	Order *model.Order
	QRURL string
}

type OrderDetail struct {
	Order      *model.Order
	Deliveries []model.Delivery
}
