package dto

import (
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type DeliveryFilters struct {
	OrderID     string
	BarID       string
	BartenderID string
	Date        *time.Time // local calendar day
	Page        int
	PageSize    int
}

type ItemInput struct {
	LineID   string
	Quantity int
}

type RecordInput struct {
	OrderToken  string
	BarID       string
	BartenderID string
	Notes       string
	Items       []ItemInput
}

type RecordResult struct {
	Delivery *model.Delivery
	Order    *model.Order
}
