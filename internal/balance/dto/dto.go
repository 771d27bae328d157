package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountFilters struct {
	EventID  string
	Status   string
	Page     int
	PageSize int
}

type CreateAccountInput struct {
	EventID    string
	Amount     decimal.Decimal
	HolderName string
	Notes      string
	ExpiresAt  *time.Time
	CreatedBy  string
}

type DebitInput struct {
	Token     string
	Amount    decimal.Decimal
	OrderID   string
	OrderCode string
	Actor     string
}

type LoadInput struct {
	Token  string
	Amount decimal.Decimal
	Actor  string
	Notes  string
}
