package dto

import "github.com/fekuna/omnipos-bar-service/internal/model"

type LineInput struct {
	ProductID string
	Quantity  int
	Options   map[string]string
}

type CreateOrderInput struct {
	EventID       string
	RegisterID    string
	CashierID     string
	PaymentMethod model.PaymentMethod
	BalanceToken  string
	Lines         []LineInput
}

type ReviewInput struct {
	OrderID    string
	Approve    bool
	Notes      string
	ReviewerID string
}

type CancelInput struct {
	OrderID string
	Reason  string
	ActorID string
}
