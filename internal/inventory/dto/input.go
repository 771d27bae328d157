package dto

import "github.com/fekuna/omnipos-bar-service/internal/model"

// LedgerInput drives Reserve, Commit and Release. ProductName is only used
// in error messages.
type LedgerInput struct {
	ProductID   string
	ProductName string
	LocationID  string
	Quantity    int
	UserID      string
	OrderID     string
	DeliveryID  string
}

type AdjustInput struct {
	ProductID  string
	LocationID string
	Delta      int
	Kind       model.MovementKind // ADJUSTMENT or WASTE
	Reason     string
	Notes      string
	UserID     string
}

type InboundInput struct {
	ProductID  string
	LocationID string
	Quantity   int
	Reason     string
	Notes      string
	UserID     string
}

type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int
	Reason         string
	Notes          string
	UserID         string
}
