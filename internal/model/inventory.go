package model

import "time"

type InventoryRecord struct {
	ID                string    `db:"id" json:"id"`
	ProductID         string    `db:"product_id" json:"product_id"`
	LocationID        string    `db:"location_id" json:"location_id"`
	Quantity          int       `db:"quantity" json:"quantity"`
	Reserved          int       `db:"reserved" json:"reserved"`
	LowStockThreshold *int      `db:"low_stock_threshold" json:"low_stock_threshold"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`

	ProductName  string `db:"product_name" json:"product_name"`
	LocationName string `db:"location_name" json:"location_name"`
}

func (r *InventoryRecord) Available() int {
	return r.Quantity - r.Reserved
}

func (r *InventoryRecord) IsLow() bool {
	return r.LowStockThreshold != nil && r.Available() <= *r.LowStockThreshold
}

type MovementKind string

const (
	MovementInbound    MovementKind = "INBOUND"
	MovementReserve    MovementKind = "RESERVE"
	MovementCommit     MovementKind = "COMMIT"
	MovementRelease    MovementKind = "RELEASE"
	MovementTransfer   MovementKind = "TRANSFER"
	MovementAdjustment MovementKind = "ADJUSTMENT"
	MovementWaste      MovementKind = "WASTE"
)

// StockMovement is append-only: rows are inserted, never updated or deleted.
type StockMovement struct {
	ID                    string       `db:"id" json:"id"`
	ProductID             string       `db:"product_id" json:"product_id"`
	Kind                  MovementKind `db:"kind" json:"kind"`
	Quantity              int          `db:"quantity" json:"quantity"`
	SourceLocationID      *string      `db:"source_location_id" json:"source_location_id"`
	DestinationLocationID *string      `db:"destination_location_id" json:"destination_location_id"`
	UserID                *string      `db:"user_id" json:"user_id"`
	OrderID               *string      `db:"order_id" json:"order_id"`
	DeliveryID            *string      `db:"delivery_id" json:"delivery_id"`
	Reason                string       `db:"reason" json:"reason"`
	Notes                 *string      `db:"notes" json:"notes"`
	CreatedAt             time.Time    `db:"created_at" json:"created_at"`
}
