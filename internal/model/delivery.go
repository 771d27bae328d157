package model

import "time"

// Delivery is one hand-off at a bar; immutable once created.
type Delivery struct {
	ID          string           `db:"id" json:"id"`
	OrderID     string           `db:"order_id" json:"order_id"`
	BarID       string           `db:"bar_id" json:"bar_id"`
	BartenderID string           `db:"bartender_id" json:"bartender_id"`
	Notes       *string          `db:"notes" json:"notes"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	Details     []DeliveryDetail `db:"-" json:"details"`
}

type DeliveryDetail struct {
	ID          string `db:"id" json:"id"`
	DeliveryID  string `db:"delivery_id" json:"delivery_id"`
	OrderLineID string `db:"order_line_id" json:"order_line_id"`
	Quantity    int    `db:"quantity" json:"quantity"`
}
