package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentBalance  PaymentMethod = "BALANCE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentBalance:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPendingApproval PaymentStatus = "PENDING_APPROVAL"
	PaymentPaid            PaymentStatus = "PAID"
	PaymentRejected        PaymentStatus = "REJECTED"
)

type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "PENDING"
	FulfillmentPartial   FulfillmentStatus = "PARTIAL"
	FulfillmentDelivered FulfillmentStatus = "DELIVERED"
	FulfillmentCancelled FulfillmentStatus = "CANCELLED"
)

type LineStatus string

const (
	LinePending   LineStatus = "PENDING"
	LinePartial   LineStatus = "PARTIAL"
	LineDelivered LineStatus = "DELIVERED"
)

type Order struct {
	BaseModel
	Code              string            `db:"code" json:"code"`
	AccessToken       string            `db:"access_token" json:"access_token"`
	EventID           string            `db:"event_id" json:"event_id"`
	RegisterID        string            `db:"register_id" json:"register_id"`
	LocationID        string            `db:"location_id" json:"location_id"`
	CashierID         string            `db:"cashier_id" json:"cashier_id"`
	PaymentMethod     PaymentMethod     `db:"payment_method" json:"payment_method"`
	PaymentStatus     PaymentStatus     `db:"payment_status" json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `db:"fulfillment_status" json:"fulfillment_status"`
	BalanceAccountID  *string           `db:"balance_account_id" json:"balance_account_id"`
	Subtotal          decimal.Decimal   `db:"subtotal" json:"subtotal"`
	Total             decimal.Decimal   `db:"total" json:"total"`
	PaidAt            *time.Time        `db:"paid_at" json:"paid_at"`
	ApprovedBy        *string           `db:"approved_by" json:"approved_by"`
	ApprovedAt        *time.Time        `db:"approved_at" json:"approved_at"`
	ReviewNotes       *string           `db:"review_notes" json:"review_notes"`
	CompletedAt       *time.Time        `db:"completed_at" json:"completed_at"`
	Lines             []OrderLine       `db:"-" json:"lines"`
}

func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}

func (o *Order) IsClosed() bool {
	return o.FulfillmentStatus == FulfillmentDelivered || o.FulfillmentStatus == FulfillmentCancelled
}

// DeriveFulfillment computes the order status from its lines: DELIVERED when
// every line is, PARTIAL when anything was handed over, PENDING otherwise.
// CANCELLED is never derived.
func (o *Order) DeriveFulfillment() FulfillmentStatus {
	if len(o.Lines) == 0 {
		return FulfillmentPending
	}
	all, any := true, false
	for _, l := range o.Lines {
		if l.Status != LineDelivered {
			all = false
		}
		if l.Delivered > 0 {
			any = true
		}
	}
	switch {
	case all:
		return FulfillmentDelivered
	case any:
		return FulfillmentPartial
	}
	return FulfillmentPending
}

type OrderLine struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Delivered int             `db:"delivered" json:"delivered"`
	Status    LineStatus      `db:"status" json:"status"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
	Options   Options         `db:"options" json:"options"`
	// Components is what one unit consumed at sale time. Deliveries and
	// releases scale it, so later recipe edits never touch open orders.
	Components LineComponents `db:"components" json:"components"`

	ProductName string `db:"product_name" json:"product_name"`
}

func (l *OrderLine) Remaining() int {
	return l.Quantity - l.Delivered
}

// DeriveStatus follows delivered vs ordered; delivered never exceeds ordered.
func (l *OrderLine) DeriveStatus() LineStatus {
	switch {
	case l.Delivered >= l.Quantity:
		return LineDelivered
	case l.Delivered > 0:
		return LinePartial
	}
	return LinePending
}

// Options maps a recipe choice group to the chosen component code.
type Options map[string]string

func (o Options) Value() (driver.Value, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

func (o *Options) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*o = Options{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("options: unsupported scan type")
	}
	out := Options{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = out
	return nil
}

// LineComponent is the stock one unit of an order line consumes.
type LineComponent struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type LineComponents []LineComponent

func (c LineComponents) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *LineComponents) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("components: unsupported scan type")
	}
	var out LineComponents
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = out
	return nil
}
