// Package barposv1 holds the wire messages and service descriptors of the bar
// gRPC API. Messages travel as JSON through the grpcjson codec; money is a
// decimal string with two places.
package barposv1

import "time"

// --- Shared ---

type Paging struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

// --- Catalog ---

type RecipeLine struct {
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code,omitempty"`
	ComponentName string `json:"component_name,omitempty"`
	Quantity      int32  `json:"quantity"`
	Optional      bool   `json:"optional"`
	OptionGroup   string `json:"option_group,omitempty"`
}

type Product struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       string       `json:"price"`
	Category    string       `json:"category"`
	Kind        string       `json:"kind"`
	IsActive    bool         `json:"is_active"`
	Recipe      []RecipeLine `json:"recipe,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateProductRequest struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       string       `json:"price"`
	Category    string       `json:"category"`
	Kind        string       `json:"kind"`
	Recipe      []RecipeLine `json:"recipe"`
}

// UpdateProductRequest replaces the recipe only when Recipe is present.
type UpdateProductRequest struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       string       `json:"price"`
	Category    string       `json:"category"`
	IsActive    bool         `json:"is_active"`
	Recipe      []RecipeLine `json:"recipe"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type ProductResponse struct {
	Product *Product `json:"product"`
}

type ListProductsRequest struct {
	Category  string `json:"category"`
	Kind      string `json:"kind"`
	IsActive  *bool  `json:"is_active"`
	Query     string `json:"query"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Paging
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
	Total    int32      `json:"total"`
	Paging
}

type RecipeComponent struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
}

type ResolveRecipeRequest struct {
	ProductID string `json:"product_id"`
}

// ResolveRecipeResponse has a nil Recipe for products without one.
type ResolveRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

type Recipe struct {
	ProductID      string                       `json:"product_id"`
	ProductName    string                       `json:"product_name"`
	Mandatory      []RecipeComponent            `json:"mandatory"`
	OptionalGroups map[string][]RecipeComponent `json:"optional_groups"`
}

// --- Orders ---

type OrderLine struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Quantity    int32             `json:"quantity"`
	Delivered   int32             `json:"delivered"`
	Status      string            `json:"status"`
	UnitPrice   string            `json:"unit_price"`
	Subtotal    string            `json:"subtotal"`
	Options     map[string]string `json:"options,omitempty"`
}

type Order struct {
	ID                string      `json:"id"`
	Code              string      `json:"code"`
	AccessToken       string      `json:"access_token"`
	EventID           string      `json:"event_id"`
	RegisterID        string      `json:"register_id"`
	CashierID         string      `json:"cashier_id"`
	PaymentMethod     string      `json:"payment_method"`
	PaymentStatus     string      `json:"payment_status"`
	FulfillmentStatus string      `json:"fulfillment_status"`
	Total             string      `json:"total"`
	PaidAt            *time.Time  `json:"paid_at,omitempty"`
	ApprovedBy        string      `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time  `json:"approved_at,omitempty"`
	ReviewNotes       string      `json:"review_notes,omitempty"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	Lines             []OrderLine `json:"lines,omitempty"`
}

type OrderLineRequest struct {
	ProductID string            `json:"product_id"`
	Quantity  int32             `json:"quantity"`
	Options   map[string]string `json:"options"`
}

type CreateOrderRequest struct {
	EventID       string             `json:"event_id"`
	RegisterID    string             `json:"register_id"`
	PaymentMethod string             `json:"payment_method"`
	BalanceToken  string             `json:"balance_token"`
	Lines         []OrderLineRequest `json:"lines"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
	QRURL string `json:"qr_url,omitempty"`
}

type GetOrderRequest struct {
	ID string `json:"id"`
}

type GetOrderByTokenRequest struct {
	Token string `json:"token"`
}

type OrderDetailResponse struct {
	Order      *Order      `json:"order"`
	Deliveries []*Delivery `json:"deliveries"`
}

type ListOrdersRequest struct {
	EventID           string `json:"event_id"`
	RegisterID        string `json:"register_id"`
	PaymentMethod     string `json:"payment_method"`
	PaymentStatus     string `json:"payment_status"`
	FulfillmentStatus string `json:"fulfillment_status"`
	Date              string `json:"date"` // YYYY-MM-DD, local day
	Paging
}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
	Total  int32    `json:"total"`
	Paging
}

type CancelOrderRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ReviewPaymentRequest struct {
	OrderID string `json:"order_id"`
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

type ListPendingPaymentsRequest struct {
	EventID string `json:"event_id"`
}

// --- Deliveries ---

type DeliveryItem struct {
	LineID   string `json:"line_id"`
	Quantity int32  `json:"quantity"`
}

type Delivery struct {
	ID          string         `json:"id"`
	OrderID     string         `json:"order_id"`
	BarID       string         `json:"bar_id"`
	BartenderID string         `json:"bartender_id"`
	Notes       string         `json:"notes,omitempty"`
	Items       []DeliveryItem `json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
}

type RecordDeliveryRequest struct {
	OrderToken string         `json:"order_token"`
	BarID      string         `json:"bar_id"`
	Notes      string         `json:"notes"`
	Items      []DeliveryItem `json:"items"`
}

type RecordDeliveryResponse struct {
	Delivery *Delivery `json:"delivery"`
	Order    *Order    `json:"order"`
}

type ListDeliveriesRequest struct {
	OrderID     string `json:"order_id"`
	BarID       string `json:"bar_id"`
	BartenderID string `json:"bartender_id"`
	Date        string `json:"date"`
	Paging
}

type ListDeliveriesResponse struct {
	Deliveries []*Delivery `json:"deliveries"`
	Total      int32       `json:"total"`
	Paging
}

// --- Balance accounts ---

type Account struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	AccessToken   string     `json:"access_token"`
	EventID       string     `json:"event_id"`
	InitialAmount string     `json:"initial_amount"`
	Balance       string     `json:"balance"`
	Status        string     `json:"status"`
	HolderName    string     `json:"holder_name,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type BalanceTransaction struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id,omitempty"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateAccountRequest struct {
	EventID    string     `json:"event_id"`
	Amount     string     `json:"amount"`
	HolderName string     `json:"holder_name"`
	Notes      string     `json:"notes"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type AccountResponse struct {
	Account *Account `json:"account"`
	URL     string   `json:"url,omitempty"`
}

// ValidateAccountRequest checks funds only when RequiredAmount is set.
type ValidateAccountRequest struct {
	Token          string `json:"token"`
	RequiredAmount string `json:"required_amount"`
}

type AccountTokenRequest struct {
	Token string `json:"token"`
}

type LoadBalanceRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
	Notes  string `json:"notes"`
}

type BalanceTransactionResponse struct {
	Transaction *BalanceTransaction `json:"transaction"`
}

type ListAccountsRequest struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
	Paging
}

type ListAccountsResponse struct {
	Accounts []*Account `json:"accounts"`
	Total    int32      `json:"total"`
	Paging
}

type ListTransactionsResponse struct {
	Transactions []*BalanceTransaction `json:"transactions"`
}

// --- Inventory ---

type StockRecord struct {
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	LocationID        string    `json:"location_id"`
	LocationName      string    `json:"location_name"`
	Quantity          int32     `json:"quantity"`
	Reserved          int32     `json:"reserved"`
	Available         int32     `json:"available"`
	LowStockThreshold *int32    `json:"low_stock_threshold,omitempty"`
	IsLow             bool      `json:"is_low"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type StockMovement struct {
	ID                    string    `json:"id"`
	ProductID             string    `json:"product_id"`
	Kind                  string    `json:"kind"`
	Quantity              int32     `json:"quantity"`
	SourceLocationID      string    `json:"source_location_id,omitempty"`
	DestinationLocationID string    `json:"destination_location_id,omitempty"`
	UserID                string    `json:"user_id,omitempty"`
	OrderID               string    `json:"order_id,omitempty"`
	DeliveryID            string    `json:"delivery_id,omitempty"`
	Reason                string    `json:"reason"`
	Notes                 string    `json:"notes,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

type AdjustStockRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Delta      int32  `json:"delta"`
	Kind       string `json:"kind"` // ADJUSTMENT (default) or WASTE
	Reason     string `json:"reason"`
	Notes      string `json:"notes"`
}

type RecordInboundRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int32  `json:"quantity"`
	Reason     string `json:"reason"`
	Notes      string `json:"notes"`
}

type TransferStockRequest struct {
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int32  `json:"quantity"`
	Reason         string `json:"reason"`
	Notes          string `json:"notes"`
}

type StockResponse struct {
	Stock *StockRecord `json:"stock"`
}

type GetStockRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
}

type ListStockRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	EventID    string `json:"event_id"`
	LowStock   bool   `json:"low_stock"`
	Paging
}

type ListStockResponse struct {
	Stock []*StockRecord `json:"stock"`
	Total int32          `json:"total"`
	Paging
}

type ListLowStockRequest struct {
	EventID string `json:"event_id"`
	Paging
}

type ListMovementsRequest struct {
	ProductID  string     `json:"product_id"`
	LocationID string     `json:"location_id"`
	Kind       string     `json:"kind"`
	OrderID    string     `json:"order_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Paging
}

type ListMovementsResponse struct {
	Movements []*StockMovement `json:"movements"`
	Total     int32            `json:"total"`
	Paging
}
