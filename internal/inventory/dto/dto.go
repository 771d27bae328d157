package dto

import "time"

type StockFilters struct {
	ProductID  string
	LocationID string
	EventID    string
	LowStock   bool // available <= low_stock_threshold
	Page       int
	PageSize   int
}

type MovementFilters struct {
	ProductID  string
	LocationID string // source or destination
	Kind       string
	OrderID    string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}
