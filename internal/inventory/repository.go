package inventory

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type Repository interface {
	// LockRecord selects the record FOR UPDATE. It returns (nil, nil) when the
	// product has no record at the location.
	LockRecord(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error)
	GetRecord(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error)
	FindAll(ctx context.Context, filters *dto.StockFilters) ([]model.InventoryRecord, int, error)

	CreateRecord(ctx context.Context, rec *model.InventoryRecord) error
	UpdateQuantities(ctx context.Context, rec *model.InventoryRecord) error

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
