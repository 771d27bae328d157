package inventory

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

// UseCase is the inventory ledger. Every write goes through it and joins the
// transaction carried by ctx when there is one.
type UseCase interface {
	Reserve(ctx context.Context, input *dto.LedgerInput) error
	Commit(ctx context.Context, input *dto.LedgerInput) error
	Release(ctx context.Context, input *dto.LedgerInput) error

	Adjust(ctx context.Context, input *dto.AdjustInput) (*model.InventoryRecord, error)
	Inbound(ctx context.Context, input *dto.InboundInput) (*model.InventoryRecord, error)
	Transfer(ctx context.Context, input *dto.TransferInput) error

	GetStock(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error)
	ListStock(ctx context.Context, filters *dto.StockFilters) ([]model.InventoryRecord, int, error)
	ListLowStock(ctx context.Context, eventID string, page, pageSize int) ([]model.InventoryRecord, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	Enforced() bool
}
