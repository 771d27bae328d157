package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/inventory"
	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product"
	"github.com/fekuna/omnipos-bar-service/internal/venue"
	"github.com/fekuna/omnipos-bar-service/pkg/database"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	// Enforce turns reservation and commit checks on. When off, Reserve,
	// Commit and Release only append movements.
	Enforce                  bool
	DefaultLowStockThreshold int
}

type inventoryUseCase struct {
	repo     inventory.Repository
	products product.Repository
	venues   venue.Repository
	tx       database.Transactor
	opts     Options
	logger   logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, products product.Repository, venues venue.Repository, tx database.Transactor, opts Options, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		products: products,
		venues:   venues,
		tx:       tx,
		opts:     opts,
		logger:   log,
	}
}

func (uc *inventoryUseCase) Enforced() bool {
	return uc.opts.Enforce
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func (uc *inventoryUseCase) Reserve(ctx context.Context, in *dto.LedgerInput) error {
	if in.Quantity <= 0 {
		return apperr.Validation("quantity", "quantity must be positive")
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if uc.opts.Enforce {
			rec, err := uc.repo.LockRecord(ctx, in.ProductID, in.LocationID)
			if err != nil {
				return err
			}
			if rec == nil {
				return apperr.StockNotConfigured(nameOr(in.ProductName, in.ProductID), in.LocationID)
			}
			if rec.Available() < in.Quantity {
				return apperr.InsufficientStock(nameOr(rec.ProductName, in.ProductName), rec.Available(), in.Quantity)
			}
			rec.Reserved += in.Quantity
			rec.UpdatedAt = time.Now()
			if err := uc.repo.UpdateQuantities(ctx, rec); err != nil {
				return fmt.Errorf("reserve stock: %w", err)
			}
		}

		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ID:                    uuid.New().String(),
			ProductID:             in.ProductID,
			Kind:                  model.MovementReserve,
			Quantity:              in.Quantity,
			DestinationLocationID: optional(in.LocationID),
			UserID:                optional(in.UserID),
			OrderID:               optional(in.OrderID),
			Reason:                "Sale reservation",
			CreatedAt:             time.Now(),
		})
	})
}

// Commit converts a reservation into a real decrement. Reserved never goes
// below zero, so a commit larger than the outstanding reservation only
// consumes what is reserved.
func (uc *inventoryUseCase) Commit(ctx context.Context, in *dto.LedgerInput) error {
	if in.Quantity <= 0 {
		return apperr.Validation("quantity", "quantity must be positive")
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if uc.opts.Enforce {
			rec, err := uc.repo.LockRecord(ctx, in.ProductID, in.LocationID)
			if err != nil {
				return err
			}
			if rec == nil {
				return apperr.StockNotConfigured(nameOr(in.ProductName, in.ProductID), in.LocationID)
			}
			if rec.Quantity < in.Quantity {
				return apperr.InsufficientStock(nameOr(rec.ProductName, in.ProductName), rec.Quantity, in.Quantity)
			}
			rec.Quantity -= in.Quantity
			rec.Reserved -= min(rec.Reserved, in.Quantity)
			rec.UpdatedAt = time.Now()
			if err := uc.repo.UpdateQuantities(ctx, rec); err != nil {
				return fmt.Errorf("commit stock: %w", err)
			}
		}

		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ID:               uuid.New().String(),
			ProductID:        in.ProductID,
			Kind:             model.MovementCommit,
			Quantity:         -in.Quantity,
			SourceLocationID: optional(in.LocationID),
			UserID:           optional(in.UserID),
			OrderID:          optional(in.OrderID),
			DeliveryID:       optional(in.DeliveryID),
			Reason:           "Delivery confirmed",
			CreatedAt:        time.Now(),
		})
	})
}

func (uc *inventoryUseCase) Release(ctx context.Context, in *dto.LedgerInput) error {
	if in.Quantity <= 0 {
		return apperr.Validation("quantity", "quantity must be positive")
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if uc.opts.Enforce {
			rec, err := uc.repo.LockRecord(ctx, in.ProductID, in.LocationID)
			if err != nil {
				return err
			}
			if rec == nil {
				return apperr.StockNotConfigured(nameOr(in.ProductName, in.ProductID), in.LocationID)
			}
			rec.Reserved -= min(rec.Reserved, in.Quantity)
			rec.UpdatedAt = time.Now()
			if err := uc.repo.UpdateQuantities(ctx, rec); err != nil {
				return fmt.Errorf("release stock: %w", err)
			}
		}

		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ID:                    uuid.New().String(),
			ProductID:             in.ProductID,
			Kind:                  model.MovementRelease,
			Quantity:              in.Quantity,
			DestinationLocationID: optional(in.LocationID),
			UserID:                optional(in.UserID),
			OrderID:               optional(in.OrderID),
			Reason:                "Reservation released",
			CreatedAt:             time.Now(),
		})
	})
}

// stockedProduct loads a product that may carry inventory records.
func (uc *inventoryUseCase) stockedProduct(ctx context.Context, productID string) (*model.Product, error) {
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", productID)
	}
	if !p.Kind.Stocked() {
		return nil, apperr.Validation("product", fmt.Sprintf("%s does not carry its own stock", p.Name))
	}
	return p, nil
}

func (uc *inventoryUseCase) location(ctx context.Context, id string) (*model.StockLocation, error) {
	loc, err := uc.venues.FindLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperr.NotFound("stock location", id)
	}
	return loc, nil
}

// lockOrCreate returns the locked record, creating an empty one with the
// default low-stock threshold when the product is new at the location.
func (uc *inventoryUseCase) lockOrCreate(ctx context.Context, p *model.Product, loc *model.StockLocation) (*model.InventoryRecord, error) {
	rec, err := uc.repo.LockRecord(ctx, p.ID, loc.ID)
	if err != nil || rec != nil {
		return rec, err
	}

	threshold := uc.opts.DefaultLowStockThreshold
	rec = &model.InventoryRecord{
		ID:                uuid.New().String(),
		ProductID:         p.ID,
		LocationID:        loc.ID,
		LowStockThreshold: &threshold,
		UpdatedAt:         time.Now(),
		ProductName:       p.Name,
		LocationName:      loc.Name,
	}
	if err := uc.repo.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("create stock record: %w", err)
	}
	return rec, nil
}

func (uc *inventoryUseCase) Adjust(ctx context.Context, in *dto.AdjustInput) (*model.InventoryRecord, error) {
	if in.Delta == 0 {
		return nil, apperr.Validation("delta", "adjustment cannot be zero")
	}
	kind := in.Kind
	if kind == "" {
		kind = model.MovementAdjustment
	}
	if kind != model.MovementAdjustment && kind != model.MovementWaste {
		return nil, apperr.Validation("kind", fmt.Sprintf("unsupported adjustment kind %q", kind))
	}
	if kind == model.MovementWaste && in.Delta > 0 {
		return nil, apperr.Validation("delta", "waste must decrease stock")
	}
	if in.Reason == "" {
		return nil, apperr.Validation("reason", "a reason is required")
	}

	p, err := uc.stockedProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	loc, err := uc.location(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	var out *model.InventoryRecord
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := uc.repo.LockRecord(ctx, p.ID, loc.ID)
		if err != nil {
			return err
		}
		current := 0
		if rec != nil {
			current = rec.Quantity
		}
		if current+in.Delta < 0 {
			return apperr.NegativeStock(p.Name, current, in.Delta)
		}
		if rec == nil {
			if rec, err = uc.lockOrCreate(ctx, p, loc); err != nil {
				return err
			}
		}

		rec.Quantity += in.Delta
		rec.UpdatedAt = time.Now()
		if err := uc.repo.UpdateQuantities(ctx, rec); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}

		m := &model.StockMovement{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Kind:      kind,
			Quantity:  in.Delta,
			UserID:    optional(in.UserID),
			Reason:    in.Reason,
			Notes:     optional(in.Notes),
			CreatedAt: time.Now(),
		}
		if in.Delta > 0 {
			m.DestinationLocationID = &loc.ID
		} else {
			m.SourceLocationID = &loc.ID
		}
		if err := uc.repo.LogMovement(ctx, m); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", p.ID),
		zap.String("location_id", loc.ID),
		zap.Int("delta", in.Delta),
		zap.String("kind", string(kind)),
	)
	return out, nil
}

func (uc *inventoryUseCase) Inbound(ctx context.Context, in *dto.InboundInput) (*model.InventoryRecord, error) {
	if in.Quantity <= 0 {
		return nil, apperr.Validation("quantity", "quantity must be positive")
	}

	p, err := uc.stockedProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	loc, err := uc.location(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	reason := in.Reason
	if reason == "" {
		reason = "Stock received"
	}

	var out *model.InventoryRecord
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := uc.lockOrCreate(ctx, p, loc)
		if err != nil {
			return err
		}
		rec.Quantity += in.Quantity
		rec.UpdatedAt = time.Now()
		if err := uc.repo.UpdateQuantities(ctx, rec); err != nil {
			return fmt.Errorf("inbound stock: %w", err)
		}

		if err := uc.repo.LogMovement(ctx, &model.StockMovement{
			ID:                    uuid.New().String(),
			ProductID:             p.ID,
			Kind:                  model.MovementInbound,
			Quantity:              in.Quantity,
			DestinationLocationID: &loc.ID,
			UserID:                optional(in.UserID),
			Reason:                reason,
			Notes:                 optional(in.Notes),
			CreatedAt:             time.Now(),
		}); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer moves physical units between locations. Reservations at the
// source are not considered.
func (uc *inventoryUseCase) Transfer(ctx context.Context, in *dto.TransferInput) error {
	if in.Quantity <= 0 {
		return apperr.Validation("quantity", "quantity must be positive")
	}
	if in.FromLocationID == in.ToLocationID {
		return apperr.Validation("to_location_id", "source and destination must differ")
	}

	p, err := uc.stockedProduct(ctx, in.ProductID)
	if err != nil {
		return err
	}
	from, err := uc.location(ctx, in.FromLocationID)
	if err != nil {
		return err
	}
	to, err := uc.location(ctx, in.ToLocationID)
	if err != nil {
		return err
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Lock both rows in location id order.
		first, second := from, to
		if second.ID < first.ID {
			first, second = second, first
		}
		recs := map[string]*model.InventoryRecord{}
		for _, loc := range []*model.StockLocation{first, second} {
			rec, err := uc.repo.LockRecord(ctx, p.ID, loc.ID)
			if err != nil {
				return err
			}
			recs[loc.ID] = rec
		}

		src := recs[from.ID]
		if src == nil {
			return apperr.StockNotConfigured(p.Name, from.Name)
		}
		if src.Quantity < in.Quantity {
			return apperr.InsufficientStock(p.Name, src.Quantity, in.Quantity)
		}

		dst := recs[to.ID]
		if dst == nil {
			var err error
			if dst, err = uc.lockOrCreate(ctx, p, to); err != nil {
				return err
			}
		}

		now := time.Now()
		src.Quantity -= in.Quantity
		src.UpdatedAt = now
		dst.Quantity += in.Quantity
		dst.UpdatedAt = now
		if err := uc.repo.UpdateQuantities(ctx, src); err != nil {
			return fmt.Errorf("transfer source: %w", err)
		}
		if err := uc.repo.UpdateQuantities(ctx, dst); err != nil {
			return fmt.Errorf("transfer destination: %w", err)
		}

		reason := in.Reason
		if reason == "" {
			reason = "Transfer"
		}
		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ID:                    uuid.New().String(),
			ProductID:             p.ID,
			Kind:                  model.MovementTransfer,
			Quantity:              in.Quantity,
			SourceLocationID:      &from.ID,
			DestinationLocationID: &to.ID,
			UserID:                optional(in.UserID),
			Reason:                reason,
			Notes:                 optional(in.Notes),
			CreatedAt:             now,
		})
	})
}

func (uc *inventoryUseCase) GetStock(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error) {
	rec, err := uc.repo.GetRecord(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.StockNotConfigured(productID, locationID)
	}
	return rec, nil
}

func (uc *inventoryUseCase) ListStock(ctx context.Context, filters *dto.StockFilters) ([]model.InventoryRecord, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, eventID string, page, pageSize int) ([]model.InventoryRecord, int, error) {
	return uc.repo.FindAll(ctx, &dto.StockFilters{
		EventID:  eventID,
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
