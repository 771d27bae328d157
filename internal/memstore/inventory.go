package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type InventoryRepo struct{ s *Store }

func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{s: s} }

// joined must be called with s.mu held.
func (r *InventoryRepo) joined(rec model.InventoryRecord) model.InventoryRecord {
	rec.ProductName = r.s.data.products[rec.ProductID].Name
	rec.LocationName = r.s.data.locations[rec.LocationID].Name
	return rec
}

func (r *InventoryRepo) LockRecord(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error) {
	if !inTx(ctx) {
		return nil, ErrLockOutsideTx
	}
	return r.GetRecord(ctx, productID, locationID)
}

func (r *InventoryRepo) GetRecord(_ context.Context, productID, locationID string) (*model.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.data.stock[stockKey{productID, locationID}]
	if !ok {
		return nil, nil
	}
	rec = r.joined(rec)
	return &rec, nil
}

func (r *InventoryRepo) FindAll(_ context.Context, f *dto.StockFilters) ([]model.InventoryRecord, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.InventoryRecord{}
	for _, rec := range r.s.data.stock {
		switch {
		case f.ProductID != "" && rec.ProductID != f.ProductID:
			continue
		case f.LocationID != "" && rec.LocationID != f.LocationID:
			continue
		case f.EventID != "" && r.s.data.locations[rec.LocationID].EventID != f.EventID:
			continue
		case f.LowStock && !rec.IsLow():
			continue
		}
		out = append(out, r.joined(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].LocationName < out[j].LocationName
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *InventoryRepo) CreateRecord(_ context.Context, rec *model.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := stockKey{rec.ProductID, rec.LocationID}
	if _, ok := r.s.data.stock[key]; ok {
		return fmt.Errorf("memstore: stock record %s/%s already exists", rec.ProductID, rec.LocationID)
	}
	r.s.data.stock[key] = *rec
	return nil
}

func (r *InventoryRepo) UpdateQuantities(_ context.Context, rec *model.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := stockKey{rec.ProductID, rec.LocationID}
	cur, ok := r.s.data.stock[key]
	if !ok {
		return fmt.Errorf("memstore: stock record %s/%s not found", rec.ProductID, rec.LocationID)
	}
	cur.Quantity, cur.Reserved, cur.UpdatedAt = rec.Quantity, rec.Reserved, rec.UpdatedAt
	r.s.data.stock[key] = cur
	return nil
}

func (r *InventoryRepo) LogMovement(_ context.Context, m *model.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventory.LogMovement"); err != nil {
		return err
	}
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

func (r *InventoryRepo) ListMovements(_ context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	eq := func(p *string, v string) bool { return p != nil && *p == v }
	out := []model.StockMovement{}
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		switch {
		case f.ProductID != "" && m.ProductID != f.ProductID:
			continue
		case f.LocationID != "" && !eq(m.SourceLocationID, f.LocationID) && !eq(m.DestinationLocationID, f.LocationID):
			continue
		case f.Kind != "" && string(m.Kind) != f.Kind:
			continue
		case f.OrderID != "" && !eq(m.OrderID, f.OrderID):
			continue
		case f.StartDate != nil && m.CreatedAt.Before(*f.StartDate):
			continue
		case f.EndDate != nil && !m.CreatedAt.Before(*f.EndDate):
			continue
		}
		out = append(out, m)
	}
	return paginate(out, f.Page, f.PageSize), len(out), nil
}
