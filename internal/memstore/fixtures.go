package memstore

import (
	"slices"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/google/uuid"
)

// Fixture setters write straight into the store, bypassing failure hooks.

func (s *Store) AddEvent(e model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.events[e.ID] = e
}

func (s *Store) AddRegister(r model.Register) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.registers[r.ID] = r
}

func (s *Store) AddBar(b model.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.bars[b.ID] = b
}

func (s *Store) AddLocation(l model.StockLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.locations[l.ID] = l
}

func (s *Store) AddProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Recipe = nil
	s.data.products[p.ID] = p
}

func (s *Store) SetRecipe(productID string, lines ...model.RecipeLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].ProductID = productID
	}
	s.data.recipes[productID] = lines
}

func (s *Store) SetStock(productID, locationID string, quantity, reserved int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.stock[stockKey{productID, locationID}] = model.InventoryRecord{
		ID:         uuid.New().String(),
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
		Reserved:   reserved,
		UpdatedAt:  time.Now(),
	}
}

// Record returns the stock record, or nil when none exists.
func (s *Store) Record(productID, locationID string) *model.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data.stock[stockKey{productID, locationID}]
	if !ok {
		return nil
	}
	return &rec
}

func (s *Store) Movements() []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.movements)
}

func (s *Store) Order(id string) *model.Order {
	return s.Orders().find(func(o model.Order) bool { return o.ID == id })
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

func (s *Store) Account(id string) *model.BalanceAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

func (s *Store) BalanceTransactions() []model.BalanceTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.balanceTxs)
}

func (s *Store) AllDeliveries() []model.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.deliveries)
}
