// Package memstore is an in-memory implementation of every repository and of
// database.Transactor. Transactions are serialized by a store-wide lock that
// stands in for row locks, and a failing transaction restores the snapshot
// taken when it began.
package memstore

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type txKey struct{}

type stockKey struct {
	productID  string
	locationID string
}

type state struct {
	products   map[string]model.Product
	recipes    map[string][]model.RecipeLine
	stock      map[stockKey]model.InventoryRecord
	movements  []model.StockMovement
	orders     map[string]model.Order
	lines      map[string][]model.OrderLine
	deliveries []model.Delivery
	accounts   map[string]model.BalanceAccount
	balanceTxs []model.BalanceTransaction
	events     map[string]model.Event
	registers  map[string]model.Register
	bars       map[string]model.Bar
	locations  map[string]model.StockLocation
}

func newState() *state {
	return &state{
		products:  map[string]model.Product{},
		recipes:   map[string][]model.RecipeLine{},
		stock:     map[stockKey]model.InventoryRecord{},
		orders:    map[string]model.Order{},
		lines:     map[string][]model.OrderLine{},
		accounts:  map[string]model.BalanceAccount{},
		events:    map[string]model.Event{},
		registers: map[string]model.Register{},
		bars:      map[string]model.Bar{},
		locations: map[string]model.StockLocation{},
	}
}

func (s *state) clone() *state {
	lines := make(map[string][]model.OrderLine, len(s.lines))
	for k, v := range s.lines {
		lines[k] = slices.Clone(v)
	}
	recipes := make(map[string][]model.RecipeLine, len(s.recipes))
	for k, v := range s.recipes {
		recipes[k] = slices.Clone(v)
	}
	return &state{
		products:   maps.Clone(s.products),
		recipes:    recipes,
		stock:      maps.Clone(s.stock),
		movements:  slices.Clone(s.movements),
		orders:     maps.Clone(s.orders),
		lines:      lines,
		deliveries: slices.Clone(s.deliveries),
		accounts:   maps.Clone(s.accounts),
		balanceTxs: slices.Clone(s.balanceTxs),
		events:     maps.Clone(s.events),
		registers:  maps.Clone(s.registers),
		bars:       maps.Clone(s.bars),
		locations:  maps.Clone(s.locations),
	}
}

var ErrLockOutsideTx = errors.New("memstore: row lock requested outside a transaction")

type Store struct {
	mu       sync.Mutex
	txSem    chan struct{}
	data     *state
	failures map[string]error
}

func New() *Store {
	return &Store{
		txSem:    make(chan struct{}, 1),
		data:     newState(),
		failures: map[string]error{},
	}
}

// WithinTx runs fn while holding the store lock. A nested call joins the
// outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	select {
	case s.txSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.txSem }()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	committed := false
	defer func() {
		if !committed {
			s.mu.Lock()
			s.data = snapshot
			s.mu.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// FailOn makes the next call of op return err. Ops are named
// "<repository>.<Method>", e.g. "balances.CreateTransaction".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// fail must be called with s.mu held.
func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

func paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	start := (max(page, 1) - 1) * size
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+size, len(items))]
}
