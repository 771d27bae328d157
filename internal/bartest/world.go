// Package bartest wires the bar use cases over memstore for tests.
package bartest

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/balance"
	balanceUC "github.com/fekuna/omnipos-bar-service/internal/balance/usecase"
	"github.com/fekuna/omnipos-bar-service/internal/delivery"
	deliveryUC "github.com/fekuna/omnipos-bar-service/internal/delivery/usecase"
	"github.com/fekuna/omnipos-bar-service/internal/inventory"
	inventoryUC "github.com/fekuna/omnipos-bar-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-bar-service/internal/memstore"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order"
	orderUC "github.com/fekuna/omnipos-bar-service/internal/order/usecase"
	"github.com/fekuna/omnipos-bar-service/internal/product"
	productUC "github.com/fekuna/omnipos-bar-service/internal/product/usecase"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	recipeUC "github.com/fekuna/omnipos-bar-service/internal/recipe/usecase"
	"github.com/fekuna/omnipos-bar-service/internal/sequence"
	"github.com/fekuna/omnipos-bar-service/pkg/broker"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventID    = "evt-1"
	RegisterID = "reg-1"
	LocationID = "loc-main"
	BarID      = "bar-1"
	BaseURL    = "https://bar.example"
)

// Recorder is a broker.Publisher that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []broker.Event
}

func (r *Recorder) Publish(_ context.Context, _ string, ev broker.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType
	}
	return out
}

type World struct {
	Store     *memstore.Store
	Published *Recorder

	Products   product.UseCase
	Recipes    recipe.UseCase
	Ledger     inventory.UseCase
	Balances   balance.UseCase
	Orders     order.UseCase
	Payments   order.PaymentUseCase
	Deliveries delivery.UseCase
}

// New builds a world with one active event selling from LocationID through
// RegisterID, and one bar.
func New(enforce bool) *World {
	store := memstore.New()
	store.AddEvent(model.Event{ID: EventID, Name: "Summer Fest", IsActive: true})
	store.AddRegister(model.Register{ID: RegisterID, EventID: EventID, Name: "Register 1"})
	store.AddLocation(model.StockLocation{ID: LocationID, EventID: EventID, Name: "Main storage", Type: "WAREHOUSE", IsActive: true})
	store.AddBar(model.Bar{ID: BarID, EventID: EventID, Name: "Main bar"})

	log := logger.NewNop()
	rec := &Recorder{}
	seq := sequence.NewGenerator(nil, time.Local, log)

	recipes := recipeUC.NewRecipeUseCase(store.Products(), nil, log)
	ledger := inventoryUC.NewInventoryUseCase(store.Inventory(), store.Products(), store.Venues(), store,
		inventoryUC.Options{Enforce: enforce, DefaultLowStockThreshold: 10}, log)
	balances := balanceUC.NewBalanceUseCase(store.Balances(), store.Venues(), seq, store,
		balanceUC.Options{CodePrefix: "QRC", PublicBaseURL: BaseURL}, log)

	deps := orderUC.Deps{
		Repo:       store.Orders(),
		Products:   store.Products(),
		Recipes:    recipes,
		Ledger:     ledger,
		Balances:   balances,
		Venues:     store.Venues(),
		Deliveries: store.Deliveries(),
		Sequence:   seq,
		Tx:         store,
		Publisher:  rec,
		Logger:     log,
	}

	return &World{
		Store:     store,
		Published: rec,
		Products:  productUC.NewProductUseCase(store.Products(), recipes, store, nil, nil, log),
		Recipes:   recipes,
		Ledger:    ledger,
		Balances:  balances,
		Orders:    orderUC.NewOrderUseCase(deps, orderUC.Options{CodePrefix: "P", PublicBaseURL: BaseURL}),
		Payments:  orderUC.NewPaymentUseCase(deps),
		Deliveries: deliveryUC.NewDeliveryUseCase(deliveryUC.Deps{
			Repo:      store.Deliveries(),
			Orders:    store.Orders(),
			Ledger:    ledger,
			Venues:    store.Venues(),
			Tx:        store,
			Publisher: rec,
			Logger:    log,
		}),
	}
}

// AddProduct registers an active product and returns its id.
func (w *World) AddProduct(code, name string, kind model.ProductKind, price string) string {
	id := uuid.New().String()
	now := time.Now()
	w.Store.AddProduct(model.Product{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Code:      code,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Category:  "drinks",
		Kind:      kind,
		IsActive:  true,
	})
	return id
}

func Mandatory(componentID string, qty int) model.RecipeLine {
	return model.RecipeLine{ComponentID: componentID, Quantity: qty}
}

func Choice(componentID, group string, qty int) model.RecipeLine {
	return model.RecipeLine{ComponentID: componentID, Quantity: qty, Optional: true, OptionGroup: &group}
}

// Stock returns quantity and reserved at LocationID, zeros when unset.
func (w *World) Stock(productID string) (quantity, reserved int) {
	rec := w.Store.Record(productID, LocationID)
	if rec == nil {
		return 0, 0
	}
	return rec.Quantity, rec.Reserved
}
