package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/balance"
	balanceDto "github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/delivery"
	"github.com/fekuna/omnipos-bar-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
	"github.com/fekuna/omnipos-bar-service/internal/product"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	"github.com/fekuna/omnipos-bar-service/internal/sequence"
	"github.com/fekuna/omnipos-bar-service/internal/venue"
	"github.com/fekuna/omnipos-bar-service/pkg/broker"
	"github.com/fekuna/omnipos-bar-service/pkg/database"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Deps groups the collaborators shared by the order and payment use cases.
type Deps struct {
	Repo       order.Repository
	Products   product.Repository
	Recipes    recipe.UseCase
	Ledger     inventory.UseCase
	Balances   balance.UseCase
	Venues     venue.Repository
	Deliveries delivery.Repository
	Sequence   *sequence.Generator
	Tx         database.Transactor
	Publisher  broker.Publisher
	Logger     logger.ZapLogger
}

type Options struct {
	CodePrefix    string
	PublicBaseURL string
}

type orderUseCase struct {
	Deps
	opts Options
	now  func() time.Time
}

func NewOrderUseCase(deps Deps, opts Options) order.UseCase {
	return &orderUseCase{Deps: deps, opts: opts, now: time.Now}
}

func validateCreate(in *dto.CreateOrderInput) error {
	if in.EventID == "" || in.RegisterID == "" {
		return apperr.Validation("register_id", "event and register are required")
	}
	if in.CashierID == "" {
		return apperr.Validation("cashier_id", "cashier is required")
	}
	if !in.PaymentMethod.Valid() {
		return apperr.Validation("payment_method", fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	if in.PaymentMethod == model.PaymentBalance && in.BalanceToken == "" {
		return apperr.Validation("balance_token", "a balance token is required to pay with balance")
	}
	if len(in.Lines) == 0 {
		return apperr.Validation("lines", "an order needs at least one line")
	}
	for _, l := range in.Lines {
		if l.ProductID == "" {
			return apperr.Validation("product_id", "every line needs a product")
		}
		if l.Quantity <= 0 {
			return apperr.Validation("quantity", "quantity must be positive")
		}
	}
	return nil
}

// sellingLocation checks the register against the event and returns the
// stock location the event sells from.
func (uc *orderUseCase) sellingLocation(ctx context.Context, eventID, registerID string) (*model.StockLocation, error) {
	register, err := uc.Venues.FindRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperr.NotFound("register", registerID)
	}
	if register.EventID != eventID {
		return nil, apperr.Validation("register_id", "register does not belong to the event")
	}

	event, err := uc.Venues.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperr.NotFound("event", eventID)
	}
	if !event.IsActive {
		return nil, apperr.Validation("event_id", fmt.Sprintf("event %s is not active", event.Name))
	}

	loc, err := uc.Venues.ActiveStockLocation(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperr.Validation("event_id", fmt.Sprintf("event %s has no active stock location", event.Name))
	}
	return loc, nil
}

func (uc *orderUseCase) loadProducts(ctx context.Context, lines []dto.LineInput) (map[string]model.Product, error) {
	ids := make([]string, 0, len(lines))
	seen := map[string]bool{}
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}

	products, err := uc.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, id := range ids {
		p, ok := byID[id]
		switch {
		case !ok:
			return nil, apperr.NotFound("product", id)
		case !p.IsActive:
			return nil, apperr.ProductInactive(p.Name)
		case !p.Kind.Sellable():
			return nil, apperr.NotSellable(p.Name)
		}
	}
	return byID, nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, in *dto.CreateOrderInput) (*dto.OrderResult, error) {
	// 1. Validate input
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	// 2. Register, event and reservation location
	loc, err := uc.sellingLocation(ctx, in.EventID, in.RegisterID)
	if err != nil {
		return nil, err
	}

	// 3. Products, recipes and prices
	products, err := uc.loadProducts(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	o := &model.Order{
		BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		AccessToken:       uuid.New().String(),
		EventID:           in.EventID,
		RegisterID:        in.RegisterID,
		LocationID:        loc.ID,
		CashierID:         in.CashierID,
		PaymentMethod:     in.PaymentMethod,
		FulfillmentStatus: model.FulfillmentPending,
		Subtotal:          decimal.Zero,
	}

	demand := make([][]recipe.Requirement, 0, len(in.Lines))
	for _, l := range in.Lines {
		p := products[l.ProductID]
		perUnit, opts, err := uc.Recipes.Expand(ctx, &p, l.Options, 1)
		if err != nil {
			return nil, err
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		line := model.OrderLine{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			ProductID:   p.ID,
			Quantity:    l.Quantity,
			Status:      model.LinePending,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
			Options:     opts,
			Components:  recipe.Snapshot(recipe.Merge(perUnit)),
			ProductName: p.Name,
		}
		demand = append(demand, recipe.ForLine(&line, l.Quantity))
		o.Lines = append(o.Lines, line)
		o.Subtotal = o.Subtotal.Add(subtotal)
	}
	o.Total = o.Subtotal

	// 4. Payment policy
	if in.PaymentMethod == model.PaymentTransfer {
		o.PaymentStatus = model.PaymentPendingApproval
	} else {
		o.PaymentStatus = model.PaymentPaid
		o.PaidAt = &now
	}
	if in.PaymentMethod == model.PaymentBalance {
		// Early check outside the transaction; Debit repeats it under lock.
		acc, err := uc.Balances.Validate(ctx, in.BalanceToken, &o.Total)
		if err != nil {
			return nil, err
		}
		o.BalanceAccountID = &acc.ID
	}

	// 5. Code and access token
	o.Code, err = uc.Sequence.Next(ctx, uc.opts.CodePrefix, uc.Repo.CountCreatedSince)
	if err != nil {
		return nil, err
	}

	// 6. Persist, reserve and charge atomically
	err = uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.Repo.Create(ctx, o); err != nil {
			return err
		}

		for _, req := range recipe.Merge(demand...) {
			if err := uc.Ledger.Reserve(ctx, &invDto.LedgerInput{
				ProductID:   req.ProductID,
				ProductName: req.ProductName,
				LocationID:  loc.ID,
				Quantity:    req.Quantity,
				UserID:      in.CashierID,
				OrderID:     o.ID,
			}); err != nil {
				return err
			}
		}

		if in.PaymentMethod == model.PaymentBalance {
			if _, err := uc.Balances.Debit(ctx, &balanceDto.DebitInput{
				Token:     in.BalanceToken,
				Amount:    o.Total,
				OrderID:   o.ID,
				OrderCode: o.Code,
				Actor:     in.CashierID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Notify
	uc.Logger.Info("order created",
		zap.String("code", o.Code),
		zap.String("payment_method", string(o.PaymentMethod)),
		zap.String("total", o.Total.StringFixed(2)),
	)
	publish(ctx, uc.Deps, order.EventOrderCreated, dto.NewOrderEvent(o, in.CashierID, true))

	return &dto.OrderResult{Order: o, QRURL: uc.qrURL(o.AccessToken)}, nil
}

func (uc *orderUseCase) qrURL(token string) string {
	return strings.TrimRight(uc.opts.PublicBaseURL, "/") + "/qr/" + token
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("order", id)
	}
	return o, nil
}

func (uc *orderUseCase) GetByToken(ctx context.Context, token string) (*dto.OrderDetail, error) {
	o, err := uc.Repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("order", token)
	}

	deliveries, err := uc.Deliveries.FindByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &dto.OrderDetail{Order: o, Deliveries: deliveries}, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.Repo.FindAll(ctx, filters)
}

// CancelOrder voids an order that is not fully delivered. Undelivered units
// give back their reservation; a pending transfer is rejected. Refunds of
// paid orders are handled outside the bar core.
func (uc *orderUseCase) CancelOrder(ctx context.Context, in *dto.CancelInput) (*model.Order, error) {
	var out *model.Order
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.Repo.LockByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.NotFound("order", in.OrderID)
		}
		switch o.FulfillmentStatus {
		case model.FulfillmentCancelled:
			return apperr.OrderCancelled(o.Code)
		case model.FulfillmentDelivered:
			return apperr.OrderDelivered(o.Code)
		}

		if err := releaseOutstanding(ctx, uc.Deps, o, in.ActorID); err != nil {
			return err
		}

		now := uc.now()
		o.FulfillmentStatus = model.FulfillmentCancelled
		if o.PaymentStatus == model.PaymentPendingApproval {
			o.PaymentStatus = model.PaymentRejected
			o.ApprovedBy = &in.ActorID
			o.ApprovedAt = &now
		}
		if in.Reason != "" {
			o.ReviewNotes = &in.Reason
		}
		o.UpdatedAt = now
		if err := uc.Repo.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("order cancelled", zap.String("code", out.Code), zap.String("actor", in.ActorID))
	publish(ctx, uc.Deps, order.EventOrderCancelled, dto.NewOrderEvent(out, in.ActorID, false))
	return out, nil
}

// releaseOutstanding gives back the reservation of every undelivered unit,
// using the components frozen on each line at sale time.
func releaseOutstanding(ctx context.Context, deps Deps, o *model.Order, actor string) error {
	demand := [][]recipe.Requirement{}
	for i := range o.Lines {
		l := &o.Lines[i]
		if remaining := l.Remaining(); remaining > 0 {
			demand = append(demand, recipe.ForLine(l, remaining))
		}
	}

	for _, req := range recipe.Merge(demand...) {
		if err := deps.Ledger.Release(ctx, &invDto.LedgerInput{
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			LocationID:  o.LocationID,
			Quantity:    req.Quantity,
			UserID:      actor,
			OrderID:     o.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// publish is best effort: the order is already committed.
func publish(ctx context.Context, deps Deps, eventType string, payload dto.OrderEvent) {
	if deps.Publisher == nil {
		return
	}
	ev, err := broker.NewEvent(eventType, payload)
	if err == nil {
		err = deps.Publisher.Publish(ctx, payload.ID, ev)
	}
	if err != nil {
		deps.Logger.Warn("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", payload.ID),
			zap.Error(err),
		)
	}
}
