package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	balanceDto "github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	deliveryDto "github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bar struct {
	*bartest.World
	bottle, speed, juice, combo, beer string
}

// newBar stocks a "Bottle+Mixer" composite (1 bottle and 5 of the chosen
// mixer) and a simple beer.
func newBar(t *testing.T) *bar {
	t.Helper()
	w := bartest.New(true)
	b := &bar{World: w}
	b.bottle = w.AddProduct("BOTTLE", "Bottle", model.KindBase, "0")
	b.speed = w.AddProduct("SPEED", "Speed", model.KindBase, "0")
	b.juice = w.AddProduct("JUICE", "Juice", model.KindBase, "0")
	b.combo = w.AddProduct("BOTTLE-MIX", "Bottle+Mixer", model.KindComposite, "120")
	b.beer = w.AddProduct("BEER", "Beer", model.KindSimple, "8")
	w.Store.SetRecipe(b.combo,
		bartest.Mandatory(b.bottle, 1),
		bartest.Choice(b.speed, "mixer", 5),
		bartest.Choice(b.juice, "mixer", 5),
	)
	for _, id := range []string{b.bottle, b.speed, b.juice, b.beer} {
		w.Store.SetStock(id, bartest.LocationID, 20, 0)
	}
	return b
}

func (b *bar) create(method model.PaymentMethod, lines ...dto.LineInput) (*dto.OrderResult, error) {
	return b.Orders.CreateOrder(context.Background(), &dto.CreateOrderInput{
		EventID:       bartest.EventID,
		RegisterID:    bartest.RegisterID,
		CashierID:     "cashier-1",
		PaymentMethod: method,
		Lines:         lines,
	})
}

func (b *bar) reserved(productID string) int {
	_, r := b.Stock(productID)
	return r
}

func TestCreateOrderExpandsChosenOption(t *testing.T) {
	b := newBar(t)

	res, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.combo, Quantity: 1, Options: map[string]string{"mixer": "SPEED"}})
	require.NoError(t, err)

	o := res.Order
	assert.Equal(t, model.PaymentPaid, o.PaymentStatus)
	assert.NotNil(t, o.PaidAt)
	assert.Equal(t, model.FulfillmentPending, o.FulfillmentStatus)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(120)))
	assert.True(t, strings.HasPrefix(o.Code, "P-"))
	assert.True(t, strings.HasSuffix(o.Code, "-0001"))
	assert.Equal(t, bartest.BaseURL+"/qr/"+o.AccessToken, res.QRURL)

	assert.Equal(t, 1, b.reserved(b.bottle))
	assert.Equal(t, 5, b.reserved(b.speed))
	assert.Equal(t, 0, b.reserved(b.juice))

	stored := b.Store.Order(o.ID)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, model.Options{"mixer": "SPEED"}, stored.Lines[0].Options)
	assert.Equal(t, []string{order.EventOrderCreated}, b.Published.Types())
}

func TestCreateOrderOptionErrors(t *testing.T) {
	b := newBar(t)

	_, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.combo, Quantity: 1})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeMissingOption, e.Code)
	assert.Equal(t, "mixer", e.Fields["Group"])

	_, err = b.create(model.PaymentCash, dto.LineInput{ProductID: b.combo, Quantity: 1, Options: map[string]string{"mixer": "speed"}})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidOption))

	_, err = b.create(model.PaymentCash, dto.LineInput{ProductID: b.bottle, Quantity: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotSellable))

	assert.Zero(t, b.Store.OrderCount())
	assert.Empty(t, b.Store.Movements())
}

func TestCreateOrderIsAtomic(t *testing.T) {
	t.Run("one short line aborts the whole order", func(t *testing.T) {
		b := newBar(t)
		b.Store.SetStock(b.beer, bartest.LocationID, 2, 0)

		_, err := b.create(model.PaymentCash,
			dto.LineInput{ProductID: b.combo, Quantity: 2, Options: map[string]string{"mixer": "JUICE"}},
			dto.LineInput{ProductID: b.beer, Quantity: 3},
		)
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.CodeInsufficientStock, e.Code)
		assert.Equal(t, "Beer", e.Fields["Product"])

		assert.Zero(t, b.Store.OrderCount())
		assert.Zero(t, b.reserved(b.bottle))
		assert.Zero(t, b.reserved(b.juice))
		assert.Empty(t, b.Store.Movements())
		assert.Empty(t, b.Published.Types())
	})

	t.Run("a failed charge leaves no order and no reservation", func(t *testing.T) {
		b := newBar(t)
		acc, err := b.Balances.CreateAccount(context.Background(), &balanceDto.CreateAccountInput{
			EventID: bartest.EventID, Amount: decimal.NewFromInt(100), CreatedBy: "c",
		})
		require.NoError(t, err)
		b.Store.FailOn("balances.CreateTransaction", errors.New("disk full"))

		_, err = b.Orders.CreateOrder(context.Background(), &dto.CreateOrderInput{
			EventID: bartest.EventID, RegisterID: bartest.RegisterID, CashierID: "c",
			PaymentMethod: model.PaymentBalance, BalanceToken: acc.AccessToken,
			Lines: []dto.LineInput{{ProductID: b.beer, Quantity: 2}},
		})
		require.Error(t, err)

		assert.Zero(t, b.Store.OrderCount())
		assert.Zero(t, b.reserved(b.beer))
		assert.True(t, b.Store.Account(acc.ID).Balance.Equal(decimal.NewFromInt(100)))
		assert.Len(t, b.Store.BalanceTransactions(), 1)
	})
}

func TestBalanceOrder(t *testing.T) {
	b := newBar(t)
	acc, err := b.Balances.CreateAccount(context.Background(), &balanceDto.CreateAccountInput{
		EventID: bartest.EventID, Amount: decimal.NewFromInt(16), CreatedBy: "c",
	})
	require.NoError(t, err)

	in := &dto.CreateOrderInput{
		EventID: bartest.EventID, RegisterID: bartest.RegisterID, CashierID: "c",
		PaymentMethod: model.PaymentBalance, BalanceToken: acc.AccessToken,
		Lines: []dto.LineInput{{ProductID: b.beer, Quantity: 2}},
	}
	res, err := b.Orders.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, res.Order.PaymentStatus)
	require.NotNil(t, res.Order.BalanceAccountID)
	assert.Equal(t, acc.ID, *res.Order.BalanceAccountID)

	after := b.Store.Account(acc.ID)
	assert.True(t, after.Balance.IsZero())
	assert.Equal(t, model.BalanceDepleted, after.Status)

	_, err = b.Orders.CreateOrder(context.Background(), in)
	assert.True(t, apperr.HasCode(err, apperr.CodeAccountInactive))
}

func TestConcurrentBalanceOrdersSpendOnce(t *testing.T) {
	b := newBar(t)
	acc, err := b.Balances.CreateAccount(context.Background(), &balanceDto.CreateAccountInput{
		EventID: bartest.EventID, Amount: decimal.NewFromInt(10), CreatedBy: "c",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.Orders.CreateOrder(context.Background(), &dto.CreateOrderInput{
				EventID: bartest.EventID, RegisterID: bartest.RegisterID, CashierID: "c",
				PaymentMethod: model.PaymentBalance, BalanceToken: acc.AccessToken,
				Lines: []dto.LineInput{{ProductID: b.beer, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, b.Store.OrderCount())
	assert.True(t, b.Store.Account(acc.ID).Balance.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 1, b.reserved(b.beer))
}

func TestReviewPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("approval is terminal", func(t *testing.T) {
		b := newBar(t)
		res, err := b.create(model.PaymentTransfer, dto.LineInput{ProductID: b.beer, Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPendingApproval, res.Order.PaymentStatus)
		assert.Nil(t, res.Order.PaidAt)

		pending, err := b.Payments.ListPending(ctx, bartest.EventID)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		o, err := b.Payments.ReviewPayment(ctx, &dto.ReviewInput{OrderID: res.Order.ID, Approve: true, ReviewerID: "admin"})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPaid, o.PaymentStatus)
		assert.NotNil(t, o.PaidAt)
		require.NotNil(t, o.ApprovedBy)
		assert.Equal(t, "admin", *o.ApprovedBy)

		for _, approve := range []bool{true, false} {
			_, err = b.Payments.ReviewPayment(ctx, &dto.ReviewInput{OrderID: res.Order.ID, Approve: approve, ReviewerID: "admin"})
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.CodeAlreadyProcessed, e.Code)
			assert.Equal(t, "PAID", e.Fields["Status"])
		}
		assert.Equal(t, model.PaymentPaid, b.Store.Order(res.Order.ID).PaymentStatus)
	})

	t.Run("rejection releases stock and cancels", func(t *testing.T) {
		b := newBar(t)
		res, err := b.create(model.PaymentTransfer, dto.LineInput{ProductID: b.combo, Quantity: 2, Options: map[string]string{"mixer": "JUICE"}})
		require.NoError(t, err)
		assert.Equal(t, 10, b.reserved(b.juice))

		o, err := b.Payments.ReviewPayment(ctx, &dto.ReviewInput{OrderID: res.Order.ID, Approve: false, Notes: "no transfer received", ReviewerID: "admin"})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentRejected, o.PaymentStatus)
		assert.Equal(t, model.FulfillmentCancelled, o.FulfillmentStatus)
		assert.Zero(t, b.reserved(b.juice))
		assert.Zero(t, b.reserved(b.bottle))

		_, err = b.Payments.ReviewPayment(ctx, &dto.ReviewInput{OrderID: res.Order.ID, Approve: true, ReviewerID: "admin"})
		assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyProcessed))
	})

	t.Run("cash orders cannot be reviewed", func(t *testing.T) {
		b := newBar(t)
		res, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.beer, Quantity: 1})
		require.NoError(t, err)
		_, err = b.Payments.ReviewPayment(ctx, &dto.ReviewInput{OrderID: res.Order.ID, Approve: true, ReviewerID: "admin"})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotTransfer))
	})
}

func TestReservationConservation(t *testing.T) {
	ctx := context.Background()
	b := newBar(t)

	first, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.beer, Quantity: 3})
	require.NoError(t, err)
	second, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.beer, Quantity: 4})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(second.Order.Code, "-0002"))

	outstanding := func() int {
		total := 0
		for _, id := range []string{first.Order.ID, second.Order.ID} {
			o := b.Store.Order(id)
			if o.FulfillmentStatus == model.FulfillmentCancelled {
				continue
			}
			for _, l := range o.Lines {
				total += l.Remaining()
			}
		}
		return total
	}
	check := func() {
		q, r := b.Stock(b.beer)
		assert.Equal(t, outstanding(), r)
		assert.GreaterOrEqual(t, q-r, 0)
	}
	check()

	deliver := func(res *dto.OrderResult, qty int) {
		_, err := b.Deliveries.RecordDelivery(ctx, &deliveryDto.RecordInput{
			OrderToken: res.Order.AccessToken, BarID: bartest.BarID, BartenderID: "bt-1",
			Items: []deliveryDto.ItemInput{{LineID: res.Order.Lines[0].ID, Quantity: qty}},
		})
		require.NoError(t, err)
	}
	deliver(first, 1)
	check()
	deliver(second, 4)
	check()

	_, err = b.Orders.CancelOrder(ctx, &dto.CancelInput{OrderID: first.Order.ID, Reason: "customer left", ActorID: "sup"})
	require.NoError(t, err)
	check()

	q, r := b.Stock(b.beer)
	assert.Equal(t, 15, q)
	assert.Zero(t, r)
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	b := newBar(t)
	res, err := b.create(model.PaymentTransfer, dto.LineInput{ProductID: b.beer, Quantity: 2})
	require.NoError(t, err)

	o, err := b.Orders.CancelOrder(ctx, &dto.CancelInput{OrderID: res.Order.ID, Reason: "duplicate", ActorID: "sup"})
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentCancelled, o.FulfillmentStatus)
	assert.Equal(t, model.PaymentRejected, o.PaymentStatus)
	assert.Zero(t, b.reserved(b.beer))

	_, err = b.Orders.CancelOrder(ctx, &dto.CancelInput{OrderID: res.Order.ID, ActorID: "sup"})
	assert.True(t, apperr.HasCode(err, apperr.CodeOrderCancelled))

	_, err = b.Orders.CancelOrder(ctx, &dto.CancelInput{OrderID: "missing", ActorID: "sup"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	assert.Equal(t, []string{order.EventOrderCreated, order.EventOrderCancelled}, b.Published.Types())
}

func TestCancelReleasesComponentsFixedAtSale(t *testing.T) {
	ctx := context.Background()
	b := newBar(t)
	res, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.combo, Quantity: 2, Options: map[string]string{"mixer": "JUICE"}})
	require.NoError(t, err)
	assert.Equal(t, 10, b.reserved(b.juice))
	require.Len(t, res.Order.Lines[0].Components, 2)

	// Juice leaves the recipe before the order is cancelled.
	b.Store.SetRecipe(b.combo,
		bartest.Mandatory(b.bottle, 2),
		bartest.Choice(b.speed, "mixer", 5),
	)

	_, err = b.Orders.CancelOrder(ctx, &dto.CancelInput{OrderID: res.Order.ID, ActorID: "sup"})
	require.NoError(t, err)
	for _, id := range []string{b.bottle, b.speed, b.juice} {
		q, r := b.Stock(id)
		assert.Equal(t, 20, q)
		assert.Zero(t, r)
	}
}

func TestGetByTokenIncludesDeliveries(t *testing.T) {
	ctx := context.Background()
	b := newBar(t)
	res, err := b.create(model.PaymentCash, dto.LineInput{ProductID: b.beer, Quantity: 2})
	require.NoError(t, err)
	_, err = b.Deliveries.RecordDelivery(ctx, &deliveryDto.RecordInput{
		OrderToken: res.Order.AccessToken, BarID: bartest.BarID, BartenderID: "bt-1",
		Items: []deliveryDto.ItemInput{{LineID: res.Order.Lines[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	detail, err := b.Orders.GetByToken(ctx, res.Order.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentPartial, detail.Order.FulfillmentStatus)
	require.Len(t, detail.Deliveries, 1)
	assert.Equal(t, 1, detail.Deliveries[0].Details[0].Quantity)

	_, err = b.Orders.GetByToken(ctx, "unknown")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
