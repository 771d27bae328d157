package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	"github.com/fekuna/omnipos-bar-service/internal/delivery"
	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	orderDto "github.com/fekuna/omnipos-bar-service/internal/order/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	*bartest.World
	gin, tonic, soda, gt, beer string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := bartest.New(true)
	f := &fixture{World: w}
	f.gin = w.AddProduct("GIN", "Gin", model.KindBase, "0")
	f.tonic = w.AddProduct("TONIC", "Tonic", model.KindBase, "0")
	f.soda = w.AddProduct("SODA", "Soda", model.KindBase, "0")
	f.gt = w.AddProduct("GT", "Gin Tonic", model.KindComposite, "90")
	f.beer = w.AddProduct("BEER", "Beer", model.KindSimple, "8")
	w.Store.SetRecipe(f.gt,
		bartest.Mandatory(f.gin, 1),
		bartest.Choice(f.tonic, "mixer", 2),
		bartest.Choice(f.soda, "mixer", 2),
	)
	for _, id := range []string{f.gin, f.tonic, f.soda, f.beer} {
		w.Store.SetStock(id, bartest.LocationID, 50, 0)
	}
	return f
}

func (f *fixture) order(t *testing.T, method model.PaymentMethod, lines ...orderDto.LineInput) *model.Order {
	t.Helper()
	res, err := f.Orders.CreateOrder(context.Background(), &orderDto.CreateOrderInput{
		EventID:       bartest.EventID,
		RegisterID:    bartest.RegisterID,
		CashierID:     "cashier-1",
		PaymentMethod: method,
		Lines:         lines,
	})
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) deliver(o *model.Order, items ...dto.ItemInput) (*dto.RecordResult, error) {
	return f.Deliveries.RecordDelivery(context.Background(), &dto.RecordInput{
		OrderToken:  o.AccessToken,
		BarID:       bartest.BarID,
		BartenderID: "bt-1",
		Items:       items,
	})
}

func TestRecordDeliveryCommitsStoredOption(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.gt, Quantity: 3, Options: map[string]string{"mixer": "SODA"}})

	res, err := f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentPartial, res.Order.FulfillmentStatus)
	assert.Nil(t, res.Order.CompletedAt)
	assert.Equal(t, model.LinePartial, res.Order.Lines[0].Status)
	require.Len(t, res.Delivery.Details, 1)

	q, r := f.Stock(f.soda)
	assert.Equal(t, 46, q)
	assert.Equal(t, 2, r)
	q, r = f.Stock(f.tonic)
	assert.Equal(t, 50, q)
	assert.Zero(t, r)
	q, r = f.Stock(f.gin)
	assert.Equal(t, 48, q)
	assert.Equal(t, 1, r)

	res, err = f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentDelivered, res.Order.FulfillmentStatus)
	assert.Equal(t, model.LineDelivered, res.Order.Lines[0].Status)
	assert.NotNil(t, res.Order.CompletedAt)

	_, r = f.Stock(f.soda)
	assert.Zero(t, r)
	assert.Len(t, f.Store.AllDeliveries(), 2)
	assert.Contains(t, f.Published.Types(), delivery.EventDeliveryRecorded)
}

func TestDeliveryUsesComponentsFixedAtSale(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.gt, Quantity: 2, Options: map[string]string{"mixer": "SODA"}})

	// The recipe changes after the sale: more gin, soda dropped.
	f.Store.SetRecipe(f.gt,
		bartest.Mandatory(f.gin, 3),
		bartest.Choice(f.tonic, "mixer", 1),
	)

	res, err := f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentDelivered, res.Order.FulfillmentStatus)

	q, r := f.Stock(f.gin)
	assert.Equal(t, 48, q)
	assert.Zero(t, r)
	q, r = f.Stock(f.soda)
	assert.Equal(t, 46, q)
	assert.Zero(t, r)
	q, r = f.Stock(f.tonic)
	assert.Equal(t, 50, q)
	assert.Zero(t, r)
}

func TestOverDeliveryIsAtomic(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, model.PaymentCash,
		orderDto.LineInput{ProductID: f.beer, Quantity: 2},
		orderDto.LineInput{ProductID: f.gt, Quantity: 1, Options: map[string]string{"mixer": "TONIC"}},
	)
	beerLine, gtLine := o.Lines[0].ID, o.Lines[1].ID

	_, err := f.deliver(o, dto.ItemInput{LineID: beerLine, Quantity: 1}, dto.ItemInput{LineID: gtLine, Quantity: 2})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeOverDelivery, e.Code)
	assert.Equal(t, gtLine, e.Fields["Line"])
	assert.Equal(t, 1, e.Fields["Remaining"])

	stored := f.Store.Order(o.ID)
	for _, l := range stored.Lines {
		assert.Zero(t, l.Delivered)
		assert.Equal(t, model.LinePending, l.Status)
	}
	assert.Empty(t, f.Store.AllDeliveries())
	q, r := f.Stock(f.beer)
	assert.Equal(t, 50, q)
	assert.Equal(t, 2, r)
}

func TestRepeatedDeliveryIsRejected(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 2})
	item := dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 2}

	_, err := f.deliver(o, item)
	require.NoError(t, err)

	_, err = f.deliver(o, item)
	assert.True(t, apperr.HasCode(err, apperr.CodeOrderDelivered))
	assert.Equal(t, 2, f.Store.Order(o.ID).Lines[0].Delivered)
}

func TestSplitItemsAreSummed(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 3})

	_, err := f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 2}, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 2})
	assert.True(t, apperr.HasCode(err, apperr.CodeOverDelivery))
}

func TestDeliveryPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("unpaid transfer", func(t *testing.T) {
		o := f.order(t, model.PaymentTransfer, orderDto.LineInput{ProductID: f.beer, Quantity: 1})
		_, err := f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 1})
		assert.True(t, apperr.HasCode(err, apperr.CodeOrderUnpaid))

		_, err = f.Payments.ReviewPayment(ctx, &orderDto.ReviewInput{OrderID: o.ID, Approve: true, ReviewerID: "admin"})
		require.NoError(t, err)
		res, err := f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, model.FulfillmentDelivered, res.Order.FulfillmentStatus)
	})

	t.Run("cancelled order", func(t *testing.T) {
		o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 1})
		_, err := f.Orders.CancelOrder(ctx, &orderDto.CancelInput{OrderID: o.ID, ActorID: "sup"})
		require.NoError(t, err)
		_, err = f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 1})
		assert.True(t, apperr.HasCode(err, apperr.CodeOrderCancelled))
	})

	t.Run("foreign line", func(t *testing.T) {
		o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 1})
		_, err := f.deliver(o, dto.ItemInput{LineID: "other", Quantity: 1})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidInput))
	})

	t.Run("unknown bar", func(t *testing.T) {
		o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 1})
		_, err := f.Deliveries.RecordDelivery(ctx, &dto.RecordInput{
			OrderToken: o.AccessToken, BarID: "nowhere", BartenderID: "bt-1",
			Items: []dto.ItemInput{{LineID: o.Lines[0].ID, Quantity: 1}},
		})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("bar of another event", func(t *testing.T) {
		f.Store.AddBar(model.Bar{ID: "bar-other", EventID: "evt-other", Name: "Other bar"})
		o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 1})
		_, err := f.Deliveries.RecordDelivery(ctx, &dto.RecordInput{
			OrderToken: o.AccessToken, BarID: "bar-other", BartenderID: "bt-1",
			Items: []dto.ItemInput{{LineID: o.Lines[0].ID, Quantity: 1}},
		})
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.CodeInvalidInput, e.Code)
		assert.Contains(t, e.Message, "Other bar")
		assert.Zero(t, f.Store.Order(o.ID).Lines[0].Delivered)
		_, r := f.Stock(f.beer)
		assert.Positive(t, r)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.deliver(&model.Order{AccessToken: "missing"}, dto.ItemInput{LineID: "l", Quantity: 1})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

func TestListDeliveries(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, model.PaymentCash, orderDto.LineInput{ProductID: f.beer, Quantity: 2})
	_, err := f.deliver(o, dto.ItemInput{LineID: o.Lines[0].ID, Quantity: 1})
	require.NoError(t, err)

	items, total, err := f.Deliveries.ListDeliveries(context.Background(), &dto.DeliveryFilters{BarID: bartest.BarID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, o.ID, items[0].OrderID)
}
