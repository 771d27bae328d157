package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerInput(productID string, qty int) *dto.LedgerInput {
	return &dto.LedgerInput{ProductID: productID, LocationID: bartest.LocationID, Quantity: qty, UserID: "u-1"}
}

func TestReserveCommitRelease(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	x := w.AddProduct("X", "Lager", model.KindSimple, "5")
	w.Store.SetStock(x, bartest.LocationID, 10, 0)

	require.NoError(t, w.Ledger.Reserve(ctx, ledgerInput(x, 10)))
	q, r := w.Stock(x)
	assert.Equal(t, 10, q)
	assert.Equal(t, 10, r)

	err := w.Ledger.Reserve(ctx, ledgerInput(x, 1))
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeInsufficientStock, e.Code)
	assert.Equal(t, 0, e.Fields["Available"])
	assert.Equal(t, 1, e.Fields["Shortfall"])

	require.NoError(t, w.Ledger.Commit(ctx, ledgerInput(x, 4)))
	q, r = w.Stock(x)
	assert.Equal(t, 6, q)
	assert.Equal(t, 6, r)

	require.NoError(t, w.Ledger.Release(ctx, ledgerInput(x, 10)))
	q, r = w.Stock(x)
	assert.Equal(t, 6, q)
	assert.Equal(t, 0, r, "release never drives reserved below zero")

	kinds := []model.MovementKind{}
	for _, m := range w.Store.Movements() {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []model.MovementKind{model.MovementReserve, model.MovementCommit, model.MovementRelease}, kinds)
}

func TestReserveWithoutRecord(t *testing.T) {
	w := bartest.New(true)
	x := w.AddProduct("X", "Lager", model.KindSimple, "5")

	err := w.Ledger.Reserve(context.Background(), ledgerInput(x, 1))
	assert.True(t, apperr.HasCode(err, apperr.CodeStockNotConfigured))
	assert.Empty(t, w.Store.Movements())
}

func TestEnforcementOff(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(false)
	x := w.AddProduct("X", "Lager", model.KindSimple, "5")
	w.Store.SetStock(x, bartest.LocationID, 2, 0)

	require.False(t, w.Ledger.Enforced())
	require.NoError(t, w.Ledger.Reserve(ctx, ledgerInput(x, 50)))
	require.NoError(t, w.Ledger.Commit(ctx, ledgerInput(x, 50)))

	q, r := w.Stock(x)
	assert.Equal(t, 2, q)
	assert.Equal(t, 0, r)
	assert.Len(t, w.Store.Movements(), 2)
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	x := w.AddProduct("X", "Lager", model.KindSimple, "5")
	w.Store.SetStock(x, bartest.LocationID, 3, 0)

	t.Run("negative result is refused", func(t *testing.T) {
		_, err := w.Ledger.Adjust(ctx, &dto.AdjustInput{ProductID: x, LocationID: bartest.LocationID, Delta: -4, Reason: "count"})
		assert.True(t, apperr.HasCode(err, apperr.CodeNegativeStock))
		q, _ := w.Stock(x)
		assert.Equal(t, 3, q)
	})

	t.Run("reason is required", func(t *testing.T) {
		_, err := w.Ledger.Adjust(ctx, &dto.AdjustInput{ProductID: x, LocationID: bartest.LocationID, Delta: 1})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidInput))
	})

	t.Run("waste must decrease", func(t *testing.T) {
		_, err := w.Ledger.Adjust(ctx, &dto.AdjustInput{ProductID: x, LocationID: bartest.LocationID, Delta: 1, Kind: model.MovementWaste, Reason: "broken"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidInput))
	})

	t.Run("waste is recorded at the source", func(t *testing.T) {
		rec, err := w.Ledger.Adjust(ctx, &dto.AdjustInput{ProductID: x, LocationID: bartest.LocationID, Delta: -1, Kind: model.MovementWaste, Reason: "broken"})
		require.NoError(t, err)
		assert.Equal(t, 2, rec.Quantity)

		moves := w.Store.Movements()
		last := moves[len(moves)-1]
		assert.Equal(t, model.MovementWaste, last.Kind)
		assert.Equal(t, -1, last.Quantity)
		require.NotNil(t, last.SourceLocationID)
		assert.Nil(t, last.DestinationLocationID)
	})

	t.Run("composite carries no stock", func(t *testing.T) {
		combo := w.AddProduct("C", "Combo", model.KindComposite, "10")
		_, err := w.Ledger.Adjust(ctx, &dto.AdjustInput{ProductID: combo, LocationID: bartest.LocationID, Delta: 1, Reason: "count"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidInput))
	})
}

func TestInboundCreatesRecord(t *testing.T) {
	w := bartest.New(true)
	x := w.AddProduct("X", "Lager", model.KindBase, "0")

	rec, err := w.Ledger.Inbound(context.Background(), &dto.InboundInput{ProductID: x, LocationID: bartest.LocationID, Quantity: 24})
	require.NoError(t, err)
	assert.Equal(t, 24, rec.Quantity)
	require.NotNil(t, rec.LowStockThreshold)
	assert.Equal(t, 10, *rec.LowStockThreshold)

	moves := w.Store.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementInbound, moves[0].Kind)
	assert.Equal(t, "Stock received", moves[0].Reason)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	w.Store.AddLocation(model.StockLocation{ID: "loc-bar", EventID: bartest.EventID, Name: "Bar fridge", Type: "BAR"})
	x := w.AddProduct("X", "Lager", model.KindSimple, "5")
	w.Store.SetStock(x, bartest.LocationID, 10, 0)

	err := w.Ledger.Transfer(ctx, &dto.TransferInput{ProductID: x, FromLocationID: bartest.LocationID, ToLocationID: "loc-bar", Quantity: 11})
	assert.True(t, apperr.HasCode(err, apperr.CodeInsufficientStock))
	assert.Nil(t, w.Store.Record(x, "loc-bar"))

	require.NoError(t, w.Ledger.Transfer(ctx, &dto.TransferInput{ProductID: x, FromLocationID: bartest.LocationID, ToLocationID: "loc-bar", Quantity: 4}))
	assert.Equal(t, 6, w.Store.Record(x, bartest.LocationID).Quantity)
	assert.Equal(t, 4, w.Store.Record(x, "loc-bar").Quantity)

	moves := w.Store.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementTransfer, moves[0].Kind)
	assert.Equal(t, bartest.LocationID, *moves[0].SourceLocationID)
	assert.Equal(t, "loc-bar", *moves[0].DestinationLocationID)

	err = w.Ledger.Transfer(ctx, &dto.TransferInput{ProductID: x, FromLocationID: "loc-bar", ToLocationID: "loc-bar", Quantity: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidInput))
}

func TestTransferIgnoresSourceReservations(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	w.Store.AddLocation(model.StockLocation{ID: "loc-bar", EventID: bartest.EventID, Name: "Bar fridge", Type: "BAR", IsActive: true})
	x := w.AddProduct("X", "Lager", model.KindSimple, "5")
	w.Store.SetStock(x, bartest.LocationID, 10, 8)

	require.NoError(t, w.Ledger.Transfer(ctx, &dto.TransferInput{ProductID: x, FromLocationID: bartest.LocationID, ToLocationID: "loc-bar", Quantity: 5}))

	src := w.Store.Record(x, bartest.LocationID)
	assert.Equal(t, 5, src.Quantity)
	assert.Equal(t, 8, src.Reserved)

	dst := w.Store.Record(x, "loc-bar")
	require.NotNil(t, dst)
	assert.Equal(t, 5, dst.Quantity)
	assert.Zero(t, dst.Reserved)
	require.NotNil(t, dst.LowStockThreshold)
	assert.Equal(t, 10, *dst.LowStockThreshold)
}

func TestListLowStock(t *testing.T) {
	ctx := context.Background()
	w := bartest.New(true)
	low := w.AddProduct("L", "Tonic", model.KindBase, "0")
	ok := w.AddProduct("O", "Gin", model.KindBase, "0")
	_, err := w.Ledger.Inbound(ctx, &dto.InboundInput{ProductID: low, LocationID: bartest.LocationID, Quantity: 3})
	require.NoError(t, err)
	_, err = w.Ledger.Inbound(ctx, &dto.InboundInput{ProductID: ok, LocationID: bartest.LocationID, Quantity: 30})
	require.NoError(t, err)

	items, total, err := w.Ledger.ListLowStock(ctx, bartest.EventID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Tonic", items[0].ProductName)
}
