package listener_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	"github.com/fekuna/omnipos-bar-service/internal/inventory/listener"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/pkg/broker"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockReceived(t *testing.T, p listener.StockReceivedPayload) []byte {
	t.Helper()
	ev, err := broker.NewEvent(listener.EventStockReceived, p)
	require.NoError(t, err)
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}

func TestHandleStockReceived(t *testing.T) {
	w := bartest.New(true)
	gin := w.AddProduct("GIN", "Gin bottle", model.KindBase, "0")
	l := listener.NewInventoryListener(nil, w.Ledger, logger.NewNop())

	msg := stockReceived(t, listener.StockReceivedPayload{
		ProductID:  gin,
		LocationID: bartest.LocationID,
		Quantity:   12,
		Supplier:   "Acme Spirits",
	})
	require.NoError(t, l.Handle(context.Background(), msg))
	require.NoError(t, l.Handle(context.Background(), msg))

	q, r := w.Stock(gin)
	assert.Equal(t, 24, q)
	assert.Equal(t, 0, r)

	moves := w.Store.Movements()
	require.Len(t, moves, 2)
	assert.Equal(t, model.MovementInbound, moves[0].Kind)
	assert.Equal(t, "supplier delivery: Acme Spirits", moves[0].Reason)
	require.NotNil(t, moves[0].UserID)
	assert.Equal(t, "system", *moves[0].UserID)
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	w := bartest.New(true)
	l := listener.NewInventoryListener(nil, w.Ledger, logger.NewNop())

	ev, err := broker.NewEvent("OrderCreated", map[string]string{"id": "o-1"})
	require.NoError(t, err)
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, l.Handle(context.Background(), data))
	assert.Empty(t, w.Store.Movements())
}

func TestHandleRejectsBadMessages(t *testing.T) {
	w := bartest.New(true)
	gin := w.AddProduct("GIN", "Gin bottle", model.KindBase, "0")
	l := listener.NewInventoryListener(nil, w.Ledger, logger.NewNop())

	assert.Error(t, l.Handle(context.Background(), []byte("{not json")))

	zero := stockReceived(t, listener.StockReceivedPayload{ProductID: gin, LocationID: bartest.LocationID})
	assert.Error(t, l.Handle(context.Background(), zero))
	assert.Empty(t, w.Store.Movements())
}

type fakeReader struct {
	msgs chan kafka.Message
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-f.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func TestStartConsumesUntilCancelled(t *testing.T) {
	w := bartest.New(true)
	gin := w.AddProduct("GIN", "Gin bottle", model.KindBase, "0")

	reader := &fakeReader{msgs: make(chan kafka.Message, 1)}
	reader.msgs <- kafka.Message{Key: []byte(gin), Value: stockReceived(t, listener.StockReceivedPayload{
		ProductID:  gin,
		LocationID: bartest.LocationID,
		Quantity:   6,
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		listener.NewInventoryListener(reader, w.Ledger, logger.NewNop()).Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		q, _ := w.Stock(gin)
		return q == 6
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
