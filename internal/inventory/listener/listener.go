package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/inventory"
	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/pkg/broker"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventStockReceived = "StockReceived"

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener turns supplier deliveries published on the inbound
// topic into INBOUND ledger movements.
type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting inventory inbound listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inventory inbound listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			if err := l.Handle(ctx, msg.Value); err != nil {
				l.logger.Error("Failed to process inbound stock event",
					zap.String("key", string(msg.Key)),
					zap.Error(err),
				)
			}
		}
	}
}

type StockReceivedPayload struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
	Notes      string `json:"notes"`
	Supplier   string `json:"supplier"`
	UserID     string `json:"user_id"`
}

// Handle applies one message. Events of other types are ignored.
func (l *InventoryListener) Handle(ctx context.Context, value []byte) error {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if event.EventType != EventStockReceived {
		return nil
	}

	var p StockReceivedPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", event.EventType, err)
	}

	reason := p.Reason
	if reason == "" {
		reason = "supplier delivery"
		if p.Supplier != "" {
			reason = "supplier delivery: " + p.Supplier
		}
	}
	userID := p.UserID
	if userID == "" {
		userID = "system"
	}

	rec, err := l.uc.Inbound(ctx, &dto.InboundInput{
		ProductID:  p.ProductID,
		LocationID: p.LocationID,
		Quantity:   p.Quantity,
		Reason:     reason,
		Notes:      p.Notes,
		UserID:     userID,
	})
	if err != nil {
		return fmt.Errorf("inbound %s at %s: %w", p.ProductID, p.LocationID, err)
	}

	l.logger.Info("Recorded inbound stock",
		zap.String("event_id", event.EventID),
		zap.String("product_id", p.ProductID),
		zap.String("location_id", p.LocationID),
		zap.Int("quantity", p.Quantity),
		zap.Int("on_hand", rec.Quantity),
	)
	return nil
}
