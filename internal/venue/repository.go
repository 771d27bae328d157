// Package venue reads the event reference data the bar core depends on:
// events, cash registers, bars and stock locations.
package venue

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/model"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	FindEvent(ctx context.Context, id string) (*model.Event, error)
	FindRegister(ctx context.Context, id string) (*model.Register, error)
	FindBar(ctx context.Context, id string) (*model.Bar, error)
	FindLocation(ctx context.Context, id string) (*model.StockLocation, error)
	// ActiveStockLocation is the location an event sells from.
	ActiveStockLocation(ctx context.Context, eventID string) (*model.StockLocation, error)
}
