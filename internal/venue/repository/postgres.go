package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func getOne[T any](ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (*T, error) {
	var out T
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, db), &out, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *PGRepository) FindEvent(ctx context.Context, id string) (*model.Event, error) {
	return getOne[model.Event](ctx, r.DB, `SELECT id, name, is_active FROM events WHERE id = $1`, id)
}

func (r *PGRepository) FindRegister(ctx context.Context, id string) (*model.Register, error) {
	return getOne[model.Register](ctx, r.DB, `SELECT id, event_id, name FROM registers WHERE id = $1`, id)
}

func (r *PGRepository) FindBar(ctx context.Context, id string) (*model.Bar, error) {
	return getOne[model.Bar](ctx, r.DB, `SELECT id, event_id, name FROM bars WHERE id = $1`, id)
}

func (r *PGRepository) FindLocation(ctx context.Context, id string) (*model.StockLocation, error) {
	return getOne[model.StockLocation](ctx, r.DB,
		`SELECT id, event_id, name, type, is_active FROM stock_locations WHERE id = $1`, id)
}

func (r *PGRepository) ActiveStockLocation(ctx context.Context, eventID string) (*model.StockLocation, error) {
	return getOne[model.StockLocation](ctx, r.DB, `
        SELECT id, event_id, name, type, is_active
        FROM stock_locations
        WHERE event_id = $1 AND is_active = true
        ORDER BY name
        LIMIT 1
    `, eventID)
}
