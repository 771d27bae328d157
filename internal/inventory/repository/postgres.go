package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
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

const recordColumns = `
    s.id, s.product_id, s.location_id, s.quantity, s.reserved, s.low_stock_threshold, s.updated_at,
    p.name AS product_name, l.name AS location_name
`

const recordFrom = `
    FROM stock s
    JOIN products p ON p.id = s.product_id
    JOIN stock_locations l ON l.id = s.location_id
`

func (r *PGRepository) getRecord(ctx context.Context, productID, locationID, suffix string) (*model.InventoryRecord, error) {
	var rec model.InventoryRecord
	query := "SELECT" + recordColumns + recordFrom + " WHERE s.product_id = $1 AND s.location_id = $2" + suffix
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &rec, query, productID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) LockRecord(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("inventory: LockRecord requires a transaction")
	}
	return r.getRecord(ctx, productID, locationID, " FOR UPDATE OF s")
}

func (r *PGRepository) GetRecord(ctx context.Context, productID, locationID string) (*model.InventoryRecord, error) {
	return r.getRecord(ctx, productID, locationID, "")
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockFilters) ([]model.InventoryRecord, int, error) {
	var items []model.InventoryRecord
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "s.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "s.location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.EventID != "" {
		conditions = append(conditions, "l.event_id = :event_id")
		args["event_id"] = f.EventID
	}
	if f.LowStock {
		conditions = append(conditions, "s.low_stock_threshold IS NOT NULL AND s.quantity - s.reserved <= s.low_stock_threshold")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*)"+recordFrom+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT" + recordColumns + recordFrom + whereClause + " ORDER BY p.name, l.name"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) CreateRecord(ctx context.Context, rec *model.InventoryRecord) error {
	query := `
        INSERT INTO stock (id, product_id, location_id, quantity, reserved, low_stock_threshold, updated_at)
        VALUES (:id, :product_id, :location_id, :quantity, :reserved, :low_stock_threshold, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, rec)
	return err
}

func (r *PGRepository) UpdateQuantities(ctx context.Context, rec *model.InventoryRecord) error {
	query := `
        UPDATE stock
        SET quantity = :quantity,
            reserved = :reserved,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, rec)
	return err
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, product_id, kind, quantity, source_location_id, destination_location_id,
            user_id, order_id, delivery_id, reason, notes, created_at
        )
        VALUES (
            :id, :product_id, :kind, :quantity, :source_location_id, :destination_location_id,
            :user_id, :order_id, :delivery_id, :reason, :notes, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, m)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "(source_location_id = :location_id OR destination_location_id = :location_id)")
		args["location_id"] = f.LocationID
	}
	if f.Kind != "" {
		conditions = append(conditions, "kind = :kind")
		args["kind"] = f.Kind
	}
	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
