package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
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

func (r *PGRepository) Create(ctx context.Context, d *model.Delivery) error {
	ex := postgres.Executor(ctx, r.DB)

	query := `
        INSERT INTO deliveries (id, order_id, bar_id, bartender_id, notes, created_at)
        VALUES (:id, :order_id, :bar_id, :bartender_id, :notes, :created_at)
    `
	if _, err := sqlx.NamedExecContext(ctx, ex, query, d); err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}

	detailQuery := `
        INSERT INTO delivery_details (id, delivery_id, order_line_id, quantity)
        VALUES (:id, :delivery_id, :order_line_id, :quantity)
    `
	for i := range d.Details {
		if _, err := sqlx.NamedExecContext(ctx, ex, detailQuery, &d.Details[i]); err != nil {
			return fmt.Errorf("insert delivery detail: %w", err)
		}
	}
	return nil
}

// attachDetails loads the details of every delivery in one query.
func (r *PGRepository) attachDetails(ctx context.Context, deliveries []model.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	ids := make([]string, len(deliveries))
	index := make(map[string]int, len(deliveries))
	for i, d := range deliveries {
		ids[i] = d.ID
		index[d.ID] = i
	}

	query, args, err := sqlx.In(`SELECT * FROM delivery_details WHERE delivery_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return err
	}

	var details []model.DeliveryDetail
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &details, r.DB.Rebind(query), args...); err != nil {
		return err
	}
	for _, dt := range details {
		i := index[dt.DeliveryID]
		deliveries[i].Details = append(deliveries[i].Details, dt)
	}
	return nil
}

func (r *PGRepository) FindByOrder(ctx context.Context, orderID string) ([]model.Delivery, error) {
	deliveries := []model.Delivery{}
	err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &deliveries,
		`SELECT * FROM deliveries WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.DeliveryFilters) ([]model.Delivery, int, error) {
	var items []model.Delivery
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}
	if f.BarID != "" {
		conditions = append(conditions, "bar_id = :bar_id")
		args["bar_id"] = f.BarID
	}
	if f.BartenderID != "" {
		conditions = append(conditions, "bartender_id = :bartender_id")
		args["bartender_id"] = f.BartenderID
	}
	if f.Date != nil {
		conditions = append(conditions, "created_at >= :day_start AND created_at < :day_end")
		args["day_start"] = *f.Date
		args["day_end"] = f.Date.AddDate(0, 0, 1)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM deliveries"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM deliveries" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	if err := r.attachDetails(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
