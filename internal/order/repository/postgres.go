package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
	"github.com/fekuna/omnipos-bar-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	ex := postgres.Executor(ctx, r.DB)

	query := `
        INSERT INTO orders (
            id, code, access_token, event_id, register_id, location_id, cashier_id,
            payment_method, payment_status, fulfillment_status, balance_account_id,
            subtotal, total, paid_at, created_at, updated_at
        )
        VALUES (
            :id, :code, :access_token, :event_id, :register_id, :location_id, :cashier_id,
            :payment_method, :payment_status, :fulfillment_status, :balance_account_id,
            :subtotal, :total, :paid_at, :created_at, :updated_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, ex, query, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	lineQuery := `
        INSERT INTO order_lines (
            id, order_id, product_id, quantity, delivered, status, unit_price, subtotal, options, components
        )
        VALUES (
            :id, :order_id, :product_id, :quantity, :delivered, :status, :unit_price, :subtotal, :options, :components
        )
    `
	for i := range o.Lines {
		if _, err := sqlx.NamedExecContext(ctx, ex, lineQuery, &o.Lines[i]); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) findOne(ctx context.Context, where, suffix string, arg interface{}) (*model.Order, error) {
	ex := postgres.Executor(ctx, r.DB)

	var o model.Order
	err := sqlx.GetContext(ctx, ex, &o, "SELECT * FROM orders WHERE "+where+suffix, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	lines := []model.OrderLine{}
	err = sqlx.SelectContext(ctx, ex, &lines, `
        SELECT ol.*, p.name AS product_name
        FROM order_lines ol
        JOIN products p ON p.id = ol.product_id
        WHERE ol.order_id = $1
        ORDER BY ol.id
    `, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	o.Lines = lines
	return &o, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return r.findOne(ctx, "id = $1", "", id)
}

func (r *PGRepository) FindByToken(ctx context.Context, token string) (*model.Order, error) {
	return r.findOne(ctx, "access_token = $1", "", token)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Order, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("order: LockByID requires a transaction")
	}
	return r.findOne(ctx, "id = $1", " FOR UPDATE", id)
}

func (r *PGRepository) LockByToken(ctx context.Context, token string) (*model.Order, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("order: LockByToken requires a transaction")
	}
	return r.findOne(ctx, "access_token = $1", " FOR UPDATE", token)
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var items []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.EventID != "" {
		conditions = append(conditions, "event_id = :event_id")
		args["event_id"] = f.EventID
	}
	if f.RegisterID != "" {
		conditions = append(conditions, "register_id = :register_id")
		args["register_id"] = f.RegisterID
	}
	if f.CashierID != "" {
		conditions = append(conditions, "cashier_id = :cashier_id")
		args["cashier_id"] = f.CashierID
	}
	if f.PaymentMethod != "" {
		conditions = append(conditions, "payment_method = :payment_method")
		args["payment_method"] = f.PaymentMethod
	}
	if f.PaymentStatus != "" {
		conditions = append(conditions, "payment_status = :payment_status")
		args["payment_status"] = f.PaymentStatus
	}
	if f.FulfillmentStatus != "" {
		conditions = append(conditions, "fulfillment_status = :fulfillment_status")
		args["fulfillment_status"] = f.FulfillmentStatus
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

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &count,
		`SELECT count(*) FROM orders WHERE created_at >= $1`, since)
	return count, err
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET payment_status = :payment_status,
            fulfillment_status = :fulfillment_status,
            paid_at = :paid_at,
            approved_by = :approved_by,
            approved_at = :approved_at,
            review_notes = :review_notes,
            completed_at = :completed_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, o)
	return err
}

func (r *PGRepository) UpdateLine(ctx context.Context, l *model.OrderLine) error {
	query := `
        UPDATE order_lines
        SET delivered = :delivered,
            status = :status
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, l)
	return err
}
