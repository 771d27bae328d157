package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/balance/dto"
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

func (r *PGRepository) Create(ctx context.Context, a *model.BalanceAccount) error {
	query := `
        INSERT INTO balance_accounts (
            id, code, access_token, event_id, initial_amount, balance, status,
            holder_name, notes, expires_at, created_by, created_at, updated_at
        )
        VALUES (
            :id, :code, :access_token, :event_id, :initial_amount, :balance, :status,
            :holder_name, :notes, :expires_at, :created_by, :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, a)
	return err
}

func (r *PGRepository) findByToken(ctx context.Context, token, suffix string) (*model.BalanceAccount, error) {
	var a model.BalanceAccount
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &a,
		`SELECT * FROM balance_accounts WHERE access_token = $1`+suffix, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindByToken(ctx context.Context, token string) (*model.BalanceAccount, error) {
	return r.findByToken(ctx, token, "")
}

func (r *PGRepository) LockByToken(ctx context.Context, token string) (*model.BalanceAccount, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("balance: LockByToken requires a transaction")
	}
	return r.findByToken(ctx, token, " FOR UPDATE")
}

func (r *PGRepository) Update(ctx context.Context, a *model.BalanceAccount) error {
	query := `
        UPDATE balance_accounts
        SET balance = :balance,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, a)
	return err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AccountFilters) ([]model.BalanceAccount, int, error) {
	var items []model.BalanceAccount
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.EventID != "" {
		conditions = append(conditions, "event_id = :event_id")
		args["event_id"] = f.EventID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM balance_accounts"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM balance_accounts" + whereClause + " ORDER BY created_at DESC"
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
		`SELECT count(*) FROM balance_accounts WHERE created_at >= $1`, since)
	return count, err
}

func (r *PGRepository) CreateTransaction(ctx context.Context, t *model.BalanceTransaction) error {
	query := `
        INSERT INTO balance_transactions (
            id, account_id, order_id, type, amount, balance_before, balance_after,
            description, performed_by, created_at
        )
        VALUES (
            :id, :account_id, :order_id, :type, :amount, :balance_before, :balance_after,
            :description, :performed_by, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, t)
	return err
}

func (r *PGRepository) ListTransactions(ctx context.Context, accountID string) ([]model.BalanceTransaction, error) {
	var items []model.BalanceTransaction
	err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items,
		`SELECT * FROM balance_transactions WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
	return items, err
}
