package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceStatus string

const (
	BalanceActive   BalanceStatus = "ACTIVE"
	BalanceDepleted BalanceStatus = "DEPLETED"
	BalanceBlocked  BalanceStatus = "BLOCKED"
	BalanceExpired  BalanceStatus = "EXPIRED"
)

// BalanceAccount is a prepaid tab identified by its access token.
type BalanceAccount struct {
	BaseModel
	Code          string          `db:"code" json:"code"`
	AccessToken   string          `db:"access_token" json:"access_token"`
	EventID       string          `db:"event_id" json:"event_id"`
	InitialAmount decimal.Decimal `db:"initial_amount" json:"initial_amount"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	Status        BalanceStatus   `db:"status" json:"status"`
	HolderName    *string         `db:"holder_name" json:"holder_name"`
	Notes         *string         `db:"notes" json:"notes"`
	ExpiresAt     *time.Time      `db:"expires_at" json:"expires_at"`
	CreatedBy     string          `db:"created_by" json:"created_by"`
}

func (a *BalanceAccount) ExpiredAt(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

type BalanceTxType string

const (
	BalanceCharge BalanceTxType = "CHARGE"
	BalanceLoad   BalanceTxType = "LOAD"
)

type BalanceTransaction struct {
	ID            string          `db:"id" json:"id"`
	AccountID     string          `db:"account_id" json:"account_id"`
	OrderID       *string         `db:"order_id" json:"order_id"`
	Type          BalanceTxType   `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description   string          `db:"description" json:"description"`
	PerformedBy   string          `db:"performed_by" json:"performed_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
