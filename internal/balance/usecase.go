package balance

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	CreateAccount(ctx context.Context, input *dto.CreateAccountInput) (*model.BalanceAccount, error)
	// Validate checks the account can pay required (when non-nil). An account
	// found past its expiry is marked EXPIRED.
	Validate(ctx context.Context, token string, required *decimal.Decimal) (*model.BalanceAccount, error)
	// Debit charges the account inside the transaction carried by ctx.
	Debit(ctx context.Context, input *dto.DebitInput) (*model.BalanceTransaction, error)
	Load(ctx context.Context, input *dto.LoadInput) (*model.BalanceTransaction, error)
	Block(ctx context.Context, token, actor string) (*model.BalanceAccount, error)

	GetByToken(ctx context.Context, token string) (*model.BalanceAccount, error)
	ListAccounts(ctx context.Context, filters *dto.AccountFilters) ([]model.BalanceAccount, int, error)
	ListTransactions(ctx context.Context, token string) ([]model.BalanceTransaction, error)
	AccountURL(token string) string
}
