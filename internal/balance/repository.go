package balance

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, account *model.BalanceAccount) error
	FindByToken(ctx context.Context, token string) (*model.BalanceAccount, error)
	// LockByToken selects the account FOR UPDATE inside the ambient transaction.
	LockByToken(ctx context.Context, token string) (*model.BalanceAccount, error)
	Update(ctx context.Context, account *model.BalanceAccount) error
	FindAll(ctx context.Context, filters *dto.AccountFilters) ([]model.BalanceAccount, int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)

	CreateTransaction(ctx context.Context, tx *model.BalanceTransaction) error
	ListTransactions(ctx context.Context, accountID string) ([]model.BalanceTransaction, error)
}
