package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/balance"
	"github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/sequence"
	"github.com/fekuna/omnipos-bar-service/internal/venue"
	"github.com/fekuna/omnipos-bar-service/pkg/database"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Options struct {
	CodePrefix    string
	PublicBaseURL string
}

type balanceUseCase struct {
	repo   balance.Repository
	venues venue.Repository
	seq    *sequence.Generator
	tx     database.Transactor
	opts   Options
	now    func() time.Time
	logger logger.ZapLogger
}

func NewBalanceUseCase(repo balance.Repository, venues venue.Repository, seq *sequence.Generator, tx database.Transactor, opts Options, log logger.ZapLogger) balance.UseCase {
	return &balanceUseCase{
		repo:   repo,
		venues: venues,
		seq:    seq,
		tx:     tx,
		opts:   opts,
		now:    time.Now,
		logger: log,
	}
}

func (uc *balanceUseCase) AccountURL(token string) string {
	return strings.TrimRight(uc.opts.PublicBaseURL, "/") + "/balance/" + token
}

func (uc *balanceUseCase) CreateAccount(ctx context.Context, in *dto.CreateAccountInput) (*model.BalanceAccount, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("amount", "initial amount must be positive")
	}
	event, err := uc.venues.FindEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperr.NotFound("event", in.EventID)
	}

	code, err := uc.seq.Next(ctx, uc.opts.CodePrefix, uc.repo.CountCreatedSince)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	acc := &model.BalanceAccount{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:          code,
		AccessToken:   uuid.New().String(),
		EventID:       event.ID,
		InitialAmount: in.Amount,
		Balance:       in.Amount,
		Status:        model.BalanceActive,
		ExpiresAt:     in.ExpiresAt,
		CreatedBy:     in.CreatedBy,
	}
	if in.HolderName != "" {
		acc.HolderName = &in.HolderName
	}
	if in.Notes != "" {
		acc.Notes = &in.Notes
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, acc); err != nil {
			return err
		}
		return uc.repo.CreateTransaction(ctx, &model.BalanceTransaction{
			ID:            uuid.New().String(),
			AccountID:     acc.ID,
			Type:          model.BalanceLoad,
			Amount:        in.Amount,
			BalanceBefore: decimal.Zero,
			BalanceAfter:  in.Amount,
			Description:   "Initial load",
			PerformedBy:   in.CreatedBy,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("balance account created", zap.String("code", acc.Code), zap.String("amount", in.Amount.StringFixed(2)))
	return acc, nil
}

// checkUsable applies the status, expiry and funds rules in that order.
func (uc *balanceUseCase) checkUsable(acc *model.BalanceAccount, required *decimal.Decimal) error {
	if acc.Status != model.BalanceActive {
		return apperr.AccountInactive(string(acc.Status))
	}
	if acc.ExpiredAt(uc.now()) {
		return apperr.AccountExpired()
	}
	if required != nil && acc.Balance.LessThan(*required) {
		return apperr.InsufficientBalance(acc.Balance, *required)
	}
	return nil
}

func (uc *balanceUseCase) Validate(ctx context.Context, token string, required *decimal.Decimal) (*model.BalanceAccount, error) {
	acc, err := uc.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, apperr.NotFound("balance account", token)
	}

	err = uc.checkUsable(acc, required)
	if apperr.HasCode(err, apperr.CodeAccountExpired) {
		acc.Status = model.BalanceExpired
		acc.UpdatedAt = uc.now()
		if uerr := uc.repo.Update(ctx, acc); uerr != nil {
			uc.logger.Error("failed to mark balance account expired", zap.String("code", acc.Code), zap.Error(uerr))
		}
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (uc *balanceUseCase) Debit(ctx context.Context, in *dto.DebitInput) (*model.BalanceTransaction, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("amount", "charge must be positive")
	}

	var out *model.BalanceTransaction
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		acc, err := uc.repo.LockByToken(ctx, in.Token)
		if err != nil {
			return err
		}
		if acc == nil {
			return apperr.NotFound("balance account", in.Token)
		}
		if err := uc.checkUsable(acc, &in.Amount); err != nil {
			return err
		}

		before := acc.Balance
		acc.Balance = before.Sub(in.Amount)
		if !acc.Balance.IsPositive() {
			acc.Status = model.BalanceDepleted
		}
		acc.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, acc); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		t := &model.BalanceTransaction{
			ID:            uuid.New().String(),
			AccountID:     acc.ID,
			Type:          model.BalanceCharge,
			Amount:        in.Amount,
			BalanceBefore: before,
			BalanceAfter:  acc.Balance,
			Description:   fmt.Sprintf("Order %s", in.OrderCode),
			PerformedBy:   in.Actor,
			CreatedAt:     uc.now(),
		}
		if in.OrderID != "" {
			t.OrderID = &in.OrderID
		}
		if err := uc.repo.CreateTransaction(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Load tops up an account. A depleted account becomes active again; blocked
// and expired accounts stay as they are.
func (uc *balanceUseCase) Load(ctx context.Context, in *dto.LoadInput) (*model.BalanceTransaction, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("amount", "load must be positive")
	}

	var out *model.BalanceTransaction
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		acc, err := uc.repo.LockByToken(ctx, in.Token)
		if err != nil {
			return err
		}
		if acc == nil {
			return apperr.NotFound("balance account", in.Token)
		}
		if acc.Status != model.BalanceActive && acc.Status != model.BalanceDepleted {
			return apperr.AccountInactive(string(acc.Status))
		}

		before := acc.Balance
		acc.Balance = before.Add(in.Amount)
		if acc.Balance.IsPositive() {
			acc.Status = model.BalanceActive
		}
		acc.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, acc); err != nil {
			return fmt.Errorf("load balance: %w", err)
		}

		description := "Top-up"
		if in.Notes != "" {
			description = in.Notes
		}
		t := &model.BalanceTransaction{
			ID:            uuid.New().String(),
			AccountID:     acc.ID,
			Type:          model.BalanceLoad,
			Amount:        in.Amount,
			BalanceBefore: before,
			BalanceAfter:  acc.Balance,
			Description:   description,
			PerformedBy:   in.Actor,
			CreatedAt:     uc.now(),
		}
		if err := uc.repo.CreateTransaction(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *balanceUseCase) Block(ctx context.Context, token, actor string) (*model.BalanceAccount, error) {
	var out *model.BalanceAccount
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		acc, err := uc.repo.LockByToken(ctx, token)
		if err != nil {
			return err
		}
		if acc == nil {
			return apperr.NotFound("balance account", token)
		}
		acc.Status = model.BalanceBlocked
		acc.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, acc); err != nil {
			return err
		}
		out = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("balance account blocked", zap.String("code", out.Code), zap.String("actor", actor))
	return out, nil
}

func (uc *balanceUseCase) GetByToken(ctx context.Context, token string) (*model.BalanceAccount, error) {
	acc, err := uc.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, apperr.NotFound("balance account", token)
	}
	return acc, nil
}

func (uc *balanceUseCase) ListAccounts(ctx context.Context, filters *dto.AccountFilters) ([]model.BalanceAccount, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *balanceUseCase) ListTransactions(ctx context.Context, token string) ([]model.BalanceTransaction, error) {
	acc, err := uc.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListTransactions(ctx, acc.ID)
}
