package handler

import (
	"context"

	barposv1 "github.com/fekuna/omnipos-bar-service/api/barpos/v1"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/auth"
	"github.com/fekuna/omnipos-bar-service/internal/balance"
	"github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BalanceHandler struct {
	barposv1.UnimplementedBalanceServiceServer

	uc     balance.UseCase
	tr     apperr.Localizer
	logger logger.ZapLogger
}

func NewBalanceHandler(uc balance.UseCase, tr apperr.Localizer, log logger.ZapLogger) *BalanceHandler {
	return &BalanceHandler{uc: uc, tr: tr, logger: log}
}

func (h *BalanceHandler) fail(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); !ok {
		h.logger.Error(msg, zap.Error(err))
	}
	return apperr.ToStatus(err, h.tr, auth.GetLang(ctx))
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation(field, "amount must be a decimal number")
	}
	return d, nil
}

func (h *BalanceHandler) CreateAccount(ctx context.Context, req *barposv1.CreateAccountRequest) (*barposv1.AccountResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleCashier, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "create account", err)
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, h.fail(ctx, "create account", err)
	}

	acc, err := h.uc.CreateAccount(ctx, &dto.CreateAccountInput{
		EventID:    req.EventID,
		Amount:     amount,
		HolderName: req.HolderName,
		Notes:      req.Notes,
		ExpiresAt:  req.ExpiresAt,
		CreatedBy:  auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to create balance account", err)
	}
	return &barposv1.AccountResponse{Account: toAccount(acc), URL: h.uc.AccountURL(acc.AccessToken)}, nil
}

// ValidateAccount is public: the token itself is the credential.
func (h *BalanceHandler) ValidateAccount(ctx context.Context, req *barposv1.ValidateAccountRequest) (*barposv1.AccountResponse, error) {
	var required *decimal.Decimal
	if req.RequiredAmount != "" {
		amount, err := parseAmount("required_amount", req.RequiredAmount)
		if err != nil {
			return nil, h.fail(ctx, "validate account", err)
		}
		required = &amount
	}

	acc, err := h.uc.Validate(ctx, req.Token, required)
	if err != nil {
		return nil, h.fail(ctx, "failed to validate balance account", err)
	}
	return &barposv1.AccountResponse{Account: toAccount(acc)}, nil
}

func (h *BalanceHandler) LoadBalance(ctx context.Context, req *barposv1.LoadBalanceRequest) (*barposv1.BalanceTransactionResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleCashier, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "load balance", err)
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, h.fail(ctx, "load balance", err)
	}

	t, err := h.uc.Load(ctx, &dto.LoadInput{Token: req.Token, Amount: amount, Actor: auth.GetUserID(ctx), Notes: req.Notes})
	if err != nil {
		return nil, h.fail(ctx, "failed to load balance", err)
	}
	return &barposv1.BalanceTransactionResponse{Transaction: toTransaction(t)}, nil
}

func (h *BalanceHandler) BlockAccount(ctx context.Context, req *barposv1.AccountTokenRequest) (*barposv1.AccountResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "block account", err)
	}
	acc, err := h.uc.Block(ctx, req.Token, auth.GetUserID(ctx))
	if err != nil {
		return nil, h.fail(ctx, "failed to block balance account", err)
	}
	return &barposv1.AccountResponse{Account: toAccount(acc)}, nil
}

func (h *BalanceHandler) ListAccounts(ctx context.Context, req *barposv1.ListAccountsRequest) (*barposv1.ListAccountsResponse, error) {
	if err := auth.RequireRole(ctx, auth.RoleSupervisor, auth.RoleAdmin); err != nil {
		return nil, h.fail(ctx, "list accounts", err)
	}
	accounts, total, err := h.uc.ListAccounts(ctx, &dto.AccountFilters{
		EventID:  req.EventID,
		Status:   req.Status,
		Page:     int(req.Page),
		PageSize: int(req.PageSize),
	})
	if err != nil {
		return nil, h.fail(ctx, "failed to list balance accounts", err)
	}

	out := make([]*barposv1.Account, len(accounts))
	for i := range accounts {
		out[i] = toAccount(&accounts[i])
	}
	return &barposv1.ListAccountsResponse{Accounts: out, Total: int32(total), Paging: req.Paging}, nil
}

// ListTransactions is public, like ValidateAccount.
func (h *BalanceHandler) ListTransactions(ctx context.Context, req *barposv1.AccountTokenRequest) (*barposv1.ListTransactionsResponse, error) {
	txs, err := h.uc.ListTransactions(ctx, req.Token)
	if err != nil {
		return nil, h.fail(ctx, "failed to list balance transactions", err)
	}
	out := make([]*barposv1.BalanceTransaction, len(txs))
	for i := range txs {
		out[i] = toTransaction(&txs[i])
	}
	return &barposv1.ListTransactionsResponse{Transactions: out}, nil
}

func toAccount(a *model.BalanceAccount) *barposv1.Account {
	out := &barposv1.Account{
		ID:            a.ID,
		Code:          a.Code,
		AccessToken:   a.AccessToken,
		EventID:       a.EventID,
		InitialAmount: a.InitialAmount.StringFixed(2),
		Balance:       a.Balance.StringFixed(2),
		Status:        string(a.Status),
		ExpiresAt:     a.ExpiresAt,
		CreatedAt:     a.CreatedAt,
	}
	if a.HolderName != nil {
		out.HolderName = *a.HolderName
	}
	return out
}

func toTransaction(t *model.BalanceTransaction) *barposv1.BalanceTransaction {
	out := &barposv1.BalanceTransaction{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount.StringFixed(2),
		BalanceBefore: t.BalanceBefore.StringFixed(2),
		BalanceAfter:  t.BalanceAfter.StringFixed(2),
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
	if t.OrderID != nil {
		out.OrderID = *t.OrderID
	}
	return out
}
