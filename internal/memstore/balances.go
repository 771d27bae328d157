package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/balance/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type BalanceRepo struct{ s *Store }

func (s *Store) Balances() *BalanceRepo { return &BalanceRepo{s: s} }

func (r *BalanceRepo) Create(_ context.Context, a *model.BalanceAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("balances.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.accounts {
		if existing.Code == a.Code || existing.AccessToken == a.AccessToken {
			return fmt.Errorf("memstore: balance account %s already exists", a.Code)
		}
	}
	r.s.data.accounts[a.ID] = *a
	return nil
}

func (r *BalanceRepo) FindByToken(_ context.Context, token string) (*model.BalanceAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.accounts {
		if a.AccessToken == token {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *BalanceRepo) LockByToken(ctx context.Context, token string) (*model.BalanceAccount, error) {
	if !inTx(ctx) {
		return nil, ErrLockOutsideTx
	}
	return r.FindByToken(ctx, token)
}

func (r *BalanceRepo) Update(_ context.Context, a *model.BalanceAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("balances.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.accounts[a.ID]; !ok {
		return fmt.Errorf("memstore: balance account %s not found", a.ID)
	}
	r.s.data.accounts[a.ID] = *a
	return nil
}

func (r *BalanceRepo) FindAll(_ context.Context, f *dto.AccountFilters) ([]model.BalanceAccount, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.BalanceAccount{}
	for _, a := range r.s.data.accounts {
		if f.EventID != "" && a.EventID != f.EventID {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *BalanceRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.data.accounts {
		if !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *BalanceRepo) CreateTransaction(_ context.Context, t *model.BalanceTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("balances.CreateTransaction"); err != nil {
		return err
	}
	r.s.data.balanceTxs = append(r.s.data.balanceTxs, *t)
	return nil
}

func (r *BalanceRepo) ListTransactions(_ context.Context, accountID string) ([]model.BalanceTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.BalanceTransaction{}
	for i := len(r.s.data.balanceTxs) - 1; i >= 0; i-- {
		if t := r.s.data.balanceTxs[i]; t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}
