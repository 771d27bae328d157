package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/order/dto"
)

type OrderRepo struct{ s *Store }

func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

func (r *OrderRepo) Create(_ context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.orders {
		if existing.Code == o.Code || existing.AccessToken == o.AccessToken {
			return fmt.Errorf("memstore: order %s already exists", o.Code)
		}
	}
	cp := *o
	cp.Lines = nil
	r.s.data.orders[o.ID] = cp
	r.s.data.lines[o.ID] = slices.Clone(o.Lines)
	return nil
}

// withLines must be called with s.mu held.
func (r *OrderRepo) withLines(o model.Order) *model.Order {
	lines := slices.Clone(r.s.data.lines[o.ID])
	for i := range lines {
		lines[i].ProductName = r.s.data.products[lines[i].ProductID].Name
	}
	o.Lines = lines
	return &o
}

func (r *OrderRepo) find(match func(model.Order) bool) *model.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.data.orders {
		if match(o) {
			return r.withLines(o)
		}
	}
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	return r.find(func(o model.Order) bool { return o.ID == id }), nil
}

func (r *OrderRepo) FindByToken(_ context.Context, token string) (*model.Order, error) {
	return r.find(func(o model.Order) bool { return o.AccessToken == token }), nil
}

func (r *OrderRepo) LockByID(ctx context.Context, id string) (*model.Order, error) {
	if !inTx(ctx) {
		return nil, ErrLockOutsideTx
	}
	return r.FindByID(ctx, id)
}

func (r *OrderRepo) LockByToken(ctx context.Context, token string) (*model.Order, error) {
	if !inTx(ctx) {
		return nil, ErrLockOutsideTx
	}
	return r.FindByToken(ctx, token)
}

func (r *OrderRepo) FindAll(_ context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.Order{}
	for _, o := range r.s.data.orders {
		switch {
		case f.EventID != "" && o.EventID != f.EventID:
			continue
		case f.RegisterID != "" && o.RegisterID != f.RegisterID:
			continue
		case f.CashierID != "" && o.CashierID != f.CashierID:
			continue
		case f.PaymentMethod != "" && string(o.PaymentMethod) != f.PaymentMethod:
			continue
		case f.PaymentStatus != "" && string(o.PaymentStatus) != f.PaymentStatus:
			continue
		case f.FulfillmentStatus != "" && string(o.FulfillmentStatus) != f.FulfillmentStatus:
			continue
		case f.Date != nil && (o.CreatedAt.Before(*f.Date) || !o.CreatedAt.Before(f.Date.AddDate(0, 0, 1))):
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *OrderRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, o := range r.s.data.orders {
		if !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *OrderRepo) Update(_ context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Update"); err != nil {
		return err
	}
	cur, ok := r.s.data.orders[o.ID]
	if !ok {
		return fmt.Errorf("memstore: order %s not found", o.ID)
	}
	cur.PaymentStatus = o.PaymentStatus
	cur.FulfillmentStatus = o.FulfillmentStatus
	cur.PaidAt = o.PaidAt
	cur.ApprovedBy = o.ApprovedBy
	cur.ApprovedAt = o.ApprovedAt
	cur.ReviewNotes = o.ReviewNotes
	cur.CompletedAt = o.CompletedAt
	cur.UpdatedAt = o.UpdatedAt
	r.s.data.orders[o.ID] = cur
	return nil
}

func (r *OrderRepo) UpdateLine(_ context.Context, l *model.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lines := r.s.data.lines[l.OrderID]
	for i := range lines {
		if lines[i].ID == l.ID {
			lines[i].Delivered, lines[i].Status = l.Delivered, l.Status
			return nil
		}
	}
	return fmt.Errorf("memstore: order line %s not found", l.ID)
}
