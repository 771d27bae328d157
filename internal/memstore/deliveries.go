package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type DeliveryRepo struct{ s *Store }

func (s *Store) Deliveries() *DeliveryRepo { return &DeliveryRepo{s: s} }

func (r *DeliveryRepo) Create(_ context.Context, d *model.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("deliveries.Create"); err != nil {
		return err
	}
	cp := *d
	cp.Details = slices.Clone(d.Details)
	r.s.data.deliveries = append(r.s.data.deliveries, cp)
	return nil
}

func (r *DeliveryRepo) FindByOrder(_ context.Context, orderID string) ([]model.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Delivery{}
	for _, d := range r.s.data.deliveries {
		if d.OrderID == orderID {
			d.Details = slices.Clone(d.Details)
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DeliveryRepo) FindAll(_ context.Context, f *dto.DeliveryFilters) ([]model.Delivery, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.Delivery{}
	for _, d := range r.s.data.deliveries {
		switch {
		case f.OrderID != "" && d.OrderID != f.OrderID:
			continue
		case f.BarID != "" && d.BarID != f.BarID:
			continue
		case f.BartenderID != "" && d.BartenderID != f.BartenderID:
			continue
		case f.Date != nil && (d.CreatedAt.Before(*f.Date) || !d.CreatedAt.Before(f.Date.AddDate(0, 0, 1))):
			continue
		}
		d.Details = slices.Clone(d.Details)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page, f.PageSize), len(out), nil
}
