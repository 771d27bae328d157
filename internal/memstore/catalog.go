package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/product/dto"
)

type ProductRepo struct{ s *Store }

func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.products {
		if existing.Code == p.Code {
			return apperr.DuplicateCode(p.Code)
		}
	}
	cp := *p
	cp.Recipe = nil
	r.s.data.products[p.ID] = cp
	return nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := r.s.data.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(f.SearchQuery)
	out := []model.Product{}
	for _, p := range r.s.data.products {
		switch {
		case f.Category != "" && p.Category != f.Category:
			continue
		case f.Kind != "" && string(p.Kind) != f.Kind:
			continue
		case f.IsActive != nil && p.IsActive != *f.IsActive:
			continue
		case search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search):
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *ProductRepo) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.products[p.ID]; !ok {
		return nil
	}
	for id, existing := range r.s.data.products {
		if id != p.ID && existing.Code == p.Code {
			return apperr.DuplicateCode(p.Code)
		}
	}
	cp := *p
	cp.Recipe = nil
	r.s.data.products[p.ID] = cp
	return nil
}

func (r *ProductRepo) IsCodeUnique(_ context.Context, code, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.data.products {
		if p.Code == code && id != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (r *ProductRepo) FindRecipe(_ context.Context, productID string) ([]model.RecipeLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.RecipeLine{}
	for _, l := range r.s.data.recipes[productID] {
		c := r.s.data.products[l.ComponentID]
		l.ComponentCode, l.ComponentName, l.ComponentKind = c.Code, c.Name, c.Kind
		out = append(out, l)
	}
	return out, nil
}

func (r *ProductRepo) ReplaceRecipe(_ context.Context, productID string, lines []model.RecipeLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := make([]model.RecipeLine, len(lines))
	for i, l := range lines {
		l.ProductID = productID
		stored[i] = l
	}
	r.s.data.recipes[productID] = stored
	return nil
}

type VenueRepo struct{ s *Store }

func (s *Store) Venues() *VenueRepo { return &VenueRepo{s: s} }

func (r *VenueRepo) FindEvent(_ context.Context, id string) (*model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.data.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *VenueRepo) FindRegister(_ context.Context, id string) (*model.Register, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if reg, ok := r.s.data.registers[id]; ok {
		return &reg, nil
	}
	return nil, nil
}

func (r *VenueRepo) FindBar(_ context.Context, id string) (*model.Bar, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.data.bars[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *VenueRepo) FindLocation(_ context.Context, id string) (*model.StockLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.data.locations[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *VenueRepo) ActiveStockLocation(_ context.Context, eventID string) (*model.StockLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *model.StockLocation
	for _, l := range r.s.data.locations {
		if l.EventID == eventID && l.IsActive && (found == nil || l.Name < found.Name) {
			l := l
			found = &l
		}
	}
	return found, nil
}
