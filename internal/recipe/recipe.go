// Package recipe resolves composite products into the stock components an
// order line consumes.
package recipe

import (
	"sort"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/model"
)

type Component struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// View is the grouped recipe of one composite product. Every optional group
// requires exactly one choice.
type View struct {
	ProductID      string                 `json:"product_id"`
	ProductName    string                 `json:"product_name"`
	Mandatory      []Component            `json:"mandatory"`
	OptionalGroups map[string][]Component `json:"optional_groups"`
}

// Group splits recipe lines into mandatory components and option groups.
// An optional line without a group is treated as mandatory. It returns nil
// when there are no lines.
func Group(p *model.Product, lines []model.RecipeLine) *View {
	if len(lines) == 0 {
		return nil
	}

	v := &View{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Mandatory:      []Component{},
		OptionalGroups: map[string][]Component{},
	}
	for _, l := range lines {
		c := Component{
			ProductID: l.ComponentID,
			Code:      l.ComponentCode,
			Name:      l.ComponentName,
			Quantity:  l.Quantity,
		}
		if l.Optional && l.Group() != "" {
			v.OptionalGroups[l.Group()] = append(v.OptionalGroups[l.Group()], c)
			continue
		}
		v.Mandatory = append(v.Mandatory, c)
	}
	return v
}

// GroupNames returns the option group names in a stable order.
func (v *View) GroupNames() []string {
	names := make([]string, 0, len(v.OptionalGroups))
	for g := range v.OptionalGroups {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

// ValidateSelection checks options against the recipe and returns the
// components one unit of the product consumes: every mandatory line plus the
// chosen line of each group. Codes match by exact equality. Keys naming
// groups outside the recipe are ignored.
func (v *View) ValidateSelection(options map[string]string) ([]Component, error) {
	out := make([]Component, 0, len(v.Mandatory)+len(v.OptionalGroups))
	out = append(out, v.Mandatory...)

	for _, g := range v.GroupNames() {
		choices := v.OptionalGroups[g]
		code, ok := options[g]
		if !ok || code == "" {
			names := make([]string, len(choices))
			for i, c := range choices {
				names[i] = c.Name
			}
			return nil, apperr.MissingOption(v.ProductName, g, names)
		}

		chosen, found := Component{}, false
		for _, c := range choices {
			if c.Code == code {
				chosen, found = c, true
				break
			}
		}
		if !found {
			return nil, apperr.InvalidOption(g, code)
		}
		out = append(out, chosen)
	}
	return out, nil
}

// ChosenOptions trims options to the groups of this recipe, which is what
// gets stored on the order line.
func (v *View) ChosenOptions(options map[string]string) model.Options {
	out := model.Options{}
	for g := range v.OptionalGroups {
		if code, ok := options[g]; ok {
			out[g] = code
		}
	}
	return out
}

// Requirement is the stock demand on one inventory-bearing product.
type Requirement struct {
	ProductID   string
	ProductName string
	Quantity    int
}

// Scale multiplies per-unit components by qty.
func Scale(components []Component, qty int) []Requirement {
	out := make([]Requirement, len(components))
	for i, c := range components {
		out[i] = Requirement{ProductID: c.ProductID, ProductName: c.Name, Quantity: c.Quantity * qty}
	}
	return out
}

// Snapshot converts per-unit requirements into the components stored on an
// order line.
func Snapshot(perUnit []Requirement) model.LineComponents {
	out := make(model.LineComponents, len(perUnit))
	for i, r := range perUnit {
		out[i] = model.LineComponent{ProductID: r.ProductID, ProductName: r.ProductName, Quantity: r.Quantity}
	}
	return out
}

// ForLine scales the components frozen on l by qty. A line stored without
// components consumes its own product.
func ForLine(l *model.OrderLine, qty int) []Requirement {
	if len(l.Components) == 0 {
		return []Requirement{{ProductID: l.ProductID, ProductName: l.ProductName, Quantity: qty}}
	}
	out := make([]Requirement, len(l.Components))
	for i, c := range l.Components {
		out[i] = Requirement{ProductID: c.ProductID, ProductName: c.ProductName, Quantity: c.Quantity * qty}
	}
	return out
}

// Merge sums requirements per product and sorts them by product id. Callers
// lock inventory rows in that order.
func Merge(reqs ...[]Requirement) []Requirement {
	byID := map[string]*Requirement{}
	for _, set := range reqs {
		for _, r := range set {
			if agg, ok := byID[r.ProductID]; ok {
				agg.Quantity += r.Quantity
				continue
			}
			cp := r
			byID[r.ProductID] = &cp
		}
	}

	out := make([]Requirement, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
