package catalog

import (
	"iter"
	"slices"

	"github.com/tayloree/storefront/internal/api"
)

// Groups holds variant groups keyed by normalized product name, in
// first-seen order.
type Groups struct {
	keys  []string
	byKey map[string][]api.Product
}

// GroupByName folds products into variant groups. Products without a name
// share the group keyed by the empty string.
func GroupByName(products []api.Product) Groups {
	g := Groups{byKey: make(map[string][]api.Product)}
	for _, p := range products {
		key := NormalizeName(p.Name)
		if _, ok := g.byKey[key]; !ok {
			g.keys = append(g.keys, key)
		}
		g.byKey[key] = append(g.byKey[key], p)
	}
	return g
}

// Len returns the number of groups.
func (g Groups) Len() int {
	return len(g.keys)
}

// Keys returns group keys in first-seen order.
func (g Groups) Keys() []string {
	return slices.Clone(g.keys)
}

// Get returns the variants for a product name. The name is normalized first.
func (g Groups) Get(name string) []api.Product {
	return slices.Clone(g.byKey[NormalizeName(name)])
}

// VariantsOf returns the group a product belongs to, or the product alone
// when its name was never grouped.
func (g Groups) VariantsOf(p api.Product) []api.Product {
	if variants, ok := g.byKey[NormalizeName(p.Name)]; ok {
		return slices.Clone(variants)
	}
	return []api.Product{p}
}

// All iterates groups in first-seen order.
func (g Groups) All() iter.Seq2[string, []api.Product] {
	return func(yield func(string, []api.Product) bool) {
		for _, key := range g.keys {
			if !yield(key, slices.Clone(g.byKey[key])) {
				return
			}
		}
	}
}
