package catalog

import "github.com/tayloree/storefront/internal/api"

// Resolution is the variant chosen to represent a group together with the
// group's aggregate badges.
type Resolution struct {
	Display api.Product `json:"display"`
	Badges  Badges      `json:"badges"`
}

// Resolve picks the display variant of a group: the first NEW variant, else
// the first in-stock variant, else the first variant. Badges aggregate over
// the whole group regardless of the pick. Resolve reports false for an empty
// group.
func Resolve(group []api.Product) (Resolution, bool) {
	if len(group) == 0 {
		return Resolution{}, false
	}

	display, found := firstWhere(group, func(p api.Product) bool { return p.IsNew })
	if !found {
		display, found = firstWhere(group, api.Product.InStock)
	}
	if !found {
		display = group[0]
	}

	return Resolution{Display: display, Badges: AggregateBadges(group)}, true
}

// DefaultVariant picks the variant preselected for purchase: the first
// in-stock variant, else the first variant. NEW status plays no part.
func DefaultVariant(group []api.Product) (api.Product, bool) {
	if len(group) == 0 {
		return api.Product{}, false
	}
	if p, ok := firstWhere(group, api.Product.InStock); ok {
		return p, true
	}
	return group[0], true
}

// Card is one grid tile: a variant group with its purchasable default.
type Card struct {
	Key      string        `json:"key"`
	Default  api.Product   `json:"default"`
	Variants []api.Product `json:"variants"`
}

// Listings drops banner-only records, which are never shown as products.
func Listings(products []api.Product) []api.Product {
	out := make([]api.Product, 0, len(products))
	for _, p := range products {
		if !p.IsBanner {
			out = append(out, p)
		}
	}
	return out
}

// Cards groups the listings of a product list by name, preserving order.
func Cards(products []api.Product) []Card {
	groups := GroupByName(Listings(products))
	cards := make([]Card, 0, groups.Len())
	for key, variants := range groups.All() {
		def, _ := DefaultVariant(variants)
		cards = append(cards, Card{Key: key, Default: def, Variants: variants})
	}
	return cards
}

func firstWhere(products []api.Product, fn func(api.Product) bool) (api.Product, bool) {
	for _, p := range products {
		if fn(p) {
			return p, true
		}
	}
	return api.Product{}, false
}
