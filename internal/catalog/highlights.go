package catalog

import "github.com/tayloree/storefront/internal/api"

// Highlights builds a carousel: the first product per name that satisfies
// keep, resolved against its whole variant group.
func Highlights(products []api.Product, groups Groups, keep func(api.Product) bool) []Resolution {
	seen := make(map[string]struct{})
	var out []Resolution
	for _, p := range products {
		if !keep(p) {
			continue
		}
		key := NormalizeName(p.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if res, ok := Resolve(groups.VariantsOf(p)); ok {
			out = append(out, res)
		}
	}
	return out
}

// NewArrivals is the "New Products" carousel.
func NewArrivals(products []api.Product, groups Groups) []Resolution {
	return Highlights(products, groups, func(p api.Product) bool { return p.IsNew })
}

// Trending is the "Trending Products" carousel.
func Trending(products []api.Product, groups Groups) []Resolution {
	return Highlights(products, groups, func(p api.Product) bool { return p.IsTrending })
}
