package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tayloree/storefront/internal/api"
)

// Sort orders.
const (
	SortNone      = ""
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNew       = "new"
	SortTrending  = "trending"
)

// SortModes lists the canonical sort orders, neutral first.
var SortModes = []string{SortNone, SortPriceAsc, SortPriceDesc, SortNew, SortTrending}

// ParseSort maps a sort name or alias to its canonical order.
func ParseSort(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "default", "relevance":
		return SortNone, true
	case "price-asc", "price_asc", "asc", "price", "cheapest", "low":
		return SortPriceAsc, true
	case "price-desc", "price_desc", "desc", "expensive", "high":
		return SortPriceDesc, true
	case "new", "newest", "latest":
		return SortNew, true
	case "trending", "popular", "hot":
		return SortTrending, true
	default:
		return SortNone, false
	}
}

// NormalizeSort is ParseSort with unknown names treated as no sort.
func NormalizeSort(raw string) string {
	mode, _ := ParseSort(raw)
	return mode
}

// Sort reorders products in place. Every order is stable, so ties keep their
// pipeline order.
func Sort(products []api.Product, mode string) {
	switch NormalizeSort(mode) {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b api.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b api.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortNew:
		slices.SortStableFunc(products, func(a, b api.Product) int {
			return flagRank(b.IsNew) - flagRank(a.IsNew)
		})
	case SortTrending:
		slices.SortStableFunc(products, func(a, b api.Product) int {
			return flagRank(b.IsTrending) - flagRank(a.IsTrending)
		})
	}
}

func flagRank(set bool) int {
	if set {
		return 1
	}
	return 0
}
