package filter

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
)

// Options holds the active filters applied after subcategory membership.
type Options struct {
	Tag      string
	PriceMax *float64
	Sort     string
	Limit    int
}

// Reset returns neutral options that filter nothing.
func Reset() Options {
	return Options{}
}

// Scope is the browsed category path and its candidate products.
type Scope struct {
	Category       string
	Subcategory    string
	Subsubcategory string
	Products       []api.Product
}

// ScopeFor returns the products directly under a category path, in catalog
// order. Empty path elements match everything below the previous one.
func ScopeFor(state catalog.State, category, subcategory, subsubcategory string) Scope {
	scope := Scope{Category: category, Subcategory: subcategory, Subsubcategory: subsubcategory}
	for _, p := range state.Products {
		path := catalog.PathOf(p)
		if category != "" && path.Category != category {
			continue
		}
		if subcategory != "" && path.Subcategory != subcategory {
			continue
		}
		if subsubcategory != "" && path.Subsubcategory != subsubcategory {
			continue
		}
		scope.Products = append(scope.Products, p)
	}
	return scope
}

// DeepLink seeds a view from a category and optional subcategory: the scope
// of that path plus a selection of only its category.
func DeepLink(state catalog.State, category, subcategory string) (Scope, Selection) {
	return ScopeFor(state, category, subcategory, ""), SelectOnlyCategory(state.Index, category)
}

// Apply runs the pipeline over the candidates of a scope and returns the
// visible products. When the selection spans zero or several categories, or
// a category other than the browsed one, the whole catalog is filtered
// instead of the scope.
func Apply(all []api.Product, scope Scope, sel Selection, opts Options) []api.Product {
	source := resolveSource(all, scope, sel)

	tag := strings.ToLower(strings.TrimSpace(opts.Tag))
	ceiling, hasCeiling := priceCeiling(opts.PriceMax)

	result := make([]api.Product, 0, len(source))
	for _, p := range source {
		if !sel.Membership(p) {
			continue
		}
		if tag != "" {
			if p.IsBanner || !containsFold(p.Name, tag) {
				continue
			}
		}
		if hasCeiling && !(p.Price <= ceiling) {
			continue
		}
		result = append(result, p)
	}

	Sort(result, opts.Sort)

	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result
}

func resolveSource(all []api.Product, scope Scope, sel Selection) []api.Product {
	if cats := sel.Categories(); len(cats) == 1 && cats[0] == scope.Category {
		return scope.Products
	}
	return all
}

func priceCeiling(limit *float64) (float64, bool) {
	if limit == nil || math.IsNaN(*limit) {
		return 0, false
	}
	return *limit, true
}

// containsFold reports whether s contains the lowercase needle, ignoring
// case. ASCII input is matched in place without allocating.
func containsFold(s, needle string) bool {
	if !isASCII(s) || !isASCII(needle) {
		return strings.Contains(strings.ToLower(s), needle)
	}
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], needle) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
