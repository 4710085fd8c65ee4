package catalog

import (
	"slices"

	"github.com/tayloree/storefront/internal/api"
)

// State is an immutable snapshot of the catalog and its derived structures.
// A new State is built whenever the source list changes.
type State struct {
	Products []api.Product
	Index    *Index
	Groups   Groups
}

// NewState derives the index and variant groups from a product list.
func NewState(products []api.Product) State {
	products = slices.Clone(products)
	return State{
		Products: products,
		Index:    BuildIndex(products),
		Groups:   GroupByName(products),
	}
}

// Empty reports whether the catalog has no products.
func (s State) Empty() bool {
	return len(s.Products) == 0
}
