package catalog

import (
	"iter"
	"slices"

	"github.com/tayloree/storefront/internal/api"
)

const (
	// DefaultCategory buckets products without a category.
	DefaultCategory = "Misc"
	// DefaultSubcategory buckets products without a subcategory.
	DefaultSubcategory = "General"
	// RootBucket holds products that sit directly under a subcategory.
	RootBucket = ""
)

// Path locates a leaf bucket in the category index.
type Path struct {
	Category       string
	Subcategory    string
	Subsubcategory string
}

// IsRoot reports whether the path names a subcategory's root bucket.
func (p Path) IsRoot() bool {
	return p.Subsubcategory == RootBucket
}

// PathOf returns the bucket a product belongs to, with defaults applied.
func PathOf(p api.Product) Path {
	path := Path{
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Subsubcategory: p.Subsubcategory,
	}
	if path.Category == "" {
		path.Category = DefaultCategory
	}
	if path.Subcategory == "" {
		path.Subcategory = DefaultSubcategory
	}
	return path
}

// Index groups products as category -> subcategory -> sub-subcategory (or
// the root bucket) -> products. Every level keeps first-seen order. An Index
// is read-only once built.
type Index struct {
	categories []*categoryNode
	byName     map[string]*categoryNode
	size       int
}

type categoryNode struct {
	name   string
	subs   []*subcategoryNode
	byName map[string]*subcategoryNode
	size   int
}

type subcategoryNode struct {
	name    string
	buckets []*bucket
	byName  map[string]*bucket
	size    int
}

type bucket struct {
	name     string
	products []api.Product
}

// BuildIndex folds a flat product list into a category index. It never
// fails and never deduplicates.
func BuildIndex(products []api.Product) *Index {
	ix := &Index{byName: make(map[string]*categoryNode)}
	for _, p := range products {
		path := PathOf(p)

		cat, ok := ix.byName[path.Category]
		if !ok {
			cat = &categoryNode{name: path.Category, byName: make(map[string]*subcategoryNode)}
			ix.byName[path.Category] = cat
			ix.categories = append(ix.categories, cat)
		}

		sub, ok := cat.byName[path.Subcategory]
		if !ok {
			sub = &subcategoryNode{name: path.Subcategory, byName: make(map[string]*bucket)}
			cat.byName[path.Subcategory] = sub
			cat.subs = append(cat.subs, sub)
		}

		b, ok := sub.byName[path.Subsubcategory]
		if !ok {
			b = &bucket{name: path.Subsubcategory}
			sub.byName[path.Subsubcategory] = b
			sub.buckets = append(sub.buckets, b)
		}

		b.products = append(b.products, p)
		sub.size++
		cat.size++
		ix.size++
	}
	return ix
}

// Len returns the number of products across all buckets.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Categories returns category names in first-seen order.
func (ix *Index) Categories() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, 0, len(ix.categories))
	for _, c := range ix.categories {
		out = append(out, c.name)
	}
	return out
}

// Subcategories returns the subcategories of a category in first-seen order.
func (ix *Index) Subcategories(category string) []string {
	cat := ix.category(category)
	if cat == nil {
		return nil
	}
	out := make([]string, 0, len(cat.subs))
	for _, s := range cat.subs {
		out = append(out, s.name)
	}
	return out
}

// Subsubcategories returns the named sub-subcategories of a subcategory,
// excluding the root bucket.
func (ix *Index) Subsubcategories(category, subcategory string) []string {
	sub := ix.subcategory(category, subcategory)
	if sub == nil {
		return nil
	}
	out := make([]string, 0, len(sub.buckets))
	for _, b := range sub.buckets {
		if b.name != RootBucket {
			out = append(out, b.name)
		}
	}
	return out
}

// HasCategory reports whether the category exists.
func (ix *Index) HasCategory(category string) bool {
	return ix.category(category) != nil
}

// HasSubcategory reports whether the subcategory exists.
func (ix *Index) HasSubcategory(category, subcategory string) bool {
	return ix.subcategory(category, subcategory) != nil
}

// HasBucket reports whether the leaf bucket exists.
func (ix *Index) HasBucket(path Path) bool {
	sub := ix.subcategory(path.Category, path.Subcategory)
	if sub == nil {
		return false
	}
	_, ok := sub.byName[path.Subsubcategory]
	return ok
}

// Products returns a copy of one leaf bucket.
func (ix *Index) Products(path Path) []api.Product {
	sub := ix.subcategory(path.Category, path.Subcategory)
	if sub == nil {
		return nil
	}
	b, ok := sub.byName[path.Subsubcategory]
	if !ok {
		return nil
	}
	return slices.Clone(b.products)
}

// CountCategory returns the number of products in a category.
func (ix *Index) CountCategory(category string) int {
	if cat := ix.category(category); cat != nil {
		return cat.size
	}
	return 0
}

// CountSubcategory returns the number of products in a subcategory.
func (ix *Index) CountSubcategory(category, subcategory string) int {
	if sub := ix.subcategory(category, subcategory); sub != nil {
		return sub.size
	}
	return 0
}

// Buckets iterates every leaf bucket in index order.
func (ix *Index) Buckets() iter.Seq2[Path, []api.Product] {
	return func(yield func(Path, []api.Product) bool) {
		if ix == nil {
			return
		}
		for _, cat := range ix.categories {
			for _, sub := range cat.subs {
				for _, b := range sub.buckets {
					path := Path{Category: cat.name, Subcategory: sub.name, Subsubcategory: b.name}
					if !yield(path, slices.Clone(b.products)) {
						return
					}
				}
			}
		}
	}
}

// Flatten returns every product in index order.
func (ix *Index) Flatten() []api.Product {
	out := make([]api.Product, 0, ix.Len())
	for _, products := range ix.Buckets() {
		out = append(out, products...)
	}
	return out
}

func (ix *Index) category(name string) *categoryNode {
	if ix == nil {
		return nil
	}
	return ix.byName[name]
}

func (ix *Index) subcategory(category, subcategory string) *subcategoryNode {
	cat := ix.category(category)
	if cat == nil {
		return nil
	}
	return cat.byName[subcategory]
}
