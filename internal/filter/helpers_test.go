package filter_test

import (
	"fmt"
	"math/rand"

	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/filter"
)

func price(v float64) *float64 { return &v }

func sampleProducts() []api.Product {
	return []api.Product{
		{Name: "Basmati Rice", Category: "Grocery", Subcategory: "Rice & Grains", Subsubcategory: "Basmati", Price: 30, Available: 4},
		{Name: "Ghee", Category: "Grocery", Subcategory: "Oils", Price: 20, Weight: "500g"},
		{Name: "Brown Rice", Category: "Grocery", Subcategory: "Rice & Grains", Price: 18, IsNew: true},
		{Name: "Kaju Barfi", Category: "Sweets", Subcategory: "Mithai", Subsubcategory: "Barfi", Price: 40, IsTrending: true},
		{Name: "Ghee", Category: "Grocery", Subcategory: "Oils", Price: 35, Weight: "1kg", Available: 2},
		{Name: "Sona Masoori", Category: "Grocery", Subcategory: "Rice & Grains", Subsubcategory: "Sona", Price: 22},
		{Name: "Besan Ladoo", Category: "Sweets", Subcategory: "Mithai", Subsubcategory: "Ladoo", Price: 25, IsNew: true},
		{Name: "Ghee Banner", Category: "Grocery", Subcategory: "Oils", IsBanner: true, Image: "oils.png"},
	}
}

func names(products []api.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func randomProduct(rng *rand.Rand, idx int) api.Product {
	cats := []string{"Grocery", "Sweets", "Essentials", ""}
	subs := []string{"Rice & Grains", "Oils", "Mithai", ""}
	subsubs := []string{"", "Basmati", "Ghee", "Barfi"}
	words := []string{"Fresh", "ghee", "Rice", "Barfi", "Deal"}
	return api.Product{
		Name:           fmt.Sprintf("%s %s %d", words[rng.Intn(len(words))], words[rng.Intn(len(words))], idx),
		Category:       cats[rng.Intn(len(cats))],
		Subcategory:    subs[rng.Intn(len(subs))],
		Subsubcategory: subsubs[rng.Intn(len(subsubs))],
		Price:          float64(rng.Intn(60)),
		Available:      float64(rng.Intn(2)),
		IsNew:          rng.Intn(3) == 0,
		IsTrending:     rng.Intn(4) == 0,
		IsBanner:       rng.Intn(10) == 0,
	}
}

func randomProducts(rng *rand.Rand, n int) []api.Product {
	out := make([]api.Product, 0, n)
	for i := range n {
		out = append(out, randomProduct(rng, i))
	}
	return out
}

// randomToggles applies a random sequence of parent and child toggles.
func randomToggles(rng *rand.Rand, ix *catalog.Index, steps int) filter.Selection {
	sel := filter.NewSelection(ix)
	cats := ix.Categories()
	if len(cats) == 0 {
		return sel
	}
	for range steps {
		cat := cats[rng.Intn(len(cats))]
		subs := ix.Subcategories(cat)
		sub := subs[rng.Intn(len(subs))]
		checked := rng.Intn(2) == 0
		children := ix.Subsubcategories(cat, sub)
		if len(children) == 0 || rng.Intn(3) == 0 {
			sel = sel.ToggleParent(cat, sub, checked)
			continue
		}
		sel = sel.ToggleChild(cat, sub, children[rng.Intn(len(children))], checked)
	}
	return sel
}
