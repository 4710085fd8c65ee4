package catalog_test

import (
	"fmt"
	"math/rand"

	"github.com/tayloree/storefront/internal/api"
)

func randomProduct(rng *rand.Rand, idx int) api.Product {
	cats := []string{"", "Grocery", "Sweets", "Essentials"}
	subs := []string{"", "Rice & Grains", "Oils", "Mithai", "Snacks"}
	subsubs := []string{"", "", "Basmati", "Ghee", "Barfi"}
	names := []string{"Ghee", " ghee ", "Basmati Rice", "Kaju Barfi", "", "Chips", "CHIPS"}

	return api.Product{
		Name:           names[rng.Intn(len(names))],
		Category:       cats[rng.Intn(len(cats))],
		Subcategory:    subs[rng.Intn(len(subs))],
		Subsubcategory: subsubs[rng.Intn(len(subsubs))],
		Price:          float64(rng.Intn(100)),
		Discount:       float64(rng.Intn(3) * 10),
		Available:      float64(rng.Intn(3)),
		IsNew:          rng.Intn(4) == 0,
		IsTrending:     rng.Intn(5) == 0,
		Weight:         fmt.Sprintf("%dg", (idx%5+1)*100),
	}
}

func randomProducts(rng *rand.Rand, n int) []api.Product {
	out := make([]api.Product, 0, n)
	for i := range n {
		out = append(out, randomProduct(rng, i))
	}
	return out
}
