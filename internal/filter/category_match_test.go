package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/filter"
)

func TestMatchCategory(t *testing.T) {
	ix := catalog.BuildIndex(append(sampleProducts(), api.Product{Name: "Soap", Category: "Essentials", Subcategory: "Home Care"}))

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Grocery", "Grocery", true},
		{"grocery", "Grocery", true},
		{"groceries", "Grocery", true},
		{"sweet", "Sweets", true},
		{"ess", "Essentials", true},
		{"hardware", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := filter.MatchCategory(ix, tc.in)
		assert.Equal(t, tc.ok, ok, "in=%q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "in=%q", tc.in)
		}
	}
}

func TestMatchSubcategory(t *testing.T) {
	ix := catalog.BuildIndex(sampleProducts())

	got, ok := filter.MatchSubcategory(ix, "Grocery", "rice and grains")
	assert.True(t, ok)
	assert.Equal(t, "Rice & Grains", got)

	got, ok = filter.MatchSubcategory(ix, "Grocery", "oil")
	assert.True(t, ok)
	assert.Equal(t, "Oils", got)

	_, ok = filter.MatchSubcategory(ix, "Sweets", "oils")
	assert.False(t, ok)

	got, ok = filter.MatchSubsubcategory(ix, "Sweets", "Mithai", "LADOO")
	assert.True(t, ok)
	assert.Equal(t, "Ladoo", got)
}

func TestMatchCategory_AmbiguousPrefix(t *testing.T) {
	ix := catalog.BuildIndex([]api.Product{
		{Name: "a", Category: "Snacks"},
		{Name: "b", Category: "Snack Boxes"},
	})

	_, ok := filter.MatchCategory(ix, "sna")
	assert.False(t, ok)

	got, ok := filter.MatchCategory(ix, "snack")
	assert.True(t, ok)
	assert.Equal(t, "Snacks", got)
}
