package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
)

func TestDiscountedPrice(t *testing.T) {
	assert.InDelta(t, 80.0, catalog.DiscountedPrice(100, 20), 1e-9)
	assert.InDelta(t, 100.0, catalog.DiscountedPrice(100, 0), 1e-9)
	assert.InDelta(t, 100.0, catalog.DiscountedPrice(100, -5), 1e-9)
	assert.InDelta(t, 17.0, catalog.SalePrice(api.Product{Price: 20, Discount: 15}), 1e-9)
}

func TestDiscountLabel(t *testing.T) {
	tests := []struct {
		discount float64
		want     string
	}{
		{15, "15% OFF"},
		{12.5, "12.5% OFF"},
		{1, "Offer"},
		{0.5, "Offer"},
		{0, ""},
		{-3, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, catalog.DiscountLabel(tc.discount), "discount=%v", tc.discount)
	}
}

func TestAggregateBadges_Empty(t *testing.T) {
	assert.Equal(t, catalog.Badges{}, catalog.AggregateBadges(nil))
}

func TestBadgesOf(t *testing.T) {
	b := catalog.BadgesOf(api.Product{Discount: 5, Available: 0.5, IsTrending: true})

	assert.Equal(t, catalog.Badges{IsTrending: true, HasDiscount: true, MaxDiscount: 5, InStock: true}, b)
}
