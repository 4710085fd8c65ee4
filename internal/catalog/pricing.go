package catalog

import (
	"strconv"

	"github.com/tayloree/storefront/internal/api"
)

// Badges is the badge state shown on a product tile.
type Badges struct {
	IsNew       bool    `json:"isNew"`
	IsTrending  bool    `json:"isTrending"`
	HasDiscount bool    `json:"hasDiscount"`
	MaxDiscount float64 `json:"maxDiscount"`
	InStock     bool    `json:"inStock"`
}

// AggregateBadges computes badges across every variant: a flag is set when any
// variant carries it.
func AggregateBadges(variants []api.Product) Badges {
	var b Badges
	for _, v := range variants {
		b.IsNew = b.IsNew || v.IsNew
		b.IsTrending = b.IsTrending || v.IsTrending
		b.InStock = b.InStock || v.InStock()
		if v.Discount > 0 {
			b.HasDiscount = true
		}
		if v.Discount > b.MaxDiscount {
			b.MaxDiscount = v.Discount
		}
	}
	return b
}

// BadgesOf returns the badges of a single product record.
func BadgesOf(p api.Product) Badges {
	return AggregateBadges([]api.Product{p})
}

// DiscountedPrice applies a percentage discount. Non-positive discounts leave
// the price unchanged.
func DiscountedPrice(price, discount float64) float64 {
	if discount > 0 {
		return price - price*discount/100
	}
	return price
}

// SalePrice is the product's price after its own discount.
func SalePrice(p api.Product) float64 {
	return DiscountedPrice(p.Price, p.Discount)
}

// DiscountLabel renders a discount badge: "15% OFF" for real percentages and
// "Offer" for token discounts of at most one percent.
func DiscountLabel(discount float64) string {
	switch {
	case discount > 1:
		return strconv.FormatFloat(discount, 'f', -1, 64) + "% OFF"
	case discount > 0:
		return "Offer"
	default:
		return ""
	}
}
