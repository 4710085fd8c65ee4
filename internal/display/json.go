package display

import (
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
)

// ProductJSON is the JSON output shape for a grid card.
type ProductJSON struct {
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Subcategory    string         `json:"subcategory"`
	Subsubcategory string         `json:"subsubcategory"`
	Weight         string         `json:"weight"`
	Price          float64        `json:"price"`
	SalePrice      float64        `json:"salePrice"`
	Discount       float64        `json:"discount"`
	DiscountLabel  string         `json:"discountLabel"`
	Badges         catalog.Badges `json:"badges"`
	Image          string         `json:"image"`
	Variants       []VariantJSON  `json:"variants"`
}

// VariantJSON is the JSON output shape for one variant.
type VariantJSON struct {
	Name        string  `json:"name"`
	Weight      string  `json:"weight"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"salePrice"`
	Discount    float64 `json:"discount"`
	Available   float64 `json:"available"`
	InStock     bool    `json:"inStock"`
	IsNew       bool    `json:"isNew"`
	IsTrending  bool    `json:"isTrending"`
	ProductCode string  `json:"productCode,omitempty"`
}

// DetailJSON is the JSON output shape for a product detail.
type DetailJSON struct {
	Display  VariantJSON    `json:"display"`
	Default  VariantJSON    `json:"default"`
	Badges   catalog.Badges `json:"badges"`
	Variants []VariantJSON  `json:"variants"`
	Images   []string       `json:"images"`
}

// CategoryJSON is the JSON output shape for a category node.
type CategoryJSON struct {
	Name          string            `json:"name"`
	Count         int               `json:"count"`
	Subcategories []SubcategoryJSON `json:"subcategories"`
}

// SubcategoryJSON is the JSON output shape for a subcategory node.
type SubcategoryJSON struct {
	Name     string     `json:"name"`
	Count    int        `json:"count"`
	State    string     `json:"state"`
	Children []LeafJSON `json:"children"`
}

// LeafJSON is the JSON output shape for a sub-subcategory.
type LeafJSON struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// ResolutionJSON is the JSON output shape for a carousel tile.
type ResolutionJSON struct {
	Display VariantJSON    `json:"display"`
	Badges  catalog.Badges `json:"badges"`
}

// HighlightsJSON is the JSON output shape for both carousels.
type HighlightsJSON struct {
	New      []ResolutionJSON `json:"new"`
	Trending []ResolutionJSON `json:"trending"`
}

// ReceiptJSON is the JSON output shape for a cart quote.
type ReceiptJSON struct {
	OrderNumber string            `json:"orderNumber"`
	Payment     string            `json:"payment"`
	Currency    string            `json:"currency"`
	Count       int               `json:"count"`
	Total       string            `json:"total"`
	Lines       []ReceiptLineJSON `json:"lines"`
}

// ReceiptLineJSON is one priced cart line.
type ReceiptLineJSON struct {
	Name     string  `json:"name"`
	Weight   string  `json:"weight"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal string  `json:"subtotal"`
}

func toProductJSON(def api.Product, variants []api.Product, assets catalog.Assets) ProductJSON {
	path := catalog.PathOf(def)
	out := ProductJSON{
		Name:           def.Name,
		Category:       path.Category,
		Subcategory:    path.Subcategory,
		Subsubcategory: path.Subsubcategory,
		Weight:         def.Weight,
		Price:          def.Price,
		SalePrice:      catalog.SalePrice(def),
		Discount:       def.Discount,
		DiscountLabel:  catalog.DiscountLabel(def.Discount),
		Badges:         catalog.AggregateBadges(variants),
		Image:          assets.Gallery(def)[0],
		Variants:       make([]VariantJSON, 0, len(variants)),
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, toVariantJSON(v))
	}
	return out
}

func toVariantJSON(p api.Product) VariantJSON {
	return VariantJSON{
		Name:        p.Name,
		Weight:      p.Weight,
		Price:       p.Price,
		SalePrice:   catalog.SalePrice(p),
		Discount:    p.Discount,
		Available:   p.Available,
		InStock:     p.InStock(),
		IsNew:       p.IsNew,
		IsTrending:  p.IsTrending,
		ProductCode: p.ProductCode,
	}
}

func toResolutionsJSON(items []catalog.Resolution) []ResolutionJSON {
	out := make([]ResolutionJSON, 0, len(items))
	for _, res := range items {
		out = append(out, ResolutionJSON{Display: toVariantJSON(res.Display), Badges: res.Badges})
	}
	return out
}
