package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// Product is a single catalog record. Several records sharing a name are
// variants of one logical product.
type Product struct {
	Name           string   `json:"name"`
	Category       string   `json:"category,omitempty"`
	Subcategory    string   `json:"subcategory,omitempty"`
	Subsubcategory string   `json:"subsubcategory,omitempty"`
	Price          float64  `json:"price"`
	Discount       float64  `json:"discount,omitempty"`
	Available      float64  `json:"available"`
	IsNew          bool     `json:"isNew,omitempty"`
	IsTrending     bool     `json:"isTrending,omitempty"`
	IsBanner       bool     `json:"isBanner,omitempty"`
	Weight         string   `json:"weight,omitempty"`
	ProductCode    string   `json:"productCode,omitempty"`
	Benefit        string   `json:"benefit,omitempty"`
	Image          string   `json:"image,omitempty"`
	ImagePath      string   `json:"imagePath,omitempty"`
	Banner         string   `json:"banner,omitempty"`
	Images         []string `json:"images,omitempty"`
	ImageFolder    string   `json:"imageFolder,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Available > 0
}

// Identity is the structural identity of a product record. Records with a
// product code are identified by it alone.
type Identity struct {
	ProductCode string
	Name        string
	Weight      string
	Price       float64
}

// Identity returns the product's identity.
func (p Product) Identity() Identity {
	if code := strings.TrimSpace(p.ProductCode); code != "" {
		return Identity{ProductCode: code}
	}
	return Identity{Name: p.Name, Weight: p.Weight, Price: p.Price}
}

// UnmarshalJSON decodes a product tolerantly: snake_case aliases are accepted,
// flags may be encoded as booleans, numbers or strings, and numeric fields may
// be strings. Missing or malformed values fall back to zero values.
func (p *Product) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("decoding product: invalid JSON")
	}
	*p = productFromResult(gjson.ParseBytes(data))
	return nil
}

// DecodeCatalog decodes a catalog payload. The payload is either an array of
// products or an object holding one under "products". Any other valid JSON
// decodes to an empty catalog.
func DecodeCatalog(data []byte) ([]Product, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decoding catalog: invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		root = root.Get("products")
	}
	if !root.IsArray() {
		return []Product{}, nil
	}

	products := make([]Product, 0, len(root.Array()))
	root.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			products = append(products, productFromResult(value))
		}
		return true
	})
	return products, nil
}

// EncodeCatalog renders products as a JSON array in canonical field names.
func EncodeCatalog(products []Product) ([]byte, error) {
	if products == nil {
		products = []Product{}
	}
	return json.Marshal(products)
}

func productFromResult(r gjson.Result) Product {
	return Product{
		Name:           text(r, "name"),
		Category:       text(r, "category"),
		Subcategory:    text(r, "subcategory"),
		Subsubcategory: text(r, "subsubcategory"),
		Price:          number(r, "price"),
		Discount:       number(r, "discount", "dis_count"),
		Available:      number(r, "available"),
		IsNew:          flag(r, "isNew", "is_new"),
		IsTrending:     flag(r, "isTrending", "is_trending"),
		IsBanner:       flag(r, "isBanner", "is_banner", "isbanner"),
		Weight:         text(r, "weight"),
		ProductCode:    text(r, "productCode"),
		Benefit:        text(r, "benefit"),
		Image:          text(r, "image"),
		ImagePath:      text(r, "imagePath"),
		Banner:         text(r, "banner"),
		Images:         list(r, "images"),
		ImageFolder:    text(r, "imageFolder"),
	}
}

// first returns the first alias present with a non-null value.
func first(r gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func text(r gjson.Result, keys ...string) string {
	v := first(r, keys...)
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	default:
		return ""
	}
}

func number(r gjson.Result, keys ...string) float64 {
	// Aliases are chained like `discount || dis_count`: a zero primary value
	// defers to the next alias.
	for _, key := range keys {
		v := first(r, key)
		f := toFloat(v)
		if f != 0 {
			return f
		}
	}
	return 0
}

func toFloat(v gjson.Result) float64 {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		f = v.Float()
	case gjson.True:
		f = 1
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func flag(r gjson.Result, keys ...string) bool {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() && ToBool(v.Value()) {
			return true
		}
	}
	return false
}

func list(r gjson.Result, key string) []string {
	v := first(r, key)
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, item := range v.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ToBool normalizes a loosely encoded flag. Booleans are returned as is,
// numbers are true when non-zero, and strings are true for "yes", "true" or
// "1" regardless of case and surrounding space.
func ToBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case float32:
		return b != 0
	case int:
		return b != 0
	case int64:
		return b != 0
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "true", "1":
			return true
		}
		return false
	default:
		return false
	}
}
