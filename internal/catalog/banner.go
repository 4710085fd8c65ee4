package catalog

import (
	"regexp"
	"strings"

	"github.com/tayloree/storefront/internal/api"
)

var (
	reSlug        = regexp.MustCompile(`[^a-z0-9]+`)
	reLinkedAsset = regexp.MustCompile(`(?i)^(https?://|/|data:)`)
)

// Assets resolves product image references to servable paths.
type Assets struct {
	Base          string
	DefaultBanner string
}

// DefaultAssets mirrors the storefront's asset layout.
var DefaultAssets = Assets{Base: "assets/", DefaultBanner: "default-banner.png"}

// Path prefixes the asset base unless the reference is already a URL, an
// absolute path, a data URI, or under the asset base.
func (a Assets) Path(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	base := a.base()
	if reLinkedAsset.MatchString(ref) || strings.HasPrefix(strings.ToLower(ref), strings.ToLower(base)) {
		return ref
	}
	return base + ref
}

// DefaultBannerPath is the fallback banner image.
func (a Assets) DefaultBannerPath() string {
	banner := a.DefaultBanner
	if banner == "" {
		banner = DefaultAssets.DefaultBanner
	}
	return a.base() + banner
}

// Placeholder returns the image for an empty listing: the nearest banner for
// the path, else a banner file named after the deepest path element.
func (a Assets) Placeholder(products []api.Product, category, subcategory, subsubcategory string) string {
	if img, ok := FindBanner(products, category, subcategory, subsubcategory); ok {
		return a.Path(img)
	}
	return a.base() + BannerFileName(PlaceholderName(category, subcategory, subsubcategory))
}

func (a Assets) base() string {
	base := a.Base
	if base == "" {
		base = DefaultAssets.Base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// PlaceholderName is the label shown for an empty listing.
func PlaceholderName(category, subcategory, subsubcategory string) string {
	switch {
	case subsubcategory != "" && subsubcategory != RootBucket:
		return subsubcategory
	case subcategory != "":
		return subcategory
	case category != "":
		return category
	default:
		return "default"
	}
}

// BannerFileName derives a banner file name from a label.
func BannerFileName(name string) string {
	slug := reSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return DefaultAssets.DefaultBanner
	}
	return slug + "-banner.png"
}

// ImageOf returns the raw image reference of a product: banner, image,
// imagePath, the first image, or the first image inside imageFolder.
func ImageOf(p api.Product) string {
	for _, ref := range []string{p.Banner, p.Image, p.ImagePath} {
		if s := strings.TrimSpace(ref); s != "" {
			return s
		}
	}
	if len(p.Images) > 0 {
		first := strings.TrimSpace(p.Images[0])
		if folder := strings.TrimSuffix(strings.TrimSpace(p.ImageFolder), "/"); folder != "" && first != "" {
			return folder + "/" + first
		}
		return first
	}
	return ""
}

// Gallery returns a product's image paths, falling back to the default
// banner.
func (a Assets) Gallery(p api.Product) []string {
	var out []string
	if len(p.Images) > 0 {
		prefix := a.base()
		if folder := strings.TrimSpace(p.ImageFolder); folder != "" {
			prefix = strings.TrimSuffix(folder, "/") + "/"
		}
		for _, img := range p.Images {
			if img = strings.TrimSpace(img); img != "" {
				out = append(out, prefix+img)
			}
		}
	} else if img := strings.TrimSpace(p.Image); img != "" {
		out = append(out, a.base()+img)
	}
	if len(out) == 0 {
		out = append(out, a.DefaultBannerPath())
	}
	return out
}

// FindBanner looks for a banner-flagged record with an image, preferring the
// most specific level: sub-subcategory, then subcategory, then category.
// Records are placed by PathOf, so names from the index match records that
// omit their taxonomy.
func FindBanner(products []api.Product, category, subcategory, subsubcategory string) (string, bool) {
	type level struct {
		enabled bool
		match   func(Path) bool
	}
	levels := []level{
		{subsubcategory != "", func(p Path) bool {
			return p.Category == category && p.Subcategory == subcategory && p.Subsubcategory == subsubcategory
		}},
		{subcategory != "", func(p Path) bool {
			return p.Category == category && p.Subcategory == subcategory
		}},
		{category != "", func(p Path) bool {
			return p.Category == category
		}},
	}

	for _, l := range levels {
		if !l.enabled {
			continue
		}
		for _, p := range products {
			if !p.IsBanner || !l.match(PathOf(p)) {
				continue
			}
			if img := bannerImage(p); img != "" {
				return img, true
			}
		}
	}
	return "", false
}

func bannerImage(p api.Product) string {
	for _, ref := range []string{p.Image, p.ImagePath, p.Banner} {
		if s := strings.TrimSpace(ref); s != "" {
			return s
		}
	}
	return ""
}

// BannerTile is one home-page banner for a subcategory.
type BannerTile struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Image       string `json:"image"`
}

// BannerTiles yields one tile per (category, subcategory) that has a
// banner-flagged record, in first-seen order. The image comes from a flagged
// record when possible, else from any record in the subcategory.
func (a Assets) BannerTiles(products []api.Product) []BannerTile {
	type entry struct {
		category, subcategory string
		products              []api.Product
	}
	type key struct{ category, subcategory string }

	var order []key
	entries := make(map[key]*entry)
	for _, p := range products {
		path := PathOf(p)
		k := key{path.Category, path.Subcategory}
		e, ok := entries[k]
		if !ok {
			e = &entry{category: path.Category, subcategory: path.Subcategory}
			entries[k] = e
			order = append(order, k)
		}
		e.products = append(e.products, p)
	}

	var tiles []BannerTile
	for _, k := range order {
		e := entries[k]
		flagged := Banners(e.products)
		if len(flagged) == 0 {
			continue
		}
		img := firstImage(flagged)
		if img == "" {
			img = firstImage(e.products)
		}
		if img == "" {
			continue
		}
		tiles = append(tiles, BannerTile{Category: e.category, Subcategory: e.subcategory, Image: a.Path(img)})
	}
	return tiles
}

// Banners returns the banner-flagged records.
func Banners(products []api.Product) []api.Product {
	var out []api.Product
	for _, p := range products {
		if p.IsBanner {
			out = append(out, p)
		}
	}
	return out
}

func firstImage(products []api.Product) string {
	for _, p := range products {
		if img := ImageOf(p); img != "" {
			return img
		}
	}
	return ""
}
