package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/cart"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/filter"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	newTag       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	trendTag     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	dealStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Money formats a catalog price the way product tiles show it.
func Money(currency string, amount float64) string {
	return fmt.Sprintf("%s %s", currency, strconv.FormatFloat(amount, 'f', 1, 64))
}

// PrintCards renders grid cards: one per variant group with its default
// purchasable variant.
func PrintCards(w io.Writer, title string, cards []catalog.Card, currency string) {
	fmt.Fprintf(w, "\n%s | %s\n\n",
		headerStyle.Render(title),
		cyanStyle.Render(fmt.Sprintf("%d products", len(cards))),
	)
	for _, c := range cards {
		printCard(w, c, currency)
		fmt.Fprintln(w)
	}
}

// PrintCardsJSON renders cards as JSON.
func PrintCardsJSON(w io.Writer, cards []catalog.Card, assets catalog.Assets) error {
	out := make([]ProductJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, toProductJSON(c.Default, c.Variants, assets))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintTree renders the category tree with checkbox markers and counts.
func PrintTree(w io.Writer, ix *catalog.Index, sel filter.Selection) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Categories:"))
	for _, cat := range ix.Categories() {
		fmt.Fprintf(w, "  %s (%d)\n", cyanStyle.Render(cat), ix.CountCategory(cat))
		for _, sub := range ix.Subcategories(cat) {
			fmt.Fprintf(w, "    %s %s (%d)\n", marker(sel.ParentState(cat, sub)), sub, ix.CountSubcategory(cat, sub))
			for _, child := range ix.Subsubcategories(cat, sub) {
				state := filter.Unchecked
				if sel.IsChildSelected(cat, sub, child) {
					state = filter.Checked
				}
				count := len(ix.Products(catalog.Path{Category: cat, Subcategory: sub, Subsubcategory: child}))
				fmt.Fprintf(w, "        %s %s (%d)\n", marker(state), dimStyle.Render(child), count)
			}
		}
	}
	if sel.Empty() {
		fmt.Fprintf(w, "\n%s\n", dimStyle.Render("No filter selected: every product is shown."))
	}
	fmt.Fprintln(w)
}

// PrintTreeJSON renders the category tree as JSON.
func PrintTreeJSON(w io.Writer, ix *catalog.Index, sel filter.Selection) error {
	out := make([]CategoryJSON, 0, len(ix.Categories()))
	for _, cat := range ix.Categories() {
		c := CategoryJSON{Name: cat, Count: ix.CountCategory(cat), Subcategories: []SubcategoryJSON{}}
		for _, sub := range ix.Subcategories(cat) {
			s := SubcategoryJSON{
				Name:     sub,
				Count:    ix.CountSubcategory(cat, sub),
				State:    sel.ParentState(cat, sub).String(),
				Children: []LeafJSON{},
			}
			for _, child := range ix.Subsubcategories(cat, sub) {
				s.Children = append(s.Children, LeafJSON{
					Name:     child,
					Count:    len(ix.Products(catalog.Path{Category: cat, Subcategory: sub, Subsubcategory: child})),
					Selected: sel.IsChildSelected(cat, sub, child),
				})
			}
			c.Subcategories = append(c.Subcategories, s)
		}
		out = append(out, c)
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintDetail renders one product with all of its variants.
func PrintDetail(w io.Writer, res catalog.Resolution, def api.Product, variants []api.Product, currency string) {
	fmt.Fprintf(w, "\n  %s%s\n", badgeTags(res.Badges), titleStyle.Render(res.Display.Name))
	if path := pathLabel(res.Display); path != "" {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(path))
	}
	if res.Badges.HasDiscount {
		fmt.Fprintf(w, "    %s\n", dealStyle.Render(fmt.Sprintf("Up to %s", catalog.DiscountLabel(res.Badges.MaxDiscount))))
	}
	if !res.Badges.InStock {
		fmt.Fprintf(w, "    %s\n", warningStyle.Render("Out of stock"))
	}
	if benefit := strings.TrimSpace(res.Display.Benefit); benefit != "" {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(wordWrap(benefit, 72, "    ")))
	}

	fmt.Fprintf(w, "\n    %s\n", titleStyle.Render("Variants:"))
	for _, v := range variants {
		mark := " "
		if v.Identity() == def.Identity() {
			mark = "*"
		}
		line := fmt.Sprintf("    %s %s  %s", mark, weightLabel(v), priceLine(v, currency))
		if tags := strings.TrimSpace(badgeTags(catalog.BadgesOf(v))); tags != "" {
			line += "  " + tags
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\n    %s\n\n", dimStyle.Render("* default variant for add to cart"))
}

// PrintDetailJSON renders a product detail as JSON.
func PrintDetailJSON(w io.Writer, res catalog.Resolution, def api.Product, variants []api.Product, assets catalog.Assets) error {
	out := DetailJSON{
		Display:  toVariantJSON(res.Display),
		Default:  toVariantJSON(def),
		Badges:   res.Badges,
		Variants: make([]VariantJSON, 0, len(variants)),
		Images:   assets.Gallery(res.Display),
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, toVariantJSON(v))
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintHighlights renders the New and Trending carousels.
func PrintHighlights(w io.Writer, arrivals, trending []catalog.Resolution, currency string) {
	for _, section := range []struct {
		title string
		items []catalog.Resolution
	}{
		{"New Products", arrivals},
		{"Trending Products", trending},
	} {
		fmt.Fprintf(w, "\n%s | %s\n\n",
			headerStyle.Render(section.title),
			cyanStyle.Render(fmt.Sprintf("%d items", len(section.items))),
		)
		for _, res := range section.items {
			fmt.Fprintf(w, "  %s%s  %s\n", badgeTags(res.Badges), titleStyle.Render(res.Display.Name), priceLine(res.Display, currency))
		}
	}
	fmt.Fprintln(w)
}

// PrintHighlightsJSON renders both carousels as JSON.
func PrintHighlightsJSON(w io.Writer, arrivals, trending []catalog.Resolution) error {
	return json.NewEncoder(w).Encode(HighlightsJSON{
		New:      toResolutionsJSON(arrivals),
		Trending: toResolutionsJSON(trending),
	})
}

// PrintBanners renders banner tiles.
func PrintBanners(w io.Writer, tiles []catalog.BannerTile) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render("Banners:"))
	if len(tiles) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No banners in this catalog."))
		return
	}
	for _, t := range tiles {
		fmt.Fprintf(w, "  %s > %s\n    %s\n", cyanStyle.Render(t.Category), t.Subcategory, dimStyle.Render(t.Image))
	}
	fmt.Fprintln(w)
}

// PrintBannersJSON renders banner tiles as JSON.
func PrintBannersJSON(w io.Writer, tiles []catalog.BannerTile) error {
	if tiles == nil {
		tiles = []catalog.BannerTile{}
	}
	return json.NewEncoder(w).Encode(tiles)
}

// PrintReceipt renders a cart quote.
func PrintReceipt(w io.Writer, c *cart.Cart, orderNo, payment, currency string) {
	fmt.Fprintf(w, "\n%s\n\n", headerStyle.Render("Quote"))
	fmt.Fprintln(w, c.Summary(orderNo, payment, currency))
	fmt.Fprintln(w)
}

// PrintReceiptJSON renders a cart quote as JSON.
func PrintReceiptJSON(w io.Writer, c *cart.Cart, orderNo, payment, currency string) error {
	out := ReceiptJSON{
		OrderNumber: orderNo,
		Payment:     payment,
		Currency:    currency,
		Count:       c.Count(),
		Total:       c.Total().StringFixed(2),
		Lines:       []ReceiptLineJSON{},
	}
	for _, l := range c.Lines() {
		out.Lines = append(out.Lines, ReceiptLineJSON{
			Name:     l.Product.Name,
			Weight:   l.Product.Weight,
			Price:    l.Product.Price,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal().StringFixed(2),
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintSourceContext prints a dim line naming the catalog source in use.
func PrintSourceContext(w io.Writer, source string, count int) {
	fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("Catalog: %s (%d records)", source, count)))
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

func printCard(w io.Writer, c catalog.Card, currency string) {
	badges := catalog.AggregateBadges(c.Variants)
	name := strings.TrimSpace(c.Default.Name)
	if name == "" {
		name = "Unnamed product"
	}
	fmt.Fprintf(w, "  %s%s\n", badgeTags(badges), titleStyle.Render(name))
	fmt.Fprintf(w, "    %s  %s\n", weightLabel(c.Default), priceLine(c.Default, currency))

	var meta []string
	if path := pathLabel(c.Default); path != "" {
		meta = append(meta, path)
	}
	if n := len(c.Variants); n > 1 {
		meta = append(meta, fmt.Sprintf("%d variants", n))
	}
	if !badges.InStock {
		meta = append(meta, "out of stock")
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(strings.Join(meta, " | ")))
	}
}

func priceLine(p api.Product, currency string) string {
	if p.Discount > 0 {
		return fmt.Sprintf("%s %s %s",
			dimStyle.Render(Money(currency, p.Price)),
			priceStyle.Render(Money(currency, catalog.SalePrice(p))),
			dealStyle.Render(catalog.DiscountLabel(p.Discount)),
		)
	}
	return priceStyle.Render(Money(currency, p.Price))
}

func badgeTags(b catalog.Badges) string {
	tag := ""
	if b.IsNew {
		tag += newTag.Render("NEW") + " "
	}
	if b.IsTrending {
		tag += trendTag.Render("TRENDING") + " "
	}
	return tag
}

func weightLabel(p api.Product) string {
	if w := strings.TrimSpace(p.Weight); w != "" {
		return w
	}
	return "-"
}

func pathLabel(p api.Product) string {
	path := catalog.PathOf(p)
	parts := []string{path.Category, path.Subcategory}
	if !path.IsRoot() {
		parts = append(parts, path.Subsubcategory)
	}
	return strings.Join(parts, " > ")
}

func marker(s filter.CheckState) string {
	switch s {
	case filter.Checked:
		return "[x]"
	case filter.Mixed:
		return "[-]"
	default:
		return "[ ]"
	}
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}
