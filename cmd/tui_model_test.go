package cmd

import (
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/filter"
)

func tuiProducts() []api.Product {
	return []api.Product{
		{Name: "A2 Ghee", Category: "Dairy", Subcategory: "Ghee", Price: 40, Available: 5, Weight: "500 ml", IsNew: true},
		{Name: "A2 Ghee", Category: "Dairy", Subcategory: "Ghee", Price: 75, Available: 0, Weight: "1 L"},
		{Name: "Paneer", Category: "Dairy", Subcategory: "Cheese", Price: 12, Available: 9},
		{Name: "Wild Honey", Category: "Pantry", Subcategory: "Honey", Price: 25, Available: 2},
		{Name: "Cow Ghee", Category: "Dairy", Subcategory: "Ghee", Price: 30, Available: 0},
	}
}

func loadedTUIModel(t *testing.T, cfg tuiLoadConfig) storeTUIModel {
	t.Helper()
	m := newLoadingStoreTUIModel(cfg)
	next, _ := m.Update(tuiDataLoadedMsg{source: "fixture.json", state: catalog.NewState(tuiProducts())})
	next, _ = next.Update(tea.WindowSizeMsg{Width: 160, Height: 60})
	loaded, ok := next.(storeTUIModel)
	require.True(t, ok)
	require.False(t, loaded.loading)
	return loaded
}

func press(t *testing.T, m storeTUIModel, keys ...string) storeTUIModel {
	t.Helper()
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "delete":
			msg = tea.KeyMsg{Type: tea.KeyDelete}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		m = next.(storeTUIModel)
	}
	return m
}

func TestBuildGroupedListItems_SectionsInFirstSeenOrder(t *testing.T) {
	cards := catalog.Cards(tuiProducts())

	items, starts := buildGroupedListItems(cards, "AED")

	assert.Equal(t, []int{0, 3, 5}, starts)

	header, ok := items[0].(tuiSectionItem)
	require.True(t, ok)
	assert.Equal(t, "Dairy > Ghee", header.name)
	assert.Equal(t, 2, header.count)
	assert.Equal(t, 1, header.ordinal)

	first, ok := items[1].(tuiProductItem)
	require.True(t, ok)
	assert.Equal(t, "A2 Ghee", first.title)
	assert.Contains(t, first.description, "AED 40.0")
	assert.Contains(t, first.description, "2 variants")
	assert.Contains(t, first.description, "NEW")

	cow, ok := items[2].(tuiProductItem)
	require.True(t, ok)
	assert.Contains(t, cow.description, "out of stock")

	header3, ok := items[5].(tuiSectionItem)
	require.True(t, ok)
	assert.Equal(t, "Pantry > Honey", header3.name)
}

func TestBuildPriceChoices(t *testing.T) {
	current := 33.0
	choices := buildPriceChoices(tuiProducts(), &current)

	require.NotEmpty(t, choices)
	assert.True(t, math.IsNaN(choices[0]), "first choice is no ceiling")
	assert.Contains(t, choices, 33.0)
	assert.Contains(t, choices, 75.0)
	assert.IsIncreasing(t, choices[1:])
	assert.Nil(t, priceCeilingOption(choices[0]))
}

func TestBuildLimitChoices_AlwaysIncludesCurrent(t *testing.T) {
	assert.Equal(t, []int{0, 10, 25, 50, 100}, buildLimitChoices(0))
	assert.Equal(t, []int{0, 7, 10, 25, 50, 100}, buildLimitChoices(7))
}

func TestStoreTUIModel_LoadResolvesInitialPath(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{category: "dairy", subcategory: "cheese"})

	assert.Equal(t, catalog.Path{Category: "Dairy", Subcategory: "Cheese"}, m.path)
	assert.Equal(t, 1, m.visibleProducts)
}

func TestStoreTUIModel_CyclesCategorySortAndReset(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{})
	assert.Equal(t, 4, m.visibleProducts)

	m = press(t, m, "c")
	assert.Equal(t, "Dairy", m.path.Category)
	assert.Equal(t, 3, m.visibleProducts)

	m = press(t, m, "a")
	assert.Equal(t, "Ghee", m.path.Subcategory)
	assert.Equal(t, 2, m.visibleProducts)

	m = press(t, m, "s")
	assert.Equal(t, filter.SortPriceAsc, m.opts.Sort)

	m = press(t, m, "p")
	require.NotNil(t, m.opts.PriceMax)

	m = press(t, m, "r")
	assert.Equal(t, catalog.Path{}, m.path)
	assert.Equal(t, filter.SortNone, m.opts.Sort)
	assert.Nil(t, m.opts.PriceMax)
	assert.Equal(t, 4, m.visibleProducts)
}

func TestStoreTUIModel_ToggleSubcategoryHidesIt(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{category: "Dairy"})
	require.Equal(t, 3, m.visibleProducts)

	m = press(t, m, "x")

	assert.False(t, m.sel.IsParentSelected("Dairy", "Ghee"))
	assert.Equal(t, 1, m.visibleProducts)
	assert.Equal(t, "Cheese", m.subcategoryChoices[m.subcategoryIndex], "choice follows the single checked subcategory")
	assert.Contains(t, m.activeFilterSummary(), "checked:Dairy > Cheese")
}

func TestStoreTUIModel_TopLevelToggleUnchecks(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{})
	require.True(t, m.sel.IsParentSelected("Pantry", "Honey"), "the top level opens with every box checked")

	m = press(t, m, "x")

	assert.False(t, m.sel.IsParentSelected("Dairy", "Ghee"))
	assert.True(t, m.sel.IsParentSelected("Dairy", "Cheese"))
	assert.Equal(t, 2, m.visibleProducts)

	m = press(t, m, "X")
	assert.True(t, m.sel.Empty())
	assert.Equal(t, 4, m.visibleProducts)
}

func TestStoreTUIModel_ResetChecksEverything(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{category: "Dairy", initialOpts: filter.Options{Sort: filter.SortNew, Limit: 1}})
	m = press(t, m, "x")
	require.Equal(t, 1, m.visibleProducts)

	m = press(t, m, "r")

	assert.Equal(t, catalog.Path{}, m.path)
	assert.Equal(t, filter.Reset(), m.opts)
	assert.Equal(t, filter.SelectAll(m.state.Index).Parents(), m.sel.Parents())
	assert.Equal(t, 4, m.visibleProducts)
}

func TestStoreTUIModel_EditsCartLine(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{})

	m = press(t, m, "+")
	assert.Zero(t, m.cart.Len(), "nothing to edit before the product is added")

	m = press(t, m, "enter", "+", "+")
	assert.Equal(t, 3, m.cart.Count())

	m = press(t, m, "-")
	assert.Equal(t, 2, m.cart.Count())

	m = press(t, m, "delete")
	assert.Zero(t, m.cart.Len())
}

func TestStoreTUIModel_CartAndOrder(t *testing.T) {
	m := loadedTUIModel(t, tuiLoadConfig{currency: "AED"})

	m = press(t, m, "enter", "enter")
	assert.Equal(t, 2, m.cart.Count())
	assert.Equal(t, "80.00", m.cart.Total().StringFixed(2))

	m = press(t, m, "o")
	assert.Equal(t, 0, m.cart.Len())
	assert.Contains(t, m.receipt, "placed successfully")
	assert.Contains(t, m.receipt, "- A2 Ghee (500 ml) x2 = AED 80.00")
	assert.Equal(t, tuiFocusDetail, m.focus)
}

func TestCanonicalizeTUIOptions(t *testing.T) {
	opts := canonicalizeTUIOptions(filter.Options{Sort: "cheapest", Tag: "  ghee ", Limit: -3})

	assert.Equal(t, filter.SortPriceAsc, opts.Sort)
	assert.Equal(t, "ghee", opts.Tag)
	assert.Zero(t, opts.Limit)
}
