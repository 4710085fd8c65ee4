package cmd

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/cart"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/display"
	"github.com/tayloree/storefront/internal/filter"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiNewStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tuiTrendStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	tuiNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

type tuiLoadConfig struct {
	ctx         context.Context
	client      *api.Client
	currency    string
	assets      catalog.Assets
	category    string
	subcategory string
	initialOpts filter.Options
}

type tuiDataLoadedMsg struct {
	source string
	state  catalog.State
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
)

type tuiSectionItem struct {
	name    string
	count   int
	ordinal int
}

func (g tuiSectionItem) FilterValue() string { return strings.ToLower(g.name) }
func (g tuiSectionItem) Title() string       { return fmt.Sprintf("%d. %s", g.ordinal, g.name) }
func (g tuiSectionItem) Description() string {
	return fmt.Sprintf("Section header • %d products", g.count)
}

type tuiProductItem struct {
	card        catalog.Card
	section     string
	title       string
	description string
	filterValue string
}

func (d tuiProductItem) FilterValue() string { return d.filterValue }
func (d tuiProductItem) Title() string       { return d.title }
func (d tuiProductItem) Description() string { return d.description }

type storeTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCmd  tea.Cmd
	fatalErr error

	source   string
	state    catalog.State
	currency string
	assets   catalog.Assets

	rawCategory    string
	rawSubcategory string
	path           catalog.Path
	scope          filter.Scope
	sel            filter.Selection

	opts        filter.Options
	initialOpts filter.Options

	sortChoices        []string
	sortIndex          int
	categoryChoices    []string
	categoryIndex      int
	subcategoryChoices []string
	subcategoryIndex   int
	priceChoices       []float64
	priceIndex         int
	limitChoices       []int
	limitIndex         int

	cart    cart.Cart
	receipt string
	rng     *rand.Rand

	list   list.Model
	detail viewport.Model

	focus      tuiFocus
	showHelp   bool
	selectedID string

	groupStarts     []int
	visibleProducts int

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingStoreTUIModel(cfg tuiLoadConfig) storeTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Products"
	lst.SetStatusBarItemName("item", "items")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("f", "pgdown")
	detail.KeyMap.PageUp.SetKeys("b", "pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	currency := cfg.currency
	if currency == "" {
		currency = "AED"
	}

	return storeTUIModel{
		loading:        true,
		spinner:        spin,
		loadCmd:        loadTUIDataCmd(cfg),
		currency:       currency,
		assets:         cfg.assets,
		rawCategory:    cfg.category,
		rawSubcategory: cfg.subcategory,
		initialOpts:    cfg.initialOpts,
		opts:           cfg.initialOpts,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		list:           lst,
		detail:         detail,
		focus:          tuiFocusList,
	}
}

func loadTUIDataCmd(cfg tuiLoadConfig) tea.Cmd {
	return func() tea.Msg {
		fetched, err := cfg.client.FetchCatalog(cfg.ctx)
		if err != nil {
			return tuiDataLoadErrMsg{err: fmt.Errorf("loading catalog: %w", err)}
		}
		return tuiDataLoadedMsg{source: fetched.Source, state: catalog.NewState(fetched.Products)}
	}
}

func (m storeTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd)
}

func (m storeTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.source = msg.source
		m.state = msg.state
		m.path = resolveTUIPath(m.state.Index, m.rawCategory, m.rawSubcategory)
		m.initialOpts = canonicalizeTUIOptions(m.initialOpts)
		m.opts = m.initialOpts
		m.initializeInlineChoices()
		m.rebuildView()
		m.applyCurrentFilters(true)
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		m.fatalErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading {
		return m, nil
	}

	if isKey {
		filtering := m.list.FilterState() == list.Filtering
		key := keyMsg.String()

		if !filtering {
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				if m.focus == tuiFocusList {
					m.focus = tuiFocusDetail
				} else {
					m.focus = tuiFocusList
				}
				return m, nil
			case "esc":
				if m.focus == tuiFocusDetail {
					m.focus = tuiFocusList
					return m, nil
				}
			case "?":
				m.showHelp = !m.showHelp
				m.resize()
				return m, nil
			case "s":
				m.cycleSortMode()
				return m, nil
			case "c":
				m.cycleCategory()
				return m, nil
			case "a":
				m.cycleSubcategory()
				return m, nil
			case "x":
				return m, m.toggleSelectedSubcategory()
			case "X":
				m.sel = m.sel.Clear()
				m.applyCurrentFilters(false)
				return m, m.list.NewStatusMessage("Cleared every check; showing all products.")
			case "p":
				m.cyclePriceCeiling()
				return m, nil
			case "l":
				m.cycleLimit()
				return m, nil
			case "enter":
				return m, m.addSelectedToCart()
			case "+", "-", "delete", "backspace":
				return m, m.editSelectedCartLine(key)
			case "o":
				return m, m.placeOrder()
			case "r":
				m.resetFilters()
				return m, nil
			case "]", "[":
				if m.list.IsFiltered() {
					return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
				}
				delta := 1
				if key == "[" {
					delta = -1
				}
				m.jumpSection(delta)
				return m, nil
			}

			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				if m.list.IsFiltered() {
					return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
				}
				m.jumpToSection(int(key[0] - '1'))
				return m, nil
			}

			if m.focus == tuiFocusDetail {
				var cmd tea.Cmd
				m.detail, cmd = m.detail.Update(msg)
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m storeTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane product browser.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m storeTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	skeletonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	lines := []string{
		tuiHeaderStyle.Render("storefront tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Loading the product catalog", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading product list...     │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • category index            │  • variants and badges                 │"),
		skeletonStyle.Render("│  • variant groups            │  • prices and offers                   │"),
		skeletonStyle.Render("│  • selection tree            │  • cart                                │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m *storeTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 3
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = max(8, m.height-headerH-footerH-1)

	listWidth := max(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	listInnerWidth := max(24, listWidth-4)
	detailInnerWidth := max(24, detailWidth-4)
	panelInnerHeight := max(6, m.bodyHeight-2)

	m.list.SetSize(listInnerWidth, panelInnerHeight)
	m.detail.Width = detailInnerWidth
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m storeTUIModel) headerView() string {
	focus := "list"
	if m.focus == tuiFocusDetail {
		focus = "detail"
	}

	top := fmt.Sprintf("storefront tui  |  %s  |  cart: %d items, %s %s",
		m.source, m.cart.Count(), m.currency, m.cart.Total().StringFixed(2))
	bottom := fmt.Sprintf(
		"products: %d visible / %d records  |  filters: %s  |  focus: %s",
		m.visibleProducts, len(m.state.Products), m.activeFilterSummary(), focus,
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom))
}

func (m storeTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusList {
		listBorder = listBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m storeTUIModel) footerView() string {
	base := "Tab pane • / fuzzy • c category • a subcategory • x toggle section • s sort • p price • l limit • enter add • +/- qty • o order • r reset • q quit"
	if m.focus == tuiFocusDetail {
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • b/f page • esc list • ? help • q quit"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"browse: c next category • a next subcategory • x check/uncheck the highlighted product's subcategory • X clear checks",
		"filters: s sort • p price ceiling • l limit • / fuzzy filter • r reset to all products, every box checked",
		"cart: enter add default variant • +/- quantity • del remove line • o place order and show receipt",
		"sections: ] next • [ previous • 1..9 jump • detail pane: j/k scroll, u/d half-page, b/f page",
		"global: tab switch pane • esc list • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

func (m *storeTUIModel) initializeInlineChoices() {
	m.sortChoices = slices.Clone(filter.SortModes)
	m.categoryChoices = append([]string{""}, m.state.Index.Categories()...)
	m.priceChoices = buildPriceChoices(m.state.Products, m.opts.PriceMax)
	m.limitChoices = buildLimitChoices(m.opts.Limit)

	m.syncChoiceIndexesFromOptions()
}

func (m *storeTUIModel) syncChoiceIndexesFromOptions() {
	m.sortIndex = max(0, slices.Index(m.sortChoices, filter.NormalizeSort(m.opts.Sort)))
	m.opts.Sort = m.sortChoices[m.sortIndex]

	m.categoryIndex = max(0, slices.Index(m.categoryChoices, m.path.Category))
	m.path.Category = m.categoryChoices[m.categoryIndex]
	m.syncSubcategoryChoices()

	m.priceIndex = 0
	if m.opts.PriceMax != nil {
		m.priceIndex = max(0, slices.Index(m.priceChoices, *m.opts.PriceMax))
	}
	m.opts.PriceMax = priceCeilingOption(m.priceChoices[m.priceIndex])

	m.limitIndex = slices.Index(m.limitChoices, m.opts.Limit)
	if m.limitIndex < 0 {
		m.limitIndex = 0
		m.opts.Limit = m.limitChoices[m.limitIndex]
	}
}

func (m *storeTUIModel) syncSubcategoryChoices() {
	m.subcategoryChoices = []string{""}
	if m.path.Category != "" {
		m.subcategoryChoices = append(m.subcategoryChoices, m.state.Index.Subcategories(m.path.Category)...)
	}
	m.subcategoryIndex = max(0, slices.Index(m.subcategoryChoices, m.path.Subcategory))
	m.path.Subcategory = m.subcategoryChoices[m.subcategoryIndex]
}

// rebuildView re-derives the scope and selection from the browsed path, the
// way following a category link does.
func (m *storeTUIModel) rebuildView() {
	m.scope, m.sel = browseView(m.state, m.path)
}

// resetFilters returns to neutral options on the top level with every
// subcategory checked.
func (m *storeTUIModel) resetFilters() {
	m.opts = filter.Reset()
	m.path = catalog.Path{}
	m.syncChoiceIndexesFromOptions()
	m.scope = filter.ScopeFor(m.state, "", "", "")
	m.sel = filter.SelectAll(m.state.Index)
	m.applyCurrentFilters(false)
}

// syncSubcategoryFromSelection points the subcategory choice at the single
// checked subcategory of the browsed category, so the next cycle continues
// from it.
func (m *storeTUIModel) syncSubcategoryFromSelection() {
	only, ok := m.sel.OnlyParent()
	if !ok || only.Category != m.path.Category {
		return
	}
	if i := slices.Index(m.subcategoryChoices, only.Subcategory); i >= 0 {
		m.subcategoryIndex = i
	}
}

func (m *storeTUIModel) cycleSortMode() {
	if len(m.sortChoices) == 0 {
		return
	}
	m.sortIndex = (m.sortIndex + 1) % len(m.sortChoices)
	m.opts.Sort = m.sortChoices[m.sortIndex]
	m.applyCurrentFilters(false)
}

func (m *storeTUIModel) cycleCategory() {
	if len(m.categoryChoices) == 0 {
		return
	}
	m.categoryIndex = (m.categoryIndex + 1) % len(m.categoryChoices)
	m.path = catalog.Path{Category: m.categoryChoices[m.categoryIndex]}
	m.syncSubcategoryChoices()
	m.rebuildView()
	m.applyCurrentFilters(true)
}

func (m *storeTUIModel) cycleSubcategory() {
	if len(m.subcategoryChoices) <= 1 {
		return
	}
	m.subcategoryIndex = (m.subcategoryIndex + 1) % len(m.subcategoryChoices)
	m.path.Subcategory = m.subcategoryChoices[m.subcategoryIndex]
	m.rebuildView()
	m.applyCurrentFilters(true)
}

func (m *storeTUIModel) cyclePriceCeiling() {
	if len(m.priceChoices) == 0 {
		return
	}
	m.priceIndex = (m.priceIndex + 1) % len(m.priceChoices)
	m.opts.PriceMax = priceCeilingOption(m.priceChoices[m.priceIndex])
	m.applyCurrentFilters(false)
}

func (m *storeTUIModel) cycleLimit() {
	if len(m.limitChoices) == 0 {
		return
	}
	m.limitIndex = (m.limitIndex + 1) % len(m.limitChoices)
	m.opts.Limit = m.limitChoices[m.limitIndex]
	m.applyCurrentFilters(false)
}

// toggleSelectedSubcategory flips the highlighted product's subcategory in
// the selection.
func (m *storeTUIModel) toggleSelectedSubcategory() tea.Cmd {
	item, ok := m.list.SelectedItem().(tuiProductItem)
	if !ok {
		return m.list.NewStatusMessage("Highlight a product to toggle its subcategory.")
	}
	path := catalog.PathOf(item.card.Default)
	checked := m.sel.IsParentSelected(path.Category, path.Subcategory)
	m.sel = m.sel.ToggleParent(path.Category, path.Subcategory, !checked)
	m.syncSubcategoryFromSelection()
	m.applyCurrentFilters(false)

	verb := "Checked"
	if checked {
		verb = "Unchecked"
	}
	return m.list.NewStatusMessage(fmt.Sprintf("%s %s > %s.", verb, path.Category, path.Subcategory))
}

func (m *storeTUIModel) addSelectedToCart() tea.Cmd {
	item, ok := m.list.SelectedItem().(tuiProductItem)
	if !ok {
		return m.list.NewStatusMessage("Highlight a product to add it.")
	}
	def := item.card.Default
	if !def.InStock() {
		return m.list.NewStatusMessage(fmt.Sprintf("%s is out of stock.", def.Name))
	}
	m.cart.Add(def, 1)
	m.receipt = ""
	return m.list.NewStatusMessage(fmt.Sprintf("Added %s (%s). Cart: %d items.", def.Name, weightOrDash(def.Weight), m.cart.Count()))
}

// editSelectedCartLine adjusts the cart line holding the highlighted
// product's default variant.
func (m *storeTUIModel) editSelectedCartLine(key string) tea.Cmd {
	item, ok := m.list.SelectedItem().(tuiProductItem)
	if !ok {
		return m.list.NewStatusMessage("Highlight a product to edit its cart line.")
	}
	i := m.cart.IndexOf(item.card.Default)
	if i < 0 {
		return m.list.NewStatusMessage(fmt.Sprintf("%s is not in the cart.", item.title))
	}

	var err error
	switch key {
	case "+":
		err = m.cart.Increment(i)
	case "-":
		err = m.cart.Decrement(i)
	default:
		err = m.cart.Remove(i)
	}
	if err != nil {
		return m.list.NewStatusMessage(err.Error())
	}
	m.receipt = ""
	return m.list.NewStatusMessage(fmt.Sprintf("Cart: %d items, %s %s.",
		m.cart.Count(), m.currency, m.cart.Total().StringFixed(2)))
}

func (m *storeTUIModel) placeOrder() tea.Cmd {
	if m.cart.Len() == 0 {
		return m.list.NewStatusMessage("Cart is empty. Press enter on a product to add it.")
	}
	orderNo := cart.OrderNumber(time.Now(), m.rng)
	m.receipt = m.cart.Summary(orderNo, defaultPayment, m.currency)
	m.cart.Clear()
	m.focus = tuiFocusDetail
	m.detail.GotoTop()
	m.detail.SetContent(m.receipt)
	return m.list.NewStatusMessage("Order #" + orderNo + " placed.")
}

func (m storeTUIModel) activeFilterSummary() string {
	parts := []string{}
	if m.path.Category != "" {
		parts = append(parts, "category:"+m.path.Category)
	}
	if m.path.Subcategory != "" {
		parts = append(parts, "subcategory:"+m.path.Subcategory)
	}
	if only, ok := m.sel.OnlyParent(); ok {
		parts = append(parts, "checked:"+only.Category+" > "+only.Subcategory)
	} else if n := len(m.sel.Parents()); n > 0 {
		parts = append(parts, fmt.Sprintf("checked:%d", n))
	}
	if m.opts.Tag != "" {
		parts = append(parts, "tag:"+m.opts.Tag)
	}
	if m.opts.PriceMax != nil {
		parts = append(parts, "max:"+display.Money(m.currency, *m.opts.PriceMax))
	}
	if m.opts.Sort != "" {
		parts = append(parts, "sort:"+m.opts.Sort)
	}
	if m.opts.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit:%d", m.opts.Limit))
	}
	if fuzzy := strings.TrimSpace(m.list.FilterValue()); fuzzy != "" {
		parts = append(parts, "fuzzy:"+fuzzy)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func (m *storeTUIModel) applyCurrentFilters(resetSelection bool) {
	currentID := m.selectedID
	filtered := filter.Apply(m.state.Products, m.scope, m.sel, m.opts)
	cards := catalog.Cards(filtered)
	m.visibleProducts = len(cards)

	items, starts := buildGroupedListItems(cards, m.currency)
	m.groupStarts = starts

	m.list.Title = fmt.Sprintf("%s • %d products", tuiListTitle(m.path), m.visibleProducts)
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 {
		target = firstProductIndexFrom(items, 0)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(true)
}

func (m *storeTUIModel) refreshDetail(resetScroll bool) {
	if m.receipt != "" && m.focus == tuiFocusDetail {
		return
	}

	var content string
	nextID := ""

	if selected := m.list.SelectedItem(); selected != nil {
		switch item := selected.(type) {
		case tuiProductItem:
			content = renderProductDetailContent(item.card, m.detail.Width, m.currency, m.assets)
			nextID = stableIDForItem(item)
		case tuiSectionItem:
			content = m.renderSectionDetail(item)
			nextID = stableIDForItem(item)
		}
	}
	if content == "" {
		placeholder := catalog.PlaceholderName(m.path.Category, m.path.Subcategory, "")
		content = fmt.Sprintf("No products match the current filters in %s.\n\nBanner: %s\n\nTry pressing r to reset filters.",
			placeholder, m.assets.Placeholder(m.state.Products, m.path.Category, m.path.Subcategory, ""))
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func (m storeTUIModel) renderSectionDetail(section tuiSectionItem) string {
	preview := m.sectionPreviewTitles(section.name, 5)

	lines := []string{
		tuiSectionStyle.Render(fmt.Sprintf("Section %d: %s", section.ordinal, section.name)),
		tuiMetaStyle.Render(fmt.Sprintf("%d products in this section", section.count)),
		"",
		tuiMetaStyle.Render("Jump keys:"),
		"- `]` next section, `[` previous section",
		"- `1..9` jump directly to section number",
	}
	if len(preview) > 0 {
		lines = append(lines, "")
		lines = append(lines, tuiMetaStyle.Render("Preview:"))
		for _, title := range preview {
			lines = append(lines, "• "+title)
		}
	}

	return strings.Join(lines, "\n")
}

func (m storeTUIModel) sectionPreviewTitles(section string, limit int) []string {
	out := make([]string, 0, limit)
	for _, item := range m.list.Items() {
		product, ok := item.(tuiProductItem)
		if !ok || product.section != section {
			continue
		}
		out = append(out, product.title)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (m *storeTUIModel) jumpToSection(index int) {
	if index < 0 || index >= len(m.groupStarts) {
		return
	}

	target := firstProductIndexFrom(m.list.Items(), m.groupStarts[index])
	if target < 0 {
		target = m.groupStarts[index]
	}
	m.list.Select(target)
	m.refreshDetail(true)
}

func (m *storeTUIModel) jumpSection(delta int) {
	if len(m.groupStarts) == 0 {
		return
	}

	current := max(0, m.currentSectionIndex())
	next := current + delta
	if next < 0 {
		next = len(m.groupStarts) - 1
	}
	if next >= len(m.groupStarts) {
		next = 0
	}
	m.jumpToSection(next)
}

func (m storeTUIModel) currentSectionIndex() int {
	if len(m.groupStarts) == 0 {
		return -1
	}
	cursor := m.list.GlobalIndex()
	current := 0
	for i, start := range m.groupStarts {
		if start > cursor {
			break
		}
		current = i
	}
	return current
}

// buildGroupedListItems lays cards out under one header per subcategory, in
// the order the sections first appear.
func buildGroupedListItems(cards []catalog.Card, currency string) (items []list.Item, starts []int) {
	if len(cards) == 0 {
		return nil, nil
	}

	var order []string
	sections := map[string][]catalog.Card{}
	for _, card := range cards {
		name := sectionLabel(card.Default)
		if _, ok := sections[name]; !ok {
			order = append(order, name)
		}
		sections[name] = append(sections[name], card)
	}

	items = make([]list.Item, 0, len(cards)+len(order))
	starts = make([]int, 0, len(order))
	for idx, name := range order {
		starts = append(starts, len(items))
		items = append(items, tuiSectionItem{
			name:    name,
			count:   len(sections[name]),
			ordinal: idx + 1,
		})
		for _, card := range sections[name] {
			items = append(items, buildTUIProductItem(card, name, currency))
		}
	}
	return items, starts
}

// sectionLabel is the title-cased "Category > Subcategory" header a product
// is listed under.
func sectionLabel(p api.Product) string {
	path := catalog.PathOf(p)
	return catalog.Label(path.Category) + " > " + catalog.Label(path.Subcategory)
}

func buildTUIProductItem(card catalog.Card, section, currency string) tuiProductItem {
	def := card.Default
	badges := catalog.AggregateBadges(card.Variants)

	title := strings.TrimSpace(def.Name)
	if title == "" {
		title = "Unnamed product"
	}

	descParts := []string{display.Money(currency, catalog.SalePrice(def))}
	if label := catalog.DiscountLabel(def.Discount); label != "" {
		descParts = append(descParts, label)
	}
	descParts = append(descParts, weightOrDash(def.Weight))
	if n := len(card.Variants); n > 1 {
		descParts = append(descParts, fmt.Sprintf("%d variants", n))
	}
	if badges.IsNew {
		descParts = append(descParts, "NEW")
	}
	if badges.IsTrending {
		descParts = append(descParts, "TRENDING")
	}
	if !badges.InStock {
		descParts = append(descParts, "out of stock")
	}

	filterTokens := []string{title, section, def.Weight, def.Benefit, def.Subsubcategory}

	return tuiProductItem{
		card:        card,
		section:     section,
		title:       title,
		description: strings.Join(descParts, "  •  "),
		filterValue: strings.ToLower(strings.Join(filterTokens, " ")),
	}
}

func renderProductDetailContent(card catalog.Card, width int, currency string, assets catalog.Assets) string {
	maxWidth := max(24, width)
	res, _ := catalog.Resolve(card.Variants)
	def := card.Default

	lines := []string{
		tuiNameStyle.Render(wrapText(res.Display.Name, maxWidth)),
	}

	metaBits := []string{}
	if res.Badges.IsNew {
		metaBits = append(metaBits, tuiNewStyle.Render("NEW"))
	}
	if res.Badges.IsTrending {
		metaBits = append(metaBits, tuiTrendStyle.Render("TRENDING"))
	}
	metaBits = append(metaBits, sectionLabel(def))
	lines = append(lines, tuiMetaStyle.Render(wrapText(strings.Join(metaBits, "  |  "), maxWidth)))

	lines = append(lines, "")
	price := display.Money(currency, catalog.SalePrice(def))
	if def.Discount > 0 {
		price += "  (was " + display.Money(currency, def.Price) + ", " + catalog.DiscountLabel(def.Discount) + ")"
	}
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Price:"), tuiValueStyle.Render(price)))
	if res.Badges.HasDiscount {
		lines = append(lines, fmt.Sprintf("%s Up to %s", tuiMetaStyle.Render("Offer:"), catalog.DiscountLabel(res.Badges.MaxDiscount)))
	}
	stock := "in stock"
	if !res.Badges.InStock {
		stock = "out of stock"
	}
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Stock:"), stock))

	if benefit := strings.TrimSpace(def.Benefit); benefit != "" {
		lines = append(lines, "")
		lines = append(lines, tuiMetaStyle.Render("Benefit:"))
		lines = append(lines, wrapText(benefit, maxWidth))
	}

	lines = append(lines, "")
	lines = append(lines, tuiMetaStyle.Render("Variants:"))
	for _, v := range card.Variants {
		mark := " "
		if v.Identity() == def.Identity() {
			mark = "*"
		}
		line := fmt.Sprintf("%s %s  %s", mark, weightOrDash(v.Weight), display.Money(currency, catalog.SalePrice(v)))
		if !v.InStock() {
			line += "  (out of stock)"
		}
		lines = append(lines, line)
	}

	if gallery := assets.Gallery(def); len(gallery) > 0 {
		lines = append(lines, "")
		lines = append(lines, tuiMutedStyle.Render("Image:"))
		lines = append(lines, tuiMutedStyle.Render(wrapText(gallery[0], maxWidth)))
	}

	lines = append(lines, "")
	lines = append(lines, tuiHintStyle.Render("enter adds the * variant to the cart"))
	return strings.Join(lines, "\n")
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width < 12 {
		width = 12
	}

	line := words[0]
	lines := make([]string, 0, len(words)/6+1)
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func weightOrDash(weight string) string {
	if w := strings.TrimSpace(weight); w != "" {
		return w
	}
	return "-"
}

func tuiListTitle(path catalog.Path) string {
	if path.Category == "" {
		return "All Products"
	}
	if path.Subcategory == "" {
		return path.Category
	}
	return path.Category + " > " + path.Subcategory
}

// resolveTUIPath matches the flag names against the loaded index. Unknown
// names fall back to browsing everything.
func resolveTUIPath(ix *catalog.Index, category, subcategory string) catalog.Path {
	if category == "" {
		return catalog.Path{}
	}
	cat, ok := filter.MatchCategory(ix, category)
	if !ok {
		return catalog.Path{}
	}
	path := catalog.Path{Category: cat}
	if subcategory == "" {
		return path
	}
	if sub, ok := filter.MatchSubcategory(ix, cat, subcategory); ok {
		path.Subcategory = sub
	}
	return path
}

func canonicalizeTUIOptions(opts filter.Options) filter.Options {
	opts.Sort = filter.NormalizeSort(opts.Sort)
	opts.Tag = strings.TrimSpace(opts.Tag)
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	return opts
}

// buildPriceChoices offers no ceiling first, then the catalog's price
// quartiles, plus the current ceiling when it is not among them.
func buildPriceChoices(products []api.Product, current *float64) []float64 {
	var prices []float64
	for _, p := range catalog.Listings(products) {
		if p.Price > 0 {
			prices = append(prices, p.Price)
		}
	}
	slices.Sort(prices)

	var values []float64
	if len(prices) > 0 {
		for _, q := range []float64{0.25, 0.5, 0.75} {
			values = append(values, prices[int(q*float64(len(prices)-1))])
		}
		values = append(values, prices[len(prices)-1])
	}
	if current != nil && !math.IsNaN(*current) {
		values = append(values, *current)
	}
	slices.Sort(values)
	values = slices.Compact(values)
	return append([]float64{math.NaN()}, values...)
}

func priceCeilingOption(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func buildLimitChoices(current int) []int {
	values := []int{0, 10, 25, 50, 100}
	if current > 0 && !slices.Contains(values, current) {
		values = append(values, current)
		slices.Sort(values)
	}
	return values
}

func findItemIndexByID(items []list.Item, stableID string) int {
	for i, item := range items {
		if stableIDForItem(item) == stableID {
			return i
		}
	}
	return -1
}

func firstProductIndexFrom(items []list.Item, start int) int {
	for i := start; i < len(items); i++ {
		if _, ok := items[i].(tuiProductItem); ok {
			return i
		}
	}
	return -1
}

func stableIDForItem(item list.Item) string {
	switch value := item.(type) {
	case tuiProductItem:
		return "product:" + value.card.Key
	case tuiSectionItem:
		return "section:" + strings.ToLower(strings.TrimSpace(value.name))
	default:
		return ""
	}
}
