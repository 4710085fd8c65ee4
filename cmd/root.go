package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/config"
	"github.com/tayloree/storefront/internal/display"
	"github.com/tayloree/storefront/internal/filter"
	"github.com/tayloree/storefront/internal/log"
)

var (
	flagConfig         string
	flagSources        []string
	flagCategory       string
	flagSubcategory    string
	flagSubsubcategory string
	flagTag            string
	flagPriceMax       string
	flagSort           string
	flagLimit          int
	flagCheck          []string
	flagUncheck        []string
	flagJSON           bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Browse and filter the storefront product catalog",
	Long: "CLI tool that loads the storefront catalog and lists products by category,\n" +
		"tag, price ceiling and sort order, the way the shop grid does.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -category Dairy, tag=ghee, --catgory Dairy).",
	Example: `  storefront --category Dairy --sort price-asc
  storefront --category Dairy --subcategory Ghee --tag cow
  storefront --check "Dairy > Ghee" --uncheck "Dairy > Ghee > Organic"
  storefront categories --category Dairy
  storefront show "A2 Ghee"
  storefront quote "A2 Ghee=2" Honey`,
	Args: rejectUnknownCommand,
	RunE: runList,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(flagError)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a JSON config file")
	pf.StringArrayVar(&flagSources, "source", nil, "Catalog source URL or file, tried in order (repeatable)")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")

	registerSelectionFlags(rootCmd.Flags())
	registerListingFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagConfig = ""
	flagSources = nil
	flagCategory = ""
	flagSubcategory = ""
	flagSubsubcategory = ""
	flagTag = ""
	flagPriceMax = ""
	flagSort = ""
	flagLimit = 0
	flagCheck = nil
	flagUncheck = nil
	flagPayment = defaultPayment
	flagOut = ""
	flagJSON = false
	resetCommandFlags(rootCmd)
}

// resetCommandFlags clears parse state left on the command tree by a previous
// run, including a sticky --help.
func resetCommandFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			_ = f.Value.Set("false")
		}
		f.Changed = false
	})
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

func registerSelectionFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagCategory, "category", "c", "", "Browse one category (e.g., Dairy)")
	f.StringArrayVar(&flagCheck, "check", nil, "Select a subcategory or leaf: \"Cat > Sub [> SubSub]\" (repeatable)")
	f.StringArrayVar(&flagUncheck, "uncheck", nil, "Deselect a subcategory or leaf: \"Cat > Sub [> SubSub]\" (repeatable)")
}

func registerListingFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagSubcategory, "subcategory", "u", "", "Browse one subcategory of --category")
	f.StringVar(&flagSubsubcategory, "subsubcategory", "", "Browse one leaf of --subcategory")
	f.StringVarP(&flagTag, "tag", "q", "", "Match product names containing this text")
	f.StringVarP(&flagPriceMax, "price-max", "p", "", "Only show products priced at or below this value")
	f.StringVar(&flagSort, "sort", "", "Sort by price-asc, price-desc, new, or trending")
	f.IntVarP(&flagLimit, "limit", "n", 0, "Limit number of results (0 = all)")
}

// session is everything a command needs before touching the catalog.
type session struct {
	cfg    *config.Config
	logger *logrus.Logger
	client *api.Client
	closer io.Closer
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	logger, closer, err := log.Setup(log.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, configError(fmt.Errorf("opening log: %w", err))
	}

	sources := cfg.Catalog.Sources
	if len(flagSources) > 0 {
		sources = flagSources
	}
	client := api.NewClientWithSources(sources...).
		WithTimeout(cfg.Catalog.TimeoutDuration()).
		WithLogger(logger.WithField("command", cmd.Name()))

	return &session{cfg: cfg, logger: logger, client: client, closer: closer}, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}

// loadState fetches the catalog and derives its index and groups.
func (s *session) loadState(cmd *cobra.Command) (catalog.State, string, error) {
	s.logger.WithField("sources", s.client.Sources()).Debug("fetching catalog")
	fetched, err := s.client.FetchCatalog(cmd.Context())
	if err != nil {
		return catalog.State{}, "", fmt.Errorf("loading catalog: %w", err)
	}
	state := catalog.NewState(fetched.Products)
	if state.Empty() {
		return catalog.State{}, "", notFoundError(
			fmt.Sprintf("catalog is empty (source %s)", fetched.Source),
			"Point --source at a catalog with products.",
		)
	}
	s.logger.WithFields(logrus.Fields{
		"source":     fetched.Source,
		"products":   len(state.Products),
		"categories": len(state.Index.Categories()),
		"groups":     state.Groups.Len(),
	}).Info("catalog ready")
	return state, fetched.Source, nil
}

func validateSortMode() (string, error) {
	mode, ok := filter.ParseSort(flagSort)
	if !ok {
		return "", invalidArgsError(
			fmt.Sprintf("invalid value %q for --sort (use price-asc, price-desc, new, or trending)", flagSort),
			"storefront --sort price-asc",
			"storefront --sort new",
		)
	}
	return mode, nil
}

func parsePriceMax() (*float64, error) {
	raw := strings.TrimSpace(flagPriceMax)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalidArgsError(
			fmt.Sprintf("invalid value %q for --price-max (use a number)", flagPriceMax),
			"storefront --price-max 50",
		)
	}
	return &v, nil
}

func listingOptions() (filter.Options, error) {
	mode, err := validateSortMode()
	if err != nil {
		return filter.Options{}, err
	}
	priceMax, err := parsePriceMax()
	if err != nil {
		return filter.Options{}, err
	}
	if flagLimit < 0 {
		return filter.Options{}, invalidArgsError("--limit must not be negative", "storefront --limit 10")
	}
	return filter.Options{Tag: flagTag, PriceMax: priceMax, Sort: mode, Limit: flagLimit}, nil
}

// browsePath resolves the --category/--subcategory/--subsubcategory flags
// against the index, tolerating case and plural differences.
func browsePath(ix *catalog.Index) (catalog.Path, error) {
	var path catalog.Path
	if flagCategory == "" {
		if flagSubcategory != "" || flagSubsubcategory != "" {
			return path, invalidArgsError(
				"--subcategory and --subsubcategory require --category",
				"storefront --category Dairy --subcategory Ghee",
			)
		}
		return path, nil
	}

	cat, ok := filter.MatchCategory(ix, flagCategory)
	if !ok {
		return path, notFoundError(
			fmt.Sprintf("no products match category %q", flagCategory),
			"Known categories: "+strings.Join(ix.Categories(), ", "),
		)
	}
	path.Category = cat

	if flagSubcategory == "" {
		if flagSubsubcategory != "" {
			return path, invalidArgsError("--subsubcategory requires --subcategory")
		}
		return path, nil
	}
	sub, ok := filter.MatchSubcategory(ix, cat, flagSubcategory)
	if !ok {
		return path, notFoundError(
			fmt.Sprintf("no products match subcategory %q in %s", flagSubcategory, cat),
			"Known subcategories: "+strings.Join(ix.Subcategories(cat), ", "),
		)
	}
	path.Subcategory = sub

	if flagSubsubcategory == "" {
		return path, nil
	}
	leaf, ok := filter.MatchSubsubcategory(ix, cat, sub, flagSubsubcategory)
	if !ok {
		return path, notFoundError(
			fmt.Sprintf("no products match %q in %s > %s", flagSubsubcategory, cat, sub),
			"Run `storefront categories --category "+cat+"` to list leaves.",
		)
	}
	path.Subsubcategory = leaf
	return path, nil
}

// browseView builds the scope and starting selection for a path. The top
// level opens with every box checked, a category deep link selects only that
// category, and a leaf selects only that leaf.
func browseView(state catalog.State, path catalog.Path) (filter.Scope, filter.Selection) {
	switch {
	case path.Category == "":
		return filter.ScopeFor(state, "", "", ""), filter.SelectAll(state.Index)
	case path.Subsubcategory != "":
		scope := filter.ScopeFor(state, path.Category, path.Subcategory, path.Subsubcategory)
		sel := filter.NewSelection(state.Index).ToggleChild(path.Category, path.Subcategory, path.Subsubcategory, true)
		return scope, sel
	default:
		return filter.DeepLink(state, path.Category, path.Subcategory)
	}
}

// treeSelection resolves --category and the toggle flags into the selection
// the category tree shows: everything, or only the chosen category, with the
// toggles applied on top.
func treeSelection(ix *catalog.Index) (catalog.Path, filter.Selection, error) {
	var path catalog.Path
	sel := filter.SelectAll(ix)
	if flagCategory != "" {
		cat, ok := filter.MatchCategory(ix, flagCategory)
		if !ok {
			return path, sel, notFoundError(
				fmt.Sprintf("no products match category %q", flagCategory),
				"Known categories: "+strings.Join(ix.Categories(), ", "),
			)
		}
		path.Category = cat
		sel = filter.SelectOnlyCategory(ix, cat)
	}
	sel, err := applyToggles(ix, path, sel)
	return path, sel, err
}

// applyToggles applies --check then --uncheck paths to a selection. On the
// top level, where everything starts checked, a run with only --check paths
// starts from a cleared selection so the checks narrow the listing.
func applyToggles(ix *catalog.Index, path catalog.Path, sel filter.Selection) (filter.Selection, error) {
	if path.Category == "" && len(flagCheck) > 0 && len(flagUncheck) == 0 {
		sel = sel.Clear()
	}
	for _, group := range []struct {
		paths   []string
		checked bool
	}{{flagCheck, true}, {flagUncheck, false}} {
		for _, raw := range group.paths {
			path, err := parseTogglePath(ix, raw)
			if err != nil {
				return sel, err
			}
			if path.Subsubcategory != "" {
				sel = sel.ToggleChild(path.Category, path.Subcategory, path.Subsubcategory, group.checked)
			} else {
				sel = sel.ToggleParent(path.Category, path.Subcategory, group.checked)
			}
		}
	}
	return sel, nil
}

func parseTogglePath(ix *catalog.Index, raw string) (catalog.Path, error) {
	parts := strings.Split(raw, ">")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return catalog.Path{}, invalidArgsError(
			fmt.Sprintf("invalid selection path %q (use \"Category > Subcategory [> Leaf]\")", raw),
			"storefront --check \"Dairy > Ghee\"",
		)
	}

	cat, ok := filter.MatchCategory(ix, parts[0])
	if !ok {
		return catalog.Path{}, notFoundError(fmt.Sprintf("no products match category %q in %q", parts[0], raw))
	}
	sub, ok := filter.MatchSubcategory(ix, cat, parts[1])
	if !ok {
		return catalog.Path{}, notFoundError(fmt.Sprintf("no products match subcategory %q in %q", parts[1], raw))
	}
	path := catalog.Path{Category: cat, Subcategory: sub}
	if len(parts) == 3 && parts[2] != "" {
		leaf, ok := filter.MatchSubsubcategory(ix, cat, sub, parts[2])
		if !ok {
			return catalog.Path{}, notFoundError(fmt.Sprintf("no products match leaf %q in %q", parts[2], raw))
		}
		path.Subsubcategory = leaf
	}
	return path, nil
}

func listTitle(path catalog.Path) string {
	if path.Category == "" {
		return "All Products"
	}
	parts := []string{path.Category}
	if path.Subcategory != "" {
		parts = append(parts, path.Subcategory)
	}
	if path.Subsubcategory != "" {
		parts = append(parts, path.Subsubcategory)
	}
	return strings.Join(parts, " > ")
}

func runList(cmd *cobra.Command, _ []string) error {
	opts, err := listingOptions()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, source, err := sess.loadState(cmd)
	if err != nil {
		return err
	}

	path, err := browsePath(state.Index)
	if err != nil {
		return err
	}
	scope, sel := browseView(state, path)
	if sel, err = applyToggles(state.Index, path, sel); err != nil {
		return err
	}

	products := filter.Apply(state.Products, scope, sel, opts)
	cards := catalog.Cards(products)
	sess.logger.WithFields(logrus.Fields{
		"path":    listTitle(path),
		"matched": len(products),
		"cards":   len(cards),
	}).Debug("listing filtered")

	if len(cards) == 0 {
		assets := sess.cfg.Assets.Resolver()
		return notFoundError(
			fmt.Sprintf("no products match your filters in %s",
				catalog.PlaceholderName(path.Category, path.Subcategory, path.Subsubcategory)),
			"Relax filters like --tag/--price-max/--uncheck.",
			"Placeholder banner: "+assets.Placeholder(state.Products, path.Category, path.Subcategory, path.Subsubcategory),
		)
	}

	if flagJSON {
		return display.PrintCardsJSON(cmd.OutOrStdout(), cards, sess.cfg.Assets.Resolver())
	}
	display.PrintSourceContext(cmd.OutOrStdout(), source, len(state.Products))
	display.PrintCards(cmd.OutOrStdout(), listTitle(path), cards, sess.cfg.Currency)
	return nil
}
