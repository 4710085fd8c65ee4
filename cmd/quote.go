package cmd

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/cart"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/display"
)

const defaultPayment = "COD"

var flagPayment = defaultPayment

var quoteCmd = &cobra.Command{
	Use:   "quote NAME[@WEIGHT][=QTY]...",
	Short: "Price a cart of products and print the order receipt",
	Long: "Adds each named product to a cart and prints the receipt. Without @WEIGHT\n" +
		"the purchasable default variant is used. A bare NAME adds one unit, and\n" +
		"NAME=QTY sets the line's quantity.",
	Example: `  storefront quote "A2 Ghee=2" Honey
  storefront quote "A2 Ghee@1 L=1" --payment Card --json`,
	Args: requireArgs("item"),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().StringVar(&flagPayment, "payment", defaultPayment, "Payment method printed on the receipt")
}

// quoteItem is one parsed NAME[@WEIGHT][=QTY] argument. A zero quantity
// means none was given.
type quoteItem struct {
	name     string
	weight   string
	quantity int
}

func parseQuoteItem(raw string) (quoteItem, error) {
	item := quoteItem{name: strings.TrimSpace(raw)}

	if i := strings.LastIndex(item.name, "="); i >= 0 {
		qty, err := strconv.Atoi(strings.TrimSpace(item.name[i+1:]))
		if err != nil || qty < 1 {
			return item, invalidArgsError(
				fmt.Sprintf("invalid quantity in %q (use NAME=QTY with QTY >= 1)", raw),
				"storefront quote \"A2 Ghee=2\"",
			)
		}
		item.quantity = qty
		item.name = strings.TrimSpace(item.name[:i])
	}
	if i := strings.LastIndex(item.name, "@"); i >= 0 {
		item.weight = strings.TrimSpace(item.name[i+1:])
		item.name = strings.TrimSpace(item.name[:i])
	}
	if item.name == "" {
		return item, invalidArgsError(fmt.Sprintf("missing product name in %q", raw), "storefront quote Honey")
	}
	return item, nil
}

// pickVariant returns the variant to add: the one matching the requested
// weight, else the purchasable default. Out-of-stock picks are refused.
func pickVariant(variants []api.Product, item quoteItem) (api.Product, error) {
	var pick api.Product
	if item.weight != "" {
		found := false
		var weights []string
		for _, v := range variants {
			weights = append(weights, v.Weight)
			if strings.EqualFold(strings.TrimSpace(v.Weight), item.weight) {
				pick, found = v, true
				break
			}
		}
		if !found {
			return pick, notFoundError(
				fmt.Sprintf("no product named %q with weight %q", item.name, item.weight),
				"Available weights: "+strings.Join(weights, ", "),
			)
		}
	} else {
		pick, _ = catalog.DefaultVariant(variants)
	}

	if !pick.InStock() {
		return pick, notFoundError(
			fmt.Sprintf("%q (%s) is out of stock", pick.Name, pick.Weight),
			fmt.Sprintf("Run `storefront show %q` to see every variant.", item.name),
		)
	}
	return pick, nil
}

// addQuoteLine adds one unit of a product, or sets its line to an explicit
// quantity.
func addQuoteLine(c *cart.Cart, p api.Product, quantity int) {
	if quantity == 0 {
		c.Add(p, 1)
		return
	}
	if i := c.IndexOf(p); i >= 0 {
		_ = c.SetQuantity(i, quantity)
		return
	}
	c.Add(p, quantity)
}

func runQuote(cmd *cobra.Command, args []string) error {
	items := make([]quoteItem, 0, len(args))
	for _, raw := range args {
		item, err := parseQuoteItem(raw)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, _, err := sess.loadState(cmd)
	if err != nil {
		return err
	}

	var c cart.Cart
	for _, item := range items {
		variants, err := lookupGroup(state, item.name)
		if err != nil {
			return err
		}
		pick, err := pickVariant(variants, item)
		if err != nil {
			return err
		}
		addQuoteLine(&c, pick, item.quantity)
	}

	now := time.Now()
	orderNo := cart.OrderNumber(now, rand.New(rand.NewSource(now.UnixNano())))
	sess.logger.WithField("order", orderNo).WithField("lines", c.Len()).Info("quote built")

	if flagJSON {
		return display.PrintReceiptJSON(cmd.OutOrStdout(), &c, orderNo, flagPayment, sess.cfg.Currency)
	}
	display.PrintReceipt(cmd.OutOrStdout(), &c, orderNo, flagPayment, sess.cfg.Currency)
	return nil
}
