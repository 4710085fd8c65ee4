package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/display"
)

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show one product with every variant",
	Example: `  storefront show "A2 Ghee"
  storefront show a2 ghee --json`,
	Args: requireArgs("product name"),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, _, err := sess.loadState(cmd)
	if err != nil {
		return err
	}

	variants, err := lookupGroup(state, name)
	if err != nil {
		return err
	}
	res, _ := catalog.Resolve(variants)
	def, _ := catalog.DefaultVariant(variants)

	if flagJSON {
		return display.PrintDetailJSON(cmd.OutOrStdout(), res, def, variants, sess.cfg.Assets.Resolver())
	}
	display.PrintDetail(cmd.OutOrStdout(), res, def, variants, sess.cfg.Currency)
	return nil
}

// lookupGroup returns the listed variants for a product name, suggesting the
// closest known name on a miss.
func lookupGroup(state catalog.State, name string) ([]api.Product, error) {
	variants := catalog.Listings(state.Groups.Get(name))
	if len(variants) > 0 {
		return variants, nil
	}

	suggestions := []string{"Run `storefront --tag <text>` to search product names."}
	if key, ok := closestMatch(catalog.NormalizeName(name), state.Groups.Keys(), 3); ok {
		if group := state.Groups.Get(key); len(group) > 0 {
			suggestions = append([]string{fmt.Sprintf("Did you mean %q?", group[0].Name)}, suggestions...)
		}
	}
	return nil, notFoundError(fmt.Sprintf("no product named %q", name), suggestions...)
}
