package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront/internal/display"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the category tree with selection state and counts",
	Example: `  storefront categories
  storefront categories --category Dairy
  storefront categories --check "Dairy > Ghee" --uncheck "Dairy > Ghee > Organic" --json`,
	Args: noArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	registerSelectionFlags(categoriesCmd.Flags())
}

func runCategories(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, source, err := sess.loadState(cmd)
	if err != nil {
		return err
	}

	_, sel, err := treeSelection(state.Index)
	if err != nil {
		return err
	}

	if flagJSON {
		return display.PrintTreeJSON(cmd.OutOrStdout(), state.Index, sel)
	}
	display.PrintSourceContext(cmd.OutOrStdout(), source, len(state.Products))
	display.PrintTree(cmd.OutOrStdout(), state.Index, sel)
	return nil
}
