package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront/internal/catalog"
	"github.com/tayloree/storefront/internal/display"
)

var highlightsCmd = &cobra.Command{
	Use:     "highlights",
	Short:   "Show the New Products and Trending Products carousels",
	Example: `  storefront highlights --limit 5`,
	Args:    noArgs,
	RunE:    runHighlights,
}

func init() {
	rootCmd.AddCommand(highlightsCmd)
	highlightsCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Limit each carousel (0 = all)")
}

func runHighlights(cmd *cobra.Command, _ []string) error {
	if flagLimit < 0 {
		return invalidArgsError("--limit must not be negative", "storefront highlights --limit 5")
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

	arrivals := truncate(catalog.NewArrivals(state.Products, state.Groups), flagLimit)
	trending := truncate(catalog.Trending(state.Products, state.Groups), flagLimit)

	if flagJSON {
		return display.PrintHighlightsJSON(cmd.OutOrStdout(), arrivals, trending)
	}
	display.PrintHighlights(cmd.OutOrStdout(), arrivals, trending, sess.cfg.Currency)
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}
