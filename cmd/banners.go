package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront/internal/display"
)

var bannersCmd = &cobra.Command{
	Use:   "banners",
	Short: "List home-page banner tiles, one per subcategory",
	Example: `  storefront banners
  storefront banners --json`,
	Args: noArgs,
	RunE: runBanners,
}

func init() {
	rootCmd.AddCommand(bannersCmd)
}

func runBanners(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, _, err := sess.loadState(cmd)
	if err != nil {
		return err
	}

	tiles := sess.cfg.Assets.Resolver().BannerTiles(state.Products)
	if flagJSON {
		return display.PrintBannersJSON(cmd.OutOrStdout(), tiles)
	}
	display.PrintBanners(cmd.OutOrStdout(), tiles)
	return nil
}
