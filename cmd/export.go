package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the normalized catalog as JSON in category order",
	Long: "Decodes the catalog tolerantly and writes it back with canonical field names,\n" +
		"ordered by category, subcategory and leaf. Selection flags narrow the export.",
	Example: `  storefront export --out products.json
  storefront export --category Dairy --uncheck "Dairy > Ghee"`,
	Args: noArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	registerSelectionFlags(exportCmd.Flags())
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, _, err := sess.loadState(cmd)
	if err != nil {
		return err
	}

	path, sel, err := treeSelection(state.Index)
	if err != nil {
		return err
	}

	var products []api.Product
	for _, p := range state.Index.Flatten() {
		if path.Category != "" && catalog.PathOf(p).Category != path.Category {
			continue
		}
		if sel.Membership(p) {
			products = append(products, p)
		}
	}

	data, err := api.EncodeCatalog(products)
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	data = append(data, '\n')

	if flagOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(flagOut, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	sess.logger.WithFields(logrus.Fields{
		"file":     flagOut,
		"products": len(products),
	}).Info("catalog exported")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d products to %s\n", len(products), flagOut)
	return nil
}
