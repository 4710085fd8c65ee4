package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse products interactively in the terminal",
	Example: `  storefront tui
  storefront tui --category Dairy --sort price-asc`,
	Args: noArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Start in one category (e.g., Dairy)")
	registerListingFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts, err := listingOptions()
	if err != nil {
		return err
	}
	if flagJSON {
		return runList(cmd, args)
	}
	if !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`storefront tui` requires an interactive terminal",
			"Use `storefront --category Dairy --json` in pipelines.",
		)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	model := newLoadingStoreTUIModel(tuiLoadConfig{
		ctx:         cmd.Context(),
		client:      sess.client,
		currency:    sess.cfg.Currency,
		assets:      sess.cfg.Assets.Resolver(),
		category:    flagCategory,
		subcategory: flagSubcategory,
		initialOpts: opts,
	})

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	if m, ok := final.(storeTUIModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
