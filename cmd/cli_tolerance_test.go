package cmd

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-category", "Dairy", "json"})

	assert.Equal(t, []string{"--category", "Dairy", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--catgory", "Dairy"})

	assert.Equal(t, []string{"--category", "Dairy"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesAliases(t *testing.T) {
	args, _ := normalizeCLIArgs([]string{"--search", "ghee", "--max-price", "50", "--top", "3"})

	assert.Equal(t, []string{"--tag", "ghee", "--price-max", "50", "--limit", "3"}, args)
}

func TestNormalizeCLIArgs_RewritesKeyValueOnRoot(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"tag=ghee"})

	assert.Equal(t, []string{"--tag=ghee"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"categoriess", "--category", "Dairy"})

	assert.Equal(t, []string{"categories", "--category", "Dairy"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_ShortTokensNeedCloseMatch(t *testing.T) {
	args, _ := normalizeCLIArgs([]string{"tag", "ghee"})

	assert.Equal(t, "--tag", args[0], "tag must not be read as the tui command")
}

func TestNormalizeCLIArgs_LeavesProductNamesAlone(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"quote", "Tag=2", "json"})

	assert.Equal(t, []string{"quote", "Tag=2", "json"}, args)
	assert.Empty(t, notes)

	args, notes = normalizeCLIArgs([]string{"show", "banners"})
	assert.Equal(t, []string{"show", "banners"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_ShorthandValueIsNotACommand(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-c", "banners"})

	assert.Equal(t, []string{"-c", "banners"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "categories"})

	assert.Equal(t, []string{"help", "categories"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"categories", "--", "json"})

	assert.Equal(t, []string{"categories", "--", "json"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-c", "Dairy", "-n", "5"})

	assert.Equal(t, []string{"-c", "Dairy", "-n", "5"}, args)
	assert.Empty(t, notes)
}

func TestResolveFlagName_Deterministic(t *testing.T) {
	for range 20 {
		got, ok := resolveFlagName("chec")
		assert.True(t, ok)
		assert.Equal(t, "check", got)
	}
}

// parseError runs flag parsing on cmd the way cobra does and hands the
// failure to flagError.
func parseError(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.Flags().SetOutput(io.Discard)
	err := cmd.Flags().Parse(args)
	require.Error(t, err)
	return flagError(cmd, err)
}

func TestFlagError_UnknownFlagSuggestsLocalFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "storefront"}
	cmd.Flags().String("subcategory", "", "Browse one subcategory")

	msg := explainCLIError(parseError(t, cmd, "--subcatgory", "Ghee"))

	assert.Contains(t, msg, "error[invalid_args]: unknown flag: --subcatgory")
	assert.Contains(t, msg, "Try `--subcategory`.")
	assert.Contains(t, msg, "storefront --category Dairy --sort price-asc")
}

func TestFlagError_MissingAndInvalidValues(t *testing.T) {
	cmd := &cobra.Command{Use: "storefront"}
	cmd.Flags().Int("limit", 0, "Limit number of results")

	missing := classifyCLIError(parseError(t, cmd, "--limit"))
	assert.Equal(t, ExitInvalidArgs, missing.ExitCode)
	assert.Contains(t, missing.Suggestions[0], "`--limit VALUE`")

	invalid := classifyCLIError(parseError(t, cmd, "--limit", "many"))
	assert.Equal(t, ExitInvalidArgs, invalid.ExitCode)
	assert.Equal(t, []string{"--limit expects: Limit number of results."}, invalid.Suggestions)
}

func TestRejectUnknownCommand(t *testing.T) {
	root := &cobra.Command{Use: "storefront"}
	root.AddCommand(&cobra.Command{Use: "banners", Run: func(*cobra.Command, []string) {}})

	require.NoError(t, rejectUnknownCommand(root, nil))

	got := classifyCLIError(rejectUnknownCommand(root, []string{"baners"}))
	assert.Equal(t, "INVALID_ARGS", got.Code)
	assert.Equal(t, `unknown command "baners" for "storefront"`, got.Message)
	assert.Equal(t, "Did you mean `banners`?", got.Suggestions[0])
	assert.Contains(t, got.Suggestions, `storefront --category "baners"`)
}

func TestPositionalValidators(t *testing.T) {
	cmd := &cobra.Command{Use: "show", Example: "  storefront show \"A2 Ghee\"\n  storefront show Ghee"}
	parent := &cobra.Command{Use: "storefront"}
	parent.AddCommand(cmd)

	require.NoError(t, noArgs(cmd, nil))
	got := classifyCLIError(noArgs(cmd, []string{"extra"}))
	assert.Equal(t, ExitInvalidArgs, got.ExitCode)
	assert.Contains(t, got.Message, `storefront show takes no arguments, got "extra"`)

	need := requireArgs("product name")
	require.NoError(t, need(cmd, []string{"Ghee"}))
	got = classifyCLIError(need(cmd, nil))
	assert.Equal(t, "storefront show needs at least one product name", got.Message)
	assert.Equal(t, []string{`storefront show "A2 Ghee"`}, got.Suggestions)
}

func TestVocabularyOf_DerivesFromCommandTree(t *testing.T) {
	root := &cobra.Command{Use: "shop"}
	root.PersistentFlags().Bool("json", false, "")
	root.Flags().StringP("category", "c", "", "")
	list := &cobra.Command{Use: "list", Args: noArgs, Run: func(*cobra.Command, []string) {}}
	list.Flags().IntP("limit", "n", 0, "")
	list.Flags().BoolP("verbose", "v", false, "")
	show := &cobra.Command{Use: "show", Args: requireArgs("name"), Run: func(*cobra.Command, []string) {}}
	secret := &cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}}
	root.AddCommand(list, show, secret)

	v := vocabularyOf(root)

	assert.Equal(t, []string{"completion", "help", "list", "show"}, v.commands)
	assert.Equal(t, map[string]bool{"list": true}, v.flagOnly)
	assert.True(t, v.flags["category"].requiresValue)
	assert.True(t, v.flags["limit"].requiresValue)
	assert.False(t, v.flags["json"].requiresValue)
	assert.False(t, v.flags["verbose"].requiresValue)
	assert.Contains(t, v.flags, "help")
	assert.Equal(t, map[byte]bool{'c': true, 'n': true, 'v': false, 'h': false}, v.shorthands)
	assert.Equal(t, []string{"--category", "--json"}, v.rootFlags)

	args, notes := v.normalize([]string{"lst", "verbos", "-n", "list"})
	assert.Equal(t, []string{"list", "--verbose", "-n", "list"}, args)
	assert.Len(t, notes, 2)
}

func TestCLIVocabulary_CoversRegisteredCommands(t *testing.T) {
	v := cliVocabulary()

	for _, name := range []string{"banners", "categories", "export", "highlights", "quote", "show", "tui"} {
		assert.Contains(t, v.commands, name)
	}
	assert.True(t, v.flagOnly["export"])
	assert.False(t, v.flagOnly["quote"], "quote takes item arguments")
	assert.True(t, v.flags["out"].requiresValue)
	assert.True(t, v.shorthands['o'])
	assert.False(t, v.flags["json"].requiresValue)
}
