package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagSpec struct {
	name          string
	requiresValue bool
}

// flagTable maps long flag names to their specs.
type flagTable map[string]flagSpec

// vocabulary is what the argument normalizer knows about the command tree.
type vocabulary struct {
	flags      flagTable
	shorthands map[byte]bool
	commands   []string
	// flagOnly holds commands that reject positionals, where a bare word can
	// only be a flag.
	flagOnly map[string]bool
	// rootFlags lists the root command's own flags for the quick start.
	rootFlags []string
}

// cliVocabulary is built on first use, after every command has registered.
var cliVocabulary func() vocabulary

func init() {
	cliVocabulary = sync.OnceValue(func() vocabulary { return vocabularyOf(rootCmd) })
}

// vocabularyOf collects flags, shorthands and top-level commands from a
// command tree. Help and completion are added by cobra at execute time, so
// they are listed here explicitly.
func vocabularyOf(root *cobra.Command) vocabulary {
	v := vocabulary{
		flags:      flagTable{"help": {name: "help"}},
		shorthands: map[byte]bool{'h': false},
		commands:   []string{"help", "completion"},
		flagOnly:   map[string]bool{},
	}

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				spec := v.flags[f.Name]
				spec.name = f.Name
				spec.requiresValue = spec.requiresValue || f.NoOptDefVal == ""
				v.flags[f.Name] = spec
				if f.Shorthand != "" {
					s := f.Shorthand[0]
					v.shorthands[s] = v.shorthands[s] || spec.requiresValue
				}
			})
		}
		for _, child := range c.Commands() {
			walk(child)
		}
	}
	walk(root)

	for _, child := range root.Commands() {
		if child.Hidden {
			continue
		}
		name := child.Name()
		v.commands = append(v.commands, name)
		if child.Args != nil && !allowsNestedCommandArg(name) && child.Args(child, []string{"json"}) != nil {
			v.flagOnly[name] = true
		}
	}
	slices.Sort(v.commands)
	v.commands = slices.Compact(v.commands)

	root.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			v.rootFlags = append(v.rootFlags, "--"+f.Name)
		}
	})
	return v
}

var flagAliases = map[string]string{
	"cat":       "category",
	"sub":       "subcategory",
	"subsub":    "subsubcategory",
	"query":     "tag",
	"search":    "tag",
	"max-price": "price-max",
	"maxprice":  "price-max",
	"budget":    "price-max",
	"order":     "sort",
	"sort-by":   "sort",
	"max":       "limit",
	"top":       "limit",
	"select":    "check",
	"deselect":  "uncheck",
	"catalog":   "source",
	"src":       "source",
	"cfg":       "config",
	"pay":       "payment",
	"output":    "out",
}

// token is one normalized command-line argument.
type token struct {
	text       string
	note       string
	isFlag     bool
	needsValue bool
	isCommand  bool
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	return cliVocabulary().normalize(args)
}

func (v vocabulary) normalize(args []string) ([]string, []string) {
	out := make([]string, 0, len(args))
	notes := make([]string, 0, 2)
	commandChosen := false
	nestedCommandAllowed := false
	nestedCommandChosen := false
	allowBareFlagRewrite := true
	expectingValue := false
	afterDoubleDash := false

	for i, raw := range args {
		if afterDoubleDash {
			out = append(out, raw)
			continue
		}

		if expectingValue {
			out = append(out, raw)
			expectingValue = false
			continue
		}

		if raw == "--" {
			out = append(out, raw)
			afterDoubleDash = true
			continue
		}

		canBeCommand := !commandChosen || (nestedCommandAllowed && !nestedCommandChosen)
		tok := v.normalizeToken(raw, canBeCommand, allowBareFlagRewrite)
		if tok.note != "" {
			notes = append(notes, tok.note)
		}
		out = append(out, tok.text)

		if tok.isCommand {
			if !commandChosen {
				commandChosen = true
				allowBareFlagRewrite = v.flagOnly[tok.text]
				nestedCommandAllowed = allowsNestedCommandArg(tok.text)
				continue
			}
			if nestedCommandAllowed && !nestedCommandChosen {
				nestedCommandChosen = true
			}
		}
		if tok.isFlag && tok.needsValue && !strings.Contains(tok.text, "=") && i < len(args)-1 {
			expectingValue = true
		}
	}

	return out, notes
}

func (v vocabulary) normalizeToken(raw string, canBeCommand bool, allowBareFlagRewrite bool) token {
	rewrite := func(flagName, rest string) (token, bool) {
		canonical, ok := v.flags.resolve(flagName)
		if !ok {
			return token{}, false
		}
		text := "--" + canonical + rest
		tok := token{text: text, isFlag: true, needsValue: v.flags[canonical].requiresValue}
		if text != raw {
			tok.note = fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", raw, text, text)
		}
		return tok, true
	}

	switch {
	case strings.HasPrefix(raw, "--"):
		if tok, ok := rewrite(splitFlag(strings.TrimPrefix(raw, "--"))); ok {
			return tok
		}
		return token{text: raw, isFlag: true}
	case len(raw) == 2 && raw[0] == '-':
		return token{text: raw, isFlag: true, needsValue: v.shorthands[raw[1]]}
	case len(raw) > 2 && raw[0] == '-':
		if tok, ok := rewrite(splitFlag(strings.TrimPrefix(raw, "-"))); ok {
			return tok
		}
		return token{text: raw, isFlag: true}
	case strings.HasPrefix(raw, "-"):
		return token{text: raw}
	}

	if allowBareFlagRewrite && strings.Contains(raw, "=") {
		if tok, ok := rewrite(splitFlag(raw)); ok {
			return tok
		}
	}

	if canBeCommand {
		if corrected, ok := v.resolveCommand(raw); ok {
			tok := token{text: corrected, isCommand: true}
			if corrected != raw {
				tok.note = fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", raw, corrected, corrected)
			}
			return tok
		}
	}

	if allowBareFlagRewrite {
		if tok, ok := rewrite(raw, ""); ok {
			return tok
		}
	}

	return token{text: raw}
}

func allowsNestedCommandArg(command string) bool {
	// These commands accept another command token as a positional argument.
	switch command {
	case "help", "completion":
		return true
	default:
		return false
	}
}

func resolveFlagName(raw string) (string, bool) {
	return cliVocabulary().flags.resolve(raw)
}

func (t flagTable) resolve(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		if _, known := t[canonical]; known {
			return canonical, true
		}
	}
	if _, ok := t[name]; ok {
		return name, true
	}

	if suggestion, ok := closestMatch(name, slices.Sorted(maps.Keys(t)), typoBudget(name)); ok {
		return suggestion, true
	}
	return "", false
}

func (v vocabulary) resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if slices.Contains(v.commands, name) {
		return name, true
	}
	return closestMatch(name, v.commands, typoBudget(name))
}

// typoBudget is the edit distance tolerated for a token. Short tokens get
// one edit so that `tag` never turns into `tui`.
func typoBudget(name string) int {
	if len(name) <= 4 {
		return 1
	}
	return 2
}

// flagError turns pflag's parse failures into INVALID_ARGS, suggesting the
// nearest flag the failing command actually defines.
func flagError(cmd *cobra.Command, err error) error {
	suggestions := []string{
		"storefront --category Dairy --sort price-asc",
		"storefront --tag ghee --price-max 50",
	}

	var notExist *pflag.NotExistError
	var needsValue *pflag.ValueRequiredError
	var badValue *pflag.InvalidValueError
	switch {
	case errors.As(err, &notExist):
		if notExist.GetSpecifiedShortnames() == "" {
			local := flagTable{}
			cmd.Flags().VisitAll(func(f *pflag.Flag) { local[f.Name] = flagSpec{name: f.Name} })
			if name, ok := local.resolve(notExist.GetSpecifiedName()); ok {
				suggestions = append([]string{fmt.Sprintf("Try `--%s`.", name)}, suggestions...)
			}
		}
	case errors.As(err, &needsValue) && needsValue.GetFlag() != nil:
		f := needsValue.GetFlag()
		suggestions = []string{fmt.Sprintf("Pass a value: `--%s VALUE` (%s).", f.Name, f.Usage)}
	case errors.As(err, &badValue):
		f := badValue.GetFlag()
		suggestions = []string{fmt.Sprintf("--%s expects: %s.", f.Name, f.Usage)}
	}

	return invalidArgsError(err.Error(), suggestions...)
}

// rejectUnknownCommand is the root's positional check: the product listing
// takes flags only, so any positional is a mistyped command or a category.
func rejectUnknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	bad := args[0]
	suggestions := []string{
		fmt.Sprintf("storefront --category %q", bad),
		fmt.Sprintf("storefront show %q", bad),
	}
	if name, ok := closestMatch(strings.ToLower(bad), vocabularyOf(cmd.Root()).commands, 2); ok {
		suggestions = append([]string{fmt.Sprintf("Did you mean `%s`?", name)}, suggestions...)
	}
	return invalidArgsError(fmt.Sprintf("unknown command %q for %q", bad, cmd.CommandPath()), suggestions...)
}

// noArgs rejects positionals on flag-only commands.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return invalidArgsError(
		fmt.Sprintf("%s takes no arguments, got %q", cmd.CommandPath(), args[0]),
		fmt.Sprintf("Run `%s --help` for usage details.", cmd.CommandPath()),
	)
}

// requireArgs demands at least one positional, naming what it stands for.
func requireArgs(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return nil
		}
		var suggestions []string
		if example, _, _ := strings.Cut(strings.TrimSpace(cmd.Example), "\n"); example != "" {
			suggestions = append(suggestions, strings.TrimSpace(example))
		}
		return invalidArgsError(fmt.Sprintf("%s needs at least one %s", cmd.CommandPath(), what), suggestions...)
	}
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	name, val, ok := strings.Cut(value, "=")
	if ok {
		return name, "=" + val
	}
	return value, ""
}

func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range candidates {
		d := levenshtein(target, candidate)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}

	if bestDist <= maxDistance {
		return best, true
	}
	return "", false
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
