package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/config"
	"golang.org/x/term"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNotFound is returned when no product, category or banner matches.
	ExitNotFound = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when every catalog source fails.
	ExitUpstream = 3
	// ExitConfig is returned when the configuration cannot be loaded.
	ExitConfig = 4
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 5
)

type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
}

func (e *cliError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidArgsError(message string, suggestions ...string) error {
	return &cliError{
		Code:        "INVALID_ARGS",
		Message:     message,
		Suggestions: suggestions,
		ExitCode:    ExitInvalidArgs,
	}
}

func notFoundError(message string, suggestions ...string) error {
	return &cliError{
		Code:        "NOT_FOUND",
		Message:     message,
		Suggestions: suggestions,
		ExitCode:    ExitNotFound,
	}
}

func upstreamError(err error) *cliError {
	return &cliError{
		Code:        "UPSTREAM_ERROR",
		Message:     err.Error(),
		Suggestions: []string{"Retry in a moment.", "Point --source at a local catalog file."},
		ExitCode:    ExitUpstream,
	}
}

func configError(err error) *cliError {
	return &cliError{
		Code:    "CONFIG_ERROR",
		Message: err.Error(),
		Suggestions: []string{
			"Check the file passed to --config.",
			"Unset STOREFRONT_* environment overrides.",
		},
		ExitCode: ExitConfig,
	}
}

type jsonErrorPayload struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func printCLIErrorJSON(w io.Writer, err *cliError) error {
	if err == nil {
		return nil
	}
	payload := jsonErrorPayload{
		Error: jsonErrorBody{
			Code:        err.Code,
			Message:     err.Message,
			Suggestions: err.Suggestions,
			ExitCode:    err.ExitCode,
		},
	}
	return json.NewEncoder(w).Encode(payload)
}

func formatCLIErrorText(err *cliError) string {
	if err == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf("error[%s]: %s", strings.ToLower(err.Code), err.Message),
	}
	if len(err.Suggestions) > 0 {
		lines = append(lines, "suggestions:")
		for _, suggestion := range err.Suggestions {
			lines = append(lines, "  "+suggestion)
		}
	}
	return strings.Join(lines, "\n")
}

// classifyCLIError maps an error to its code and exit status. Commands
// return *cliError for input and lookup failures; configuration and catalog
// failures arrive wrapped and are recognized by type.
func classifyCLIError(err error) *cliError {
	if err == nil {
		return nil
	}

	var typed *cliError
	var cfgErr *config.Error
	var srcErr *api.SourceError
	switch {
	case errors.As(err, &typed):
		return typed
	case errors.As(err, &cfgErr):
		return configError(err)
	case errors.As(err, &srcErr),
		errors.Is(err, api.ErrNoSources),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return upstreamError(err)
	default:
		return &cliError{
			Code:        "INTERNAL_ERROR",
			Message:     strings.TrimSpace(err.Error()),
			Suggestions: []string{"Run `storefront --help` for usage details."},
			ExitCode:    ExitInternal,
		}
	}
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func hasJSONPreference(args []string) bool {
	for _, arg := range args {
		if arg == "--json" || strings.HasPrefix(arg, "--json=") {
			return true
		}
	}
	return false
}

func hasHelpRequest(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func shouldAutoJSON(args []string, stdoutIsTTY bool) bool {
	if stdoutIsTTY || len(args) == 0 {
		return false
	}
	if hasJSONPreference(args) || hasHelpRequest(args) {
		return false
	}
	switch firstCommand(args) {
	case "completion", "help", "tui":
		return false
	default:
		return true
	}
}

func firstCommand(args []string) string {
	v := cliVocabulary()
	expectingValue := false
	for _, arg := range args {
		if expectingValue {
			expectingValue = false
			continue
		}
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if strings.HasPrefix(arg, "--") {
			name, rest := splitFlag(strings.TrimPrefix(arg, "--"))
			if spec, ok := v.flags[name]; ok && spec.requiresValue && rest == "" {
				expectingValue = true
			}
		} else if len(arg) == 2 && v.shorthands[arg[1]] {
			expectingValue = true
		}
	}
	return ""
}

type quickStartJSON struct {
	Name     string   `json:"name"`
	Usage    string   `json:"usage"`
	Examples []string `json:"examples"`
}

func printQuickStart(w io.Writer, asJSON bool) error {
	v := cliVocabulary()
	help := quickStartJSON{
		Name:  "storefront",
		Usage: fmt.Sprintf("storefront [flags] | [%s] [flags]", strings.Join(v.commands, "|")),
		Examples: []string{
			"storefront --category Dairy --sort price-asc --limit 10",
			"storefront categories --check \"Dairy > Ghee\"",
			"storefront show \"Ghee\"",
		},
	}

	if asJSON {
		return json.NewEncoder(w).Encode(help)
	}

	_, err := fmt.Fprintf(
		w,
		"%s\nusage: %s\nexamples:\n  %s\nflags: %s\n",
		help.Name,
		help.Usage,
		strings.Join(help.Examples, "\n  "),
		strings.Join(v.rootFlags, " "),
	)
	return err
}
