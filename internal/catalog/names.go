package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName returns the grouping key for a product name: trimmed and
// case-folded.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(trimmed)
}

// Label title-cases a free-form category or product label for display.
func Label(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
