package filter

import (
	"strings"

	"github.com/tayloree/storefront/internal/catalog"
)

// MatchCategory resolves loosely typed input ("sweet", "misc") to a category
// of the index.
func MatchCategory(ix *catalog.Index, wanted string) (string, bool) {
	return matchName(ix.Categories(), wanted)
}

// MatchSubcategory resolves input to a subcategory of a known category.
func MatchSubcategory(ix *catalog.Index, category, wanted string) (string, bool) {
	return matchName(ix.Subcategories(category), wanted)
}

// MatchSubsubcategory resolves input to a sub-subcategory of a known
// subcategory.
func MatchSubsubcategory(ix *catalog.Index, category, subcategory, wanted string) (string, bool) {
	return matchName(ix.Subsubcategories(category, subcategory), wanted)
}

// matchName tries an exact match, then a case-insensitive one, then a
// normalized one, then a unique normalized prefix.
func matchName(names []string, wanted string) (string, bool) {
	raw := strings.TrimSpace(wanted)
	if raw == "" {
		return "", false
	}
	for _, name := range names {
		if name == raw {
			return name, true
		}
	}
	for _, name := range names {
		if strings.EqualFold(name, raw) {
			return name, true
		}
	}

	norm := normalizeCategory(raw)
	for _, name := range names {
		if normalizeCategory(name) == norm {
			return name, true
		}
	}

	var found string
	matches := 0
	for _, name := range names {
		if strings.HasPrefix(normalizeCategory(name), norm) {
			found = name
			matches++
		}
	}
	return found, matches == 1
}

func normalizeCategory(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	switch {
	case len(s) > 4 && strings.HasSuffix(s, "ies"):
		s = strings.TrimSuffix(s, "ies") + "y"
	case len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		s = strings.TrimSuffix(s, "s")
	}
	return s
}
