package filter

import (
	"maps"

	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/catalog"
)

// ParentKey selects a whole subcategory.
type ParentKey struct {
	Category    string
	Subcategory string
}

// LeafKey selects one sub-subcategory.
type LeafKey struct {
	Category       string
	Subcategory    string
	Subsubcategory string
}

// CheckState is the rendered state of a subcategory checkbox.
type CheckState int

const (
	// Unchecked means no part of the subcategory is selected.
	Unchecked CheckState = iota
	// Mixed means some, but not all, sub-subcategories are selected.
	Mixed
	// Checked means the whole subcategory is selected.
	Checked
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Mixed:
		return "mixed"
	default:
		return "unchecked"
	}
}

// Selection is the set of checked subcategories and sub-subcategories. A
// parent is selected exactly when all of its sub-subcategories are. An empty
// selection matches every product.
//
// Selection is a value: every method returns a new Selection and leaves the
// receiver untouched, so snapshots can be shared freely.
type Selection struct {
	tree    *catalog.Index
	parents map[ParentKey]struct{}
	leaves  map[LeafKey]struct{}
}

// NewSelection returns an empty selection over the given index.
func NewSelection(ix *catalog.Index) Selection {
	return Selection{tree: ix}
}

// SelectAll marks every subcategory and sub-subcategory of the index.
func SelectAll(ix *catalog.Index) Selection {
	s := NewSelection(ix).edit()
	for _, cat := range ix.Categories() {
		s.addCategory(cat)
	}
	return s
}

// SelectOnlyCategory selects every leaf of one category and nothing else.
// An unknown category yields an empty selection.
func SelectOnlyCategory(ix *catalog.Index, category string) Selection {
	s := NewSelection(ix).edit()
	if ix.HasCategory(category) {
		s.addCategory(category)
	}
	return s
}

// ToggleParent sets a subcategory and all of its sub-subcategories to the
// same state. Unknown subcategories are ignored.
func (s Selection) ToggleParent(category, subcategory string, checked bool) Selection {
	if !s.tree.HasSubcategory(category, subcategory) {
		return s
	}
	next := s.edit()
	next.setParent(category, subcategory, checked)
	for _, child := range s.tree.Subsubcategories(category, subcategory) {
		next.setLeaf(category, subcategory, child, checked)
	}
	return next
}

// ToggleChild sets one sub-subcategory, then re-derives its parent: the
// parent is checked only when every sibling is. Unknown leaves are ignored.
func (s Selection) ToggleChild(category, subcategory, subsubcategory string, checked bool) Selection {
	if subsubcategory == catalog.RootBucket ||
		!s.tree.HasBucket(catalog.Path{Category: category, Subcategory: subcategory, Subsubcategory: subsubcategory}) {
		return s
	}
	next := s.edit()
	next.setLeaf(category, subcategory, subsubcategory, checked)

	all := true
	for _, child := range s.tree.Subsubcategories(category, subcategory) {
		if !next.IsChildSelected(category, subcategory, child) {
			all = false
			break
		}
	}
	next.setParent(category, subcategory, all)
	return next
}

// Clear deselects everything, which reopens the filter to all products.
func (s Selection) Clear() Selection {
	return NewSelection(s.tree)
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.parents) == 0 && len(s.leaves) == 0
}

// Membership reports whether a product passes the selection. The leaf key is
// checked first; a selected parent also admits the product.
func (s Selection) Membership(p api.Product) bool {
	if s.Empty() {
		return true
	}
	path := catalog.PathOf(p)
	if path.Subsubcategory != catalog.RootBucket {
		if _, ok := s.leaves[LeafKey{path.Category, path.Subcategory, path.Subsubcategory}]; ok {
			return true
		}
	}
	_, ok := s.parents[ParentKey{path.Category, path.Subcategory}]
	return ok
}

// IsParentSelected reports whether a subcategory is checked.
func (s Selection) IsParentSelected(category, subcategory string) bool {
	_, ok := s.parents[ParentKey{category, subcategory}]
	return ok
}

// IsChildSelected reports whether a sub-subcategory is checked.
func (s Selection) IsChildSelected(category, subcategory, subsubcategory string) bool {
	_, ok := s.leaves[LeafKey{category, subcategory, subsubcategory}]
	return ok
}

// ParentState returns the checkbox state of a subcategory: checked, mixed
// when only some sub-subcategories are checked, or unchecked.
func (s Selection) ParentState(category, subcategory string) CheckState {
	if s.IsParentSelected(category, subcategory) {
		return Checked
	}
	for _, child := range s.tree.Subsubcategories(category, subcategory) {
		if s.IsChildSelected(category, subcategory, child) {
			return Mixed
		}
	}
	return Unchecked
}

// OnlyParent returns the selected subcategory when exactly one is selected.
func (s Selection) OnlyParent() (ParentKey, bool) {
	if len(s.parents) != 1 {
		return ParentKey{}, false
	}
	for key := range s.parents {
		return key, true
	}
	return ParentKey{}, false
}

// Parents returns the selected subcategories in index order.
func (s Selection) Parents() []ParentKey {
	var out []ParentKey
	for _, cat := range s.tree.Categories() {
		for _, sub := range s.tree.Subcategories(cat) {
			if s.IsParentSelected(cat, sub) {
				out = append(out, ParentKey{cat, sub})
			}
		}
	}
	return out
}

// Categories returns the distinct categories touched by the selection, in
// index order.
func (s Selection) Categories() []string {
	if s.Empty() {
		return nil
	}
	touched := make(map[string]struct{})
	for key := range s.parents {
		touched[key.Category] = struct{}{}
	}
	for key := range s.leaves {
		touched[key.Category] = struct{}{}
	}

	out := make([]string, 0, len(touched))
	for _, cat := range s.tree.Categories() {
		if _, ok := touched[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

func (s Selection) edit() Selection {
	next := Selection{
		tree:    s.tree,
		parents: maps.Clone(s.parents),
		leaves:  maps.Clone(s.leaves),
	}
	if next.parents == nil {
		next.parents = make(map[ParentKey]struct{})
	}
	if next.leaves == nil {
		next.leaves = make(map[LeafKey]struct{})
	}
	return next
}

func (s Selection) addCategory(category string) {
	for _, sub := range s.tree.Subcategories(category) {
		s.setParent(category, sub, true)
		for _, child := range s.tree.Subsubcategories(category, sub) {
			s.setLeaf(category, sub, child, true)
		}
	}
}

func (s Selection) setParent(category, subcategory string, checked bool) {
	key := ParentKey{category, subcategory}
	if checked {
		s.parents[key] = struct{}{}
	} else {
		delete(s.parents, key)
	}
}

func (s Selection) setLeaf(category, subcategory, subsubcategory string, checked bool) {
	key := LeafKey{category, subcategory, subsubcategory}
	if checked {
		s.leaves[key] = struct{}{}
	} else {
		delete(s.leaves, key)
	}
}
