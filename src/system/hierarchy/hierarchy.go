// Package hierarchy implements the overlapping-hierarchy intersection rule
// that underlies every set's effectiveModels: a model belongs to the
// intersection of two lists if it is equal to, an ancestor of, or a
// descendant of some element of the other list.
//
// The indexing strategy mirrors the anchor/lookup walk in the scheduler this
// module was adapted from: build one-shot id indexes over the smaller side
// (B) before scanning the larger side (A), rather than comparing every pair.
package hierarchy

import "github.com/oakleaf-learning/scoring-core/src/system/interfaces"

// Ancestors returns the chain from the nearest ancestor to the root. When
// includeSelf is true, model itself is the first element.
func Ancestors(model interfaces.ContentModel, includeSelf bool) []interfaces.ContentModel {
	if model == nil {
		return nil
	}
	var out []interfaces.ContentModel
	if includeSelf {
		out = append(out, model)
	}
	cur, ok := model.Parent()
	for ok {
		out = append(out, cur)
		cur, ok = cur.Parent()
	}
	return out
}

// Descendants returns every node below model in the tree, depth-first.
func Descendants(model interfaces.ContentModel) []interfaces.ContentModel {
	if model == nil {
		return nil
	}
	var out []interfaces.ContentModel
	var walk func(m interfaces.ContentModel)
	walk = func(m interfaces.ContentModel) {
		for _, child := range m.Children() {
			out = append(out, child)
			walk(child)
		}
	}
	walk(model)
	return out
}

// IsAncestorOf reports whether a is a (possibly indirect) ancestor of b.
func IsAncestorOf(a, b interfaces.ContentModel) bool {
	if a == nil || b == nil {
		return false
	}
	cur, ok := b.Parent()
	for ok {
		if cur.ID() == a.ID() {
			return true
		}
		cur, ok = cur.Parent()
	}
	return false
}

// IsDescendantOf reports whether a is a (possibly indirect) descendant of b.
func IsDescendantOf(a, b interfaces.ContentModel) bool {
	return IsAncestorOf(b, a)
}

func idSet(list []interfaces.ContentModel) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, m := range list {
		out[m.ID()] = true
	}
	return out
}

// descendantIDSet is the union, over every element of list, of the ids of
// that element's descendants.
func descendantIDSet(list []interfaces.ContentModel) map[string]bool {
	out := make(map[string]bool)
	for _, m := range list {
		for _, d := range Descendants(m) {
			out[d.ID()] = true
		}
	}
	return out
}

// ancestorIDSet is the union, over every element of list, of the ids of
// that element's ancestors (self excluded; equality is already covered by
// idSet).
func ancestorIDSet(list []interfaces.ContentModel) map[string]bool {
	out := make(map[string]bool)
	for _, m := range list {
		for _, a := range Ancestors(m, false) {
			out[a.ID()] = true
		}
	}
	return out
}

// Intersects reports whether m overlaps list under the hierarchy rule: equal
// to, ancestor of, or descendant of some element of list.
func Intersects(m interfaces.ContentModel, list []interfaces.ContentModel) bool {
	if m == nil {
		return false
	}
	for _, b := range list {
		if m.ID() == b.ID() || IsAncestorOf(m, b) || IsDescendantOf(m, b) {
			return true
		}
	}
	return false
}

// FilterByIntersectingHierarchy returns the elements of a that overlap b
// under the hierarchy rule. When b is empty, a is returned unchanged (a
// fresh slice; callers are free to mutate the result).
//
// Indexes over b are built once: equality ids, b's descendant ids (to test
// "a descendant of some b"), and b's ancestor ids (to test "a ancestor of
// some b"). Overall cost is O(|a| + |b| + descendants(b) + ancestors(b)).
func FilterByIntersectingHierarchy(a, b []interfaces.ContentModel) []interfaces.ContentModel {
	if len(b) == 0 {
		out := make([]interfaces.ContentModel, len(a))
		copy(out, a)
		return out
	}

	bIDs := idSet(b)
	descOfB := descendantIDSet(b)
	ancOfB := ancestorIDSet(b)

	seen := make(map[string]bool, len(a))
	out := make([]interfaces.ContentModel, 0, len(a))
	for _, m := range a {
		id := m.ID()
		if seen[id] {
			continue
		}
		if bIDs[id] || descOfB[id] || ancOfB[id] {
			out = append(out, m)
			seen[id] = true
		}
	}
	return out
}

// Unique de-duplicates a model list by id, preserving first-seen order.
func Unique(list []interfaces.ContentModel) []interfaces.ContentModel {
	seen := make(map[string]bool, len(list))
	out := make([]interfaces.ContentModel, 0, len(list))
	for _, m := range list {
		if seen[m.ID()] {
			continue
		}
		seen[m.ID()] = true
		out = append(out, m)
	}
	return out
}

// IsAvailableInHierarchy reports whether model and every one of its
// ancestors are available, and the model itself is attached to the tree.
func IsAvailableInHierarchy(model interfaces.ContentModel) bool {
	if model == nil {
		return false
	}
	if !model.IsAttached() {
		return false
	}
	for _, m := range Ancestors(model, true) {
		if !m.IsAvailable() {
			return false
		}
	}
	return true
}

// FilterAvailable restricts list to models whose full ancestor chain is
// available and who are attached to the tree.
func FilterAvailable(list []interfaces.ContentModel) []interfaces.ContentModel {
	out := make([]interfaces.ContentModel, 0, len(list))
	for _, m := range list {
		if IsAvailableInHierarchy(m) {
			out = append(out, m)
		}
	}
	return out
}
