package query

import (
	"strings"

	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/registry"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

// Evaluate runs a parsed Query against the registry and returns the
// de-duplicated list of intersected results.
func Evaluate(q Query, reg *registry.Registry, lookup interfaces.ContentModelLookup) []sets.Set {
	if len(q) == 0 {
		return nil
	}
	columns := make([][]sets.Set, len(q))
	for i, sq := range q {
		columns[i] = selectColumn(sq, reg, lookup)
	}

	seen := map[string]bool{}
	var out []sets.Set
	var walk func(col int, acc sets.Set)
	walk = func(col int, acc sets.Set) {
		for _, cand := range columns[col] {
			next := cand
			if acc != nil {
				next = cand.Intersect(acc)
			}
			if !matchAll(next, q[col].Filter, lookup) {
				continue
			}
			if col == len(q)-1 {
				key := resultKey(next)
				if !seen[key] {
					seen[key] = true
					out = append(out, next)
				}
				continue
			}
			walk(col+1, next)
		}
	}
	walk(0, nil)
	return out
}

func allSets(reg *registry.Registry) []sets.Set {
	var out []sets.Set
	for _, s := range reg.All() {
		if os, ok := s.(sets.Set); ok {
			out = append(out, os)
		}
	}
	return out
}

// selectColumn computes the raw (pre-intersection) candidate list for one
// column: the union, over every Cartesian combination of its primary and
// multiplyAttr groups, of the registered sets matching that combination.
// A column with neither a primary nor any multiplyAttr selects the whole
// registry unfiltered.
func selectColumn(sq SelectionQuery, reg *registry.Registry, lookup interfaces.ContentModelLookup) []sets.Set {
	all := allSets(reg)
	combos := combosFor(sq)
	if combos == nil {
		return all
	}
	seen := map[string]bool{}
	var out []sets.Set
	for _, combo := range combos {
		for _, s := range all {
			if seen[s.ID()] {
				continue
			}
			if matchAll(s, combo, lookup) {
				seen[s.ID()] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// combosFor builds the Cartesian product of the column's primary selector
// (if any) and each multiplyAttr group's items, one merged attribute list
// per combination. A nil return means "no narrowing groups at all"; an
// empty multiplyAttr group ("[]") collapses the whole product to zero
// combinations, so that column selects nothing.
func combosFor(sq SelectionQuery) [][]Attr {
	var groups [][]Attr
	switch {
	case sq.HasPrimaryID:
		groups = append(groups, []Attr{{ID: sq.PrimaryID, HasID: true}})
	case sq.HasPrimaryType:
		groups = append(groups, []Attr{{Name: "type", Value: sq.PrimaryType, HasValue: true}})
	}
	groups = append(groups, sq.Multiply...)
	if len(groups) == 0 {
		return nil
	}

	combos := [][]Attr{{}}
	for _, group := range groups {
		next := [][]Attr{}
		for _, combo := range combos {
			for _, item := range group {
				merged := make([]Attr, len(combo), len(combo)+1)
				copy(merged, combo)
				merged = append(merged, item)
				next = append(next, merged)
			}
		}
		combos = next
	}
	return combos
}

// resultKey identifies an intersected result by its full subset path so
// that two tuples folding to the same chain of ids de-duplicate to one
// entry, matching a plain root set's own id for an un-intersected result.
func resultKey(s sets.Set) string {
	path := s.SubsetPath()
	ids := make([]string, len(path))
	for i, p := range path {
		ids[i] = p.ID()
	}
	return strings.Join(ids, ">")
}
