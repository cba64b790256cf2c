package query

import (
	"strings"

	"github.com/oakleaf-learning/scoring-core/src/system/registry"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

// SplitPath splits a dotted path ("a.b.c") into the id segments Path
// takes; an empty path yields nil. Already-split segments go to Path
// directly.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Path resolves a chain of root-set ids by looking each one up in the
// registry in order and folding left-to-right via Intersect, the same
// fold Evaluate performs over a parsed query's columns.
func Path(ids []string, reg *registry.Registry) (sets.Set, bool) {
	var acc sets.Set
	for _, id := range ids {
		rs, ok := reg.GetByID(id)
		if !ok {
			return nil, false
		}
		os, ok := rs.(sets.Set)
		if !ok {
			return nil, false
		}
		if acc == nil {
			acc = os
			continue
		}
		acc = os.Intersect(acc)
	}
	return acc, acc != nil
}
