package query

import (
	"strconv"

	"github.com/oakleaf-learning/scoring-core/src/system/hierarchy"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

type attrKind int

const (
	kindStringEq attrKind = iota
	kindTruthy
	kindPredicate
	kindModelID
)

// attrSpec describes one recognised attribute name. The table below is
// closed deliberately: an attribute Go's concrete set types don't actually
// carry (modelType on a ScoringSet, say) just never matches rather than
// panicking on a missing method.
type attrSpec struct {
	kind      attrKind
	str       func(sets.Set) (string, bool)
	truthy    func(sets.Set) (bool, bool)
	predicate func(sets.Set, string) (bool, bool)
}

var attrTable = map[string]attrSpec{
	"id":   {kind: kindStringEq, str: func(s sets.Set) (string, bool) { return s.ID(), true }},
	"type": {kind: kindStringEq, str: func(s sets.Set) (string, bool) { return s.Type(), true }},

	"isEnabled":                   {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) { return s.IsEnabled(), true }},
	"isOptional":                  {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) { return s.IsOptional(), true }},
	"isAvailable":                 {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) { return s.IsAvailable(), true }},
	"isModelAvailableInHierarchy": {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) { return s.IsModelAvailableInHierarchy(), true }},
	"isPopulated":                 {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) { return s.IsPopulated(), true }},
	"isNotPopulated":              {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) { return s.IsNotPopulated(), true }},

	"modelType": {kind: kindStringEq, str: func(s sets.Set) (string, bool) {
		m, ok := s.(interface{ ModelType() string })
		if !ok {
			return "", false
		}
		return m.ModelType(), true
	}},
	"modelComponent": {kind: kindStringEq, str: func(s sets.Set) (string, bool) {
		m, ok := s.(interface{ ModelComponent() string })
		if !ok {
			return "", false
		}
		return m.ModelComponent(), true
	}},
	"modelTypeGroup": {kind: kindPredicate, predicate: func(s sets.Set, v string) (bool, bool) {
		m, ok := s.(interface{ ModelTypeGroup(string) bool })
		if !ok {
			return false, false
		}
		return m.ModelTypeGroup(v), true
	}},

	"isComplete": {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) {
		m, ok := s.(interface{ IsComplete() bool })
		if !ok {
			return false, false
		}
		return m.IsComplete(), true
	}},
	"isIncomplete": {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) {
		m, ok := s.(interface{ IsIncomplete() bool })
		if !ok {
			return false, false
		}
		return m.IsIncomplete(), true
	}},
	"isPassed": {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) {
		m, ok := s.(interface{ IsPassed() bool })
		if !ok {
			return false, false
		}
		return m.IsPassed(), true
	}},
	"isFailed": {kind: kindTruthy, truthy: func(s sets.Set) (bool, bool) {
		m, ok := s.(interface{ IsFailed() bool })
		if !ok {
			return false, false
		}
		return m.IsFailed(), true
	}},

	// modelId is intersection-only: it never compares a plain property, it
	// restricts to sets whose Models() intersect the named model's
	// position in the content tree.
	"modelId": {kind: kindModelID},
}

// matchAttr applies one attribute matcher against a set, per the matching
// rules: callable attributes (predicate) require a value and a truthy
// call result, truthy attributes compare against the given value only when
// one was supplied (otherwise the bare call result must be truthy), and
// string attributes compare by string equality. An attribute the set's
// concrete type doesn't carry never matches.
func matchAttr(s sets.Set, a Attr, lookup interfaces.ContentModelLookup) bool {
	if a.HasID {
		return s.ID() == a.ID
	}
	spec, ok := attrTable[a.Name]
	if !ok {
		return false
	}
	switch spec.kind {
	case kindModelID:
		return matchModelID(s, a, lookup)
	case kindPredicate:
		if !a.HasValue {
			return false
		}
		got, ok := spec.predicate(s, a.Value)
		return ok && got
	case kindTruthy:
		got, ok := spec.truthy(s)
		if !ok {
			return false
		}
		if !a.HasValue {
			return got
		}
		return strconv.FormatBool(got) == a.Value
	case kindStringEq:
		got, ok := spec.str(s)
		if !ok {
			return false
		}
		if !a.HasValue {
			return got != ""
		}
		return got == a.Value
	default:
		return false
	}
}

func matchModelID(s sets.Set, a Attr, lookup interfaces.ContentModelLookup) bool {
	if !a.HasValue || lookup == nil {
		return false
	}
	model, ok := lookup.FindByID(a.Value)
	if !ok {
		return false
	}
	return hierarchy.Intersects(model, s.Models())
}

func matchAll(s sets.Set, attrs []Attr, lookup interfaces.ContentModelLookup) bool {
	for _, a := range attrs {
		if !matchAttr(s, a, lookup) {
			return false
		}
	}
	return true
}
