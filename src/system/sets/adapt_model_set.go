package sets

// AdaptModelSet wraps a single content model as a queryable, non-scoring
// set. It is a sibling of ScoringSet under IntersectionSet; lifecycle
// no-ops are explicit rather than inherited by accident.
//
// Its default Order (100 - ancestorDepth) makes descendants run before
// their ancestors within a lifecycle batch, since a page's update usually
// depends on its blocks having already settled.
type AdaptModelSet struct {
	*BaseSet
}

const adaptModelSetDefaultOrderBase = 100

// NewAdaptModelSet constructs and, for root (non-intersected) sets,
// registers an AdaptModelSet around cfg.Model.
func NewAdaptModelSet(cfg Config, deps Deps) (*AdaptModelSet, error) {
	if cfg.Type == "" {
		cfg.Type = "adapt"
	}
	defaultOrder := adaptModelSetDefaultOrderBase
	if cfg.Model != nil {
		defaultOrder = adaptModelSetDefaultOrderBase - ancestorDepth(cfg.Model)
	}

	base, err := newBaseSet(cfg, deps, defaultOrder)
	if err != nil {
		return nil, err
	}
	a := &AdaptModelSet{BaseSet: base}
	base.setSelf(a)
	if err := base.register(); err != nil {
		return nil, err
	}
	return a, nil
}

// MustNewAdaptModelSet panics on error (id collision), matching the fatal
// DuplicateSetId policy from the error-handling design.
func MustNewAdaptModelSet(cfg Config, deps Deps) *AdaptModelSet {
	a, err := NewAdaptModelSet(cfg, deps)
	if err != nil {
		panic(err)
	}
	return a
}

// Intersect builds a non-registered AdaptModelSet clone anchored to the
// same model, with otherParent as its intersection parent.
func (a *AdaptModelSet) Intersect(otherParent Set) Set {
	clone := &AdaptModelSet{
		BaseSet: &BaseSet{
			id:                a.id,
			typ:               a.typ,
			title:             a.title,
			model:             a.model,
			hasModel:          a.hasModel,
			explicitModels:    a.explicitModels,
			hasExplicitModels: a.hasExplicitModels,
			intersectionParent: otherParent,
			order:             a.order,
			deps:              a.deps,
		},
	}
	clone.BaseSet.setSelf(clone)
	return clone
}

// ModelType, ModelComponent and ModelTypeGroup are query-surface helpers
// exposed by AdaptModelSet's anchor model, recognised as attributes by the
// query package's attribute table.
func (a *AdaptModelSet) ModelType() string {
	if !a.hasModel {
		return ""
	}
	return a.model.Type()
}

func (a *AdaptModelSet) ModelComponent() string {
	if !a.hasModel {
		return ""
	}
	return a.model.ComponentType()
}

func (a *AdaptModelSet) ModelTypeGroup(group string) bool {
	if !a.hasModel {
		return false
	}
	return a.model.IsTypeGroup(group)
}

// IsComplete delegates to the anchor model; AdaptModelSet carries no
// scoring semantics of its own.
func (a *AdaptModelSet) IsComplete() bool {
	if !a.hasModel {
		return false
	}
	return a.model.IsComplete()
}

func (a *AdaptModelSet) IsIncomplete() bool {
	return !a.IsComplete()
}

// IsPassed aliases IsComplete for AdaptModelSet, per the query attribute
// table; IsFailed is always false since a plain model wrapper never fails.
func (a *AdaptModelSet) IsPassed() bool {
	return a.IsComplete()
}

func (a *AdaptModelSet) IsFailed() bool {
	return false
}
