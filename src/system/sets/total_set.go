package sets

import (
	"github.com/oakleaf-learning/scoring-core/src/system/hierarchy"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

// Passmark is the threshold configuration governing TotalSet.IsPassed, per
// the top-level package's Configuration (passmark.isEnabled,
// requiresPassedSubsets, score, correctness, isScaled).
type Passmark struct {
	IsEnabled             bool
	RequiresPassedSubsets bool
	Score                 float64
	Correctness           float64
	IsScaled              bool
}

// DefaultPassmark matches the Configuration defaults in the top-level
// package: enabled, 60/60 thresholds, scaled, subset-pass not required.
func DefaultPassmark() Passmark {
	return Passmark{IsEnabled: true, Score: 60, Correctness: 60, IsScaled: true}
}

// scoringCapable is the subset of ScoringSet's surface TotalSet needs to
// walk the registry for member sets; AdaptModelSet never satisfies it, so
// a plain type assertion against the registry's root sets already does the
// "scoringSets vs everything else" split for free.
type scoringCapable interface {
	Set
	IsScoreIncluded() bool
	IsCompletionRequired() bool
	MinScore() float64
	MaxScore() float64
	Score() float64
	Correctness() int
	MaxCorrectness() int
	IsComplete() bool
	CanReset() bool
}

// TotalSet is the singleton course-level ScoringSet: its effectiveModels is
// the union of every scoring-included and completion-required member set's
// own models, and its aggregates are sums over those members rather than
// over a model projection of its own, so that a TotalSet built as an
// intersected clone can re-scope each member against the same parent
// before summing (see members, below) instead of re-deriving sums from a
// coarser model union that could double in leaked descendants.
type TotalSet struct {
	*ScoringSet
	passmark Passmark
}

func NewTotalSet(cfg ScoringConfig, passmark Passmark, deps Deps) (*TotalSet, error) {
	if cfg.Config.Type == "" {
		cfg.Config.Type = "total"
	}
	if cfg.Config.ID == "" {
		cfg.Config.ID = "total"
	}
	base, err := newBaseSet(cfg.Config, deps, scoringSetDefaultOrder)
	if err != nil {
		return nil, err
	}

	scoring := &ScoringSet{
		LifecycleSet:      newLifecycleSet(base, Callbacks{}),
		canResetFn:        cfg.CanResetFn,
		includeScore:      true,
		requireCompletion: true,
	}

	t := &TotalSet{ScoringSet: scoring, passmark: passmark}
	scoring.isCompleteFn = func(*ScoringSet) bool { return t.IsComplete() }
	scoring.isPassedFn = func(*ScoringSet) bool { return t.isPassed() }
	scoring.LifecycleSet.callbacks.OnRestore = func() (bool, error) {
		scoring.publish("scoring:"+scoring.typ+":restored", "scoring:set:restored", "scoring:restored")
		return false, nil
	}
	base.effectiveModelsFn = t.computeEffectiveModels

	base.setSelf(t)
	if err := base.register(); err != nil {
		return nil, err
	}
	return t, nil
}

func MustNewTotalSet(cfg ScoringConfig, passmark Passmark, deps Deps) *TotalSet {
	t, err := NewTotalSet(cfg, passmark, deps)
	if err != nil {
		panic(err)
	}
	return t
}

// Intersect builds a non-registered TotalSet clone anchored to the same
// course model, whose scoringSets/completionSets will be re-scoped against
// otherParent when members() runs.
func (t *TotalSet) Intersect(otherParent Set) Set {
	base := &BaseSet{
		id:                 t.id,
		typ:                t.typ,
		title:              t.title,
		model:              t.model,
		hasModel:           t.hasModel,
		explicitModels:     t.explicitModels,
		hasExplicitModels:  t.hasExplicitModels,
		intersectionParent: otherParent,
		order:              t.order,
		deps:               t.deps,
	}
	scoring := &ScoringSet{
		LifecycleSet:      &LifecycleSet{BaseSet: base},
		canResetFn:        t.canResetFn,
		includeScore:      t.includeScore,
		requireCompletion: t.requireCompletion,
	}
	clone := &TotalSet{ScoringSet: scoring, passmark: t.passmark}
	scoring.isCompleteFn = func(*ScoringSet) bool { return clone.IsComplete() }
	scoring.isPassedFn = func(*ScoringSet) bool { return clone.isPassed() }
	base.effectiveModelsFn = clone.computeEffectiveModels
	base.setSelf(clone)
	return clone
}

// scopeForMembers returns the set each member is re-intersected against
// before contributing to a sum: this TotalSet's own intersection parent
// when it is itself a clone, or nil for a root TotalSet, where members
// contribute unmodified.
func (t *TotalSet) scopeForMembers() (Set, bool) {
	return t.IntersectionParent()
}

// members walks the registry once, keeping root sets (never clones, by
// construction) that satisfy included, intersect this TotalSet's anchor
// model, and are not this TotalSet itself; each surviving member is
// re-intersected against scopeForMembers() when this TotalSet is itself a
// clone.
func (t *TotalSet) members(included func(scoringCapable) bool) []scoringCapable {
	scope, isClone := t.scopeForMembers()
	var out []scoringCapable
	for _, rs := range t.deps.Registry.AllExcept(t.id) {
		sc, ok := rs.(scoringCapable)
		if !ok || !included(sc) {
			continue
		}
		if !t.memberIntersectsAnchor(sc) {
			continue
		}
		if isClone {
			clone, ok := sc.Intersect(scope).(scoringCapable)
			if !ok {
				continue
			}
			sc = clone
		}
		out = append(out, sc)
	}
	return out
}

// memberIntersectsAnchor decides whether a candidate member belongs under
// this TotalSet's course model. A member anchored to a single model (the
// common case: a performance or completion set built over one article) is
// checked against that anchor directly, since its raw Models() projects to
// that model's children and can be empty for a childless leaf even though
// the anchor itself is always a descendant of the course. A member built
// from an explicit model list instead carries no single anchor to check, so
// it falls back to intersecting that list directly.
func (t *TotalSet) memberIntersectsAnchor(sc scoringCapable) bool {
	if !t.hasModel {
		return true
	}
	if m, ok := sc.Model(); ok {
		return hierarchy.Intersects(t.model, []interfaces.ContentModel{m})
	}
	return hierarchy.Intersects(t.model, sc.Models())
}

func (t *TotalSet) scoringSets() []scoringCapable {
	return t.members(func(s scoringCapable) bool { return s.IsScoreIncluded() })
}

func (t *TotalSet) completionSets() []scoringCapable {
	return t.members(func(s scoringCapable) bool { return s.IsCompletionRequired() })
}

func (t *TotalSet) computeEffectiveModels() []interfaces.ContentModel {
	var all []interfaces.ContentModel
	for _, s := range t.scoringSets() {
		all = append(all, s.Models()...)
	}
	for _, s := range t.completionSets() {
		all = append(all, s.Models()...)
	}
	models := hierarchy.Unique(all)
	if parent, ok := t.IntersectionParent(); ok {
		return hierarchy.FilterByIntersectingHierarchy(models, parent.EffectiveModels())
	}
	return models
}

func (t *TotalSet) MinScore() float64 {
	var total float64
	for _, s := range t.scoringSets() {
		total += s.MinScore()
	}
	return total
}

func (t *TotalSet) MaxScore() float64 {
	var total float64
	for _, s := range t.scoringSets() {
		total += s.MaxScore()
	}
	return total
}

func (t *TotalSet) Score() float64 {
	var total float64
	for _, s := range t.scoringSets() {
		total += s.Score()
	}
	return total
}

func (t *TotalSet) Correctness() int {
	var total int
	for _, s := range t.scoringSets() {
		total += s.Correctness()
	}
	return total
}

func (t *TotalSet) MaxCorrectness() int {
	var total int
	for _, s := range t.scoringSets() {
		total += s.MaxCorrectness()
	}
	return total
}

// IsComplete holds iff every completion-required member is complete; an
// empty completionSets list is vacuously complete.
func (t *TotalSet) IsComplete() bool {
	for _, s := range t.completionSets() {
		if !s.IsComplete() {
			return false
		}
	}
	return true
}

func (t *TotalSet) isPassed() bool {
	if !t.passmark.IsEnabled {
		return true
	}
	score := t.Score()
	correctness := float64(t.Correctness())
	if t.passmark.IsScaled {
		score = float64(scale(t.Score(), t.MinScore(), t.MaxScore()))
		correctness = float64(scale(float64(t.Correctness()), 0, float64(t.MaxCorrectness())))
	}
	if score < t.passmark.Score || correctness < t.passmark.Correctness {
		return false
	}
	if t.passmark.RequiresPassedSubsets {
		for _, s := range t.scoringSets() {
			if passable, ok := s.(interface{ IsPassed() bool }); ok && !passable.IsPassed() {
				return false
			}
		}
	}
	return true
}

// CanReset holds iff any scoring-included member can reset.
func (t *TotalSet) CanReset() bool {
	for _, s := range t.scoringSets() {
		if s.CanReset() {
			return true
		}
	}
	return false
}

// IsFailed overrides ScoringSet's generic isComplete-and-not-passed rule
// with the total-specific carve-out for resettable totals: a total that
// can still be reset is never considered failed outright.
func (t *TotalSet) IsFailed() bool {
	return t.IsComplete() && !t.isPassed() && !t.CanReset()
}

func (t *TotalSet) IsPassed() bool {
	return t.isPassed()
}

// OnUpdate runs the embedded ScoringSet transition detection (which already
// fires scoring:total:complete / scoring:set:complete and
// scoring:total:passed / scoring:set:passed through self.IsComplete()'s
// override above) and additionally emits the bare course-level signals
// scoring:complete / scoring:pass the event catalog reserves for the
// scoring root.
func (t *TotalSet) OnUpdate() error {
	wasComplete := t.wasComplete
	wasPassed := t.wasPassed
	if err := t.ScoringSet.OnUpdate(); err != nil {
		return err
	}
	if t.isClone() {
		return nil
	}
	if t.wasComplete && !wasComplete {
		t.publish("scoring:complete")
	}
	if t.wasPassed && !wasPassed {
		t.publish("scoring:pass")
	}
	return nil
}

var _ LifecycleCapable = (*TotalSet)(nil)
