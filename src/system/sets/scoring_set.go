package sets

import (
	"fmt"
	"math"

	"github.com/oakleaf-learning/scoring-core/src/system/state"
)

// ScoringSet is the one concrete type that carries score and correctness
// aggregation. It embeds LifecycleSet for the cooperative callbacks and
// adds the sums over AvailableQuestions(), the min/max scaling, and the
// completion/pass transition detection that drives the objective writer.
//
// isPassed is abstract: a caller must supply IsPassedFn through ScoringConfig, or
// every call logs a MissingOverride-style error and reports not-passed,
// rather than letting an unconfigured set silently read as passed.
type ScoringSet struct {
	*LifecycleSet

	isCompleteFn func(*ScoringSet) bool
	isPassedFn   func(*ScoringSet) bool
	canResetFn   func(*ScoringSet) bool

	includeScore      bool
	requireCompletion bool

	wasComplete bool
	wasPassed   bool

	objective *state.Objective
}

// ScoringConfig extends Config with the scoring-specific knobs the design
// notes require: the abstract isPassed hook, the optional canReset hook,
// and the two passmark-adjacent inclusion flags (isScoreIncluded defaults
// to true, isCompletionRequired defaults to true).
type ScoringConfig struct {
	Config
	IsPassedFn        func(*ScoringSet) bool
	CanResetFn        func(*ScoringSet) bool
	IncludeScore      bool
	HasIncludeScore   bool
	RequireCompletion bool
	HasRequire        bool
}

const scoringSetDefaultOrder = 500

func NewScoringSet(cfg ScoringConfig, deps Deps) (*ScoringSet, error) {
	base, err := newBaseSet(cfg.Config, deps, scoringSetDefaultOrder)
	if err != nil {
		return nil, err
	}
	s := &ScoringSet{
		LifecycleSet:      newLifecycleSet(base, Callbacks{}),
		isPassedFn:        cfg.IsPassedFn,
		canResetFn:        cfg.CanResetFn,
		includeScore:      true,
		requireCompletion: true,
	}
	if cfg.HasIncludeScore {
		s.includeScore = cfg.IncludeScore
	}
	if cfg.HasRequire {
		s.requireCompletion = cfg.RequireCompletion
	}
	base.setSelf(s)
	if err := base.register(); err != nil {
		return nil, err
	}
	return s, nil
}

func MustNewScoringSet(cfg ScoringConfig, deps Deps) *ScoringSet {
	s, err := NewScoringSet(cfg, deps)
	if err != nil {
		panic(err)
	}
	return s
}

// Intersect builds a non-registered ScoringSet clone. Clones inherit the
// parent's isPassed/canReset hooks (they still need to answer query
// predicates correctly) but never run transition detection or touch
// storage; isClone() on the embedded LifecycleSet already guards that.
func (s *ScoringSet) Intersect(otherParent Set) Set {
	clone := &ScoringSet{
		LifecycleSet: &LifecycleSet{
			BaseSet: &BaseSet{
				id:                 s.id,
				typ:                s.typ,
				title:              s.title,
				model:              s.model,
				hasModel:           s.hasModel,
				explicitModels:     s.explicitModels,
				hasExplicitModels:  s.hasExplicitModels,
				intersectionParent: otherParent,
				order:              s.order,
				deps:               s.deps,
			},
		},
		isPassedFn:        s.isPassedFn,
		canResetFn:        s.canResetFn,
		includeScore:      s.includeScore,
		requireCompletion: s.requireCompletion,
	}
	clone.BaseSet.setSelf(clone)
	return clone
}

// MinScore, MaxScore, Score and Correctness sum the corresponding model
// attribute over AvailableQuestions(); a question that never becomes
// available never contributes, matching the availability filtering every
// other derived view in the package already applies.
func (s *ScoringSet) MinScore() float64 {
	var total float64
	for _, q := range s.self.AvailableQuestions() {
		total += q.MinScore()
	}
	return total
}

func (s *ScoringSet) MaxScore() float64 {
	var total float64
	for _, q := range s.self.AvailableQuestions() {
		total += q.MaxScore()
	}
	return total
}

func (s *ScoringSet) Score() float64 {
	var total float64
	for _, q := range s.self.AvailableQuestions() {
		total += q.Score()
	}
	return total
}

func (s *ScoringSet) Correctness() int {
	var count int
	for _, q := range s.self.AvailableQuestions() {
		if q.IsCorrect() {
			count++
		}
	}
	return count
}

func (s *ScoringSet) MaxCorrectness() int {
	return len(s.self.AvailableQuestions())
}

// scale normalizes v against [min, max] into an integer percentage. A
// non-negative v is read as a percentage of max (0 when max is 0, so an
// empty question set never divides by zero); a negative v is read as a
// percentage of |min|, covering hosts that allow penalty scoring to push
// the raw score below zero even though the typical minScore is 0.
func scale(v, min, max float64) int {
	if v >= 0 {
		if max == 0 {
			return 0
		}
		return int(math.Round(v / max * 100))
	}
	absMin := min
	if absMin < 0 {
		absMin = -absMin
	}
	if absMin == 0 {
		return 0
	}
	return int(math.Round(v / absMin * 100))
}

func (s *ScoringSet) ScaledScore() int {
	return scale(s.Score(), s.MinScore(), s.MaxScore())
}

func (s *ScoringSet) ScaledCorrectness() int {
	return scale(float64(s.Correctness()), 0, float64(s.MaxCorrectness()))
}

// ScoreAsString renders the raw score with an explicit leading "+" for
// positive values, matching the host's score-display widgets.
func (s *ScoringSet) ScoreAsString() string {
	score := s.Score()
	if score > 0 {
		return fmt.Sprintf("+%s", trimFloat(score))
	}
	return trimFloat(score)
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// IsScoreIncluded and IsCompletionRequired gate a set's contribution to the
// course total: an unavailable or optional set never contributes, even if
// its own inclusion/requirement flags are set.
func (s *ScoringSet) IsScoreIncluded() bool {
	return s.IsAvailable() && !s.IsOptional() && s.includeScore
}

func (s *ScoringSet) IsCompletionRequired() bool {
	return s.IsAvailable() && !s.IsOptional() && s.requireCompletion
}

// IsComplete defaults to the anchor model's own completion flag; a set
// with no anchor model (an explicit model list) is complete when it has at
// least one available question and every available question is complete.
// TotalSet overrides it through isCompleteFn the same way it overrides
// isPassed through isPassedFn, since Set's query surface intentionally
// stops short of declaring IsComplete — only ScoringSet and AdaptModelSet
// carry it, each with its own formula — so OnUpdate cannot dispatch to an
// override through the generic self field and needs this closure instead.
func (s *ScoringSet) IsComplete() bool {
	if s.isCompleteFn != nil {
		return s.isCompleteFn(s)
	}
	if !s.hasModel {
		return len(s.AvailableQuestions()) > 0 && s.allQuestionsComplete()
	}
	return s.model.IsComplete()
}

func (s *ScoringSet) allQuestionsComplete() bool {
	for _, q := range s.AvailableQuestions() {
		if !q.IsComplete() {
			return false
		}
	}
	return true
}

func (s *ScoringSet) IsIncomplete() bool {
	return !s.IsComplete()
}

// IsPassed is the abstract hook. A ScoringSet built without IsPassedFn logs
// a MissingOverride error once per call and reports not-passed rather than
// panicking, since a query evaluator walking many sets should not die on
// one misconfigured set.
func (s *ScoringSet) IsPassed() bool {
	if s.isPassedFn == nil {
		if s.deps.Log != nil {
			s.deps.Log.WithScope("isPassed", s.id).Error("scoring: MissingOverride: isPassed has no override, defaulting to not-passed")
		}
		return false
	}
	return s.isPassedFn(s)
}

func (s *ScoringSet) IsFailed() bool {
	return s.IsComplete() && !s.IsPassed()
}

// CanReset defaults to false: a scoring set only resets when explicitly
// told to, never implicitly from a query predicate.
func (s *ScoringSet) CanReset() bool {
	if s.canResetFn == nil {
		return false
	}
	return s.canResetFn(s)
}

func (s *ScoringSet) Objective() *state.Objective {
	if s.objective != nil {
		return s.objective
	}
	if s.isClone() || s.deps.Storage == nil {
		s.objective = state.NewNoopObjective()
		return s.objective
	}
	s.objective = state.NewObjective(s.deps.Storage, s.id)
	return s.objective
}

// OnUpdate shadows LifecycleSet.OnUpdate: it runs the configured callback
// first (so the host has a chance to settle any derived state), then
// checks for completed/passed transitions and fires onCompleted/onPassed
// exactly once per transition, writing the objective record as it goes.
// The renderer never queues clones; a clone called directly runs the
// callback and then skips transition detection and objective writes.
func (s *ScoringSet) OnUpdate() error {
	if err := s.LifecycleSet.OnUpdate(); err != nil {
		return err
	}
	if s.isClone() {
		return nil
	}

	isComplete := s.IsComplete()
	if isComplete && !s.wasComplete {
		if err := s.onCompleted(); err != nil {
			return err
		}
	}
	s.wasComplete = isComplete

	isPassed := s.IsPassed()
	if isComplete && isPassed && !s.wasPassed {
		if err := s.onPassed(); err != nil {
			return err
		}
	}
	s.wasPassed = isComplete && isPassed

	return nil
}

// onCompleted writes both halves of the objective record per the design
// notes: the score triple and the completion status, whose success field
// already reflects isPassed at the moment completion was detected.
func (s *ScoringSet) onCompleted() error {
	s.publish("scoring:"+s.typ+":complete", "scoring:set:complete")
	if err := s.Objective().WriteScore(state.ScoreRecord{
		Score:    s.Score(),
		MinScore: s.MinScore(),
		MaxScore: s.MaxScore(),
	}); err != nil {
		return err
	}
	success := state.SuccessFailed
	if s.IsPassed() {
		success = state.SuccessPassed
	}
	return s.Objective().WriteStatus(state.StatusRecord{
		Completion: state.CompletionCompleted,
		Success:    success,
		HasSuccess: true,
	})
}

func (s *ScoringSet) onPassed() error {
	s.publish("scoring:"+s.typ+":passed", "scoring:set:passed")
	return nil
}

// DoReset clears the completion/pass transition tracking so the next
// OnUpdate can re-detect and re-fire onCompleted/onPassed; the content
// model's own reset (clearing scores and completion flags) is the host's
// responsibility, this only rearms the detector.
func (s *ScoringSet) DoReset() error {
	s.wasComplete = false
	s.wasPassed = false
	s.publish("scoring:"+s.typ+":reset", "scoring:set:reset")
	return nil
}

var _ LifecycleCapable = (*ScoringSet)(nil)
