package sets

import "testing"

func Test_ScoringSet_SumsOverAvailableQuestions(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	q1 := question("q1", 8, 0, 10, true)
	q2 := question("q2", 4, 0, 10, false)
	unavailable := question("q3", 10, 0, 10, true)
	unavailable.available = false

	s := MustNewScoringSet(ScoringConfig{Config: Config{
		Type: "performance", Models: asModels(q1, q2, unavailable), HasModels: true,
	}}, deps)

	if got := s.MinScore(); got != 0 {
		t.Fatalf("expected minScore 0, got %v", got)
	}
	if got := s.MaxScore(); got != 20 {
		t.Fatalf("expected maxScore 20 (unavailable question excluded), got %v", got)
	}
	if got := s.Score(); got != 12 {
		t.Fatalf("expected score 12, got %v", got)
	}
	if got := s.Correctness(); got != 1 {
		t.Fatalf("expected correctness 1, got %v", got)
	}
	if got := s.MaxCorrectness(); got != 2 {
		t.Fatalf("expected maxCorrectness 2, got %v", got)
	}
}

func Test_ScoringSet_ScaledScoreAndCorrectness(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	q1 := question("q1", 7, 0, 10, true)

	s := MustNewScoringSet(ScoringConfig{Config: Config{
		Type: "performance", Models: asModels(q1), HasModels: true,
	}}, deps)

	if got := s.ScaledScore(); got != 70 {
		t.Fatalf("expected scaledScore 70, got %v", got)
	}
	if got := s.ScaledCorrectness(); got != 100 {
		t.Fatalf("expected scaledCorrectness 100, got %v", got)
	}
}

func Test_Scale_NegativeValueUsesAbsMin(t *testing.T) {
	if got := scale(-5, -10, 0); got != -50 {
		t.Fatalf("expected -50, got %d", got)
	}
	if got := scale(10, 0, 20); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	if got := scale(0, 0, 0); got != 0 {
		t.Fatalf("expected 0 when max is 0, got %d", got)
	}
}

func Test_ScoringSet_IsScoreIncluded_RequiresAvailableAndNotOptional(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	article := newModel("a-1")

	s := MustNewScoringSet(ScoringConfig{Config: Config{
		Type: "performance", Model: article,
	}, HasIncludeScore: true, IncludeScore: true}, deps)

	if !s.IsScoreIncluded() {
		t.Fatalf("expected score included for an available, non-optional set")
	}
	article.available = false
	if s.IsScoreIncluded() {
		t.Fatalf("expected score not included once the anchor model is unavailable")
	}
	article.available = true
	article.optional = true
	if s.IsScoreIncluded() {
		t.Fatalf("expected score not included once the anchor model is optional")
	}
}

func Test_ScoringSet_IsPassed_MissingOverrideDefaultsFalse(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	s := MustNewScoringSet(ScoringConfig{Config: Config{Type: "performance"}}, deps)
	if s.IsPassed() {
		t.Fatalf("expected isPassed to default to false without an override")
	}
}

func Test_ScoringSet_IsFailed_CompleteButNotPassed(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	article := newModel("a-1")
	article.complete = true

	s := MustNewScoringSet(ScoringConfig{
		Config:     Config{Type: "performance", Model: article},
		IsPassedFn: func(*ScoringSet) bool { return false },
	}, deps)

	if !s.IsFailed() {
		t.Fatalf("expected isFailed once complete and not passed")
	}
}

func Test_ScoringSet_OnUpdate_FiresCompletedAndPassedOnce(t *testing.T) {
	deps, _, bus, _, storage := newDeps()
	article := newModel("a-1")

	passed := false
	s := MustNewScoringSet(ScoringConfig{
		Config:     Config{ID: "performance-0", Type: "performance", Model: article},
		IsPassedFn: func(*ScoringSet) bool { return passed },
	}, deps)

	article.complete = true
	if err := s.OnUpdate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsTopic(bus.published, "scoring:performance:complete") {
		t.Fatalf("expected scoring:performance:complete to fire, got %v", bus.published)
	}
	if containsTopic(bus.published, "scoring:performance:passed") {
		t.Fatalf("did not expect scoring:performance:passed before isPassed becomes true")
	}

	bus.published = nil
	passed = true
	if err := s.OnUpdate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsTopic(bus.published, "scoring:performance:passed") {
		t.Fatalf("expected scoring:performance:passed to fire, got %v", bus.published)
	}

	bus.published = nil
	if err := s.OnUpdate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if containsTopic(bus.published, "scoring:performance:complete") || containsTopic(bus.published, "scoring:performance:passed") {
		t.Fatalf("expected no repeat emissions on an unchanged update, got %v", bus.published)
	}

	if _, ok := storage.Get("objectiveStatus", "performance-0"); !ok {
		t.Fatalf("expected objective status to have been written")
	}
}

func Test_ScoringSet_Intersect_CloneSkipsEmissionsAndStorage(t *testing.T) {
	deps, _, bus, _, _ := newDeps()
	article := newModel("a-1")
	article.complete = true

	parent := MustNewAdaptModelSet(Config{ID: "adapt-a1", Model: article}, deps)
	s := MustNewScoringSet(ScoringConfig{
		Config:     Config{ID: "performance-0", Type: "performance", Model: article},
		IsPassedFn: func(*ScoringSet) bool { return true },
	}, deps)

	clone, ok := s.Intersect(parent).(*ScoringSet)
	if !ok {
		t.Fatalf("expected Intersect to return a *ScoringSet")
	}
	bus.published = nil
	if err := clone.OnUpdate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected a clone's OnUpdate to emit nothing, got %v", bus.published)
	}
	if clone.Objective() == nil {
		t.Fatalf("expected clone to still return a usable (noop) Objective")
	}
}

func containsTopic(published []string, topic string) bool {
	for _, p := range published {
		if p == topic {
			return true
		}
	}
	return false
}
