package sets

import "testing"

func Test_TotalSet_SumsAcrossScoringSets(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	course := newModel("course")
	article := newModel("a-1")
	addChild(course, article)
	q1 := question("q1", 7, 0, 10, true)
	q2 := question("q2", 6, 0, 10, true)
	addChild(article, q1)
	addChild(article, q2)

	MustNewScoringSet(ScoringConfig{
		Config:     Config{ID: "performance-0", Type: "performance", Models: asModels(q1, q2), HasModels: true},
		IsPassedFn: func(*ScoringSet) bool { return true },
	}, deps)

	total := MustNewTotalSet(ScoringConfig{Config: Config{Model: course}}, DefaultPassmark(), deps)

	if got := total.MaxScore(); got != 20 {
		t.Fatalf("expected total maxScore 20, got %v", got)
	}
	if got := total.Score(); got != 13 {
		t.Fatalf("expected total score 13, got %v", got)
	}
	if got := total.Correctness(); got != 2 {
		t.Fatalf("expected total correctness 2, got %v", got)
	}
}

func Test_TotalSet_IsComplete_RequiresAllCompletionSets(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	course := newModel("course")
	a1 := newModel("a-1")
	addChild(course, a1)

	MustNewScoringSet(ScoringConfig{
		Config:     Config{ID: "performance-0", Type: "performance", Model: a1},
		IsPassedFn: func(*ScoringSet) bool { return true },
	}, deps)

	total := MustNewTotalSet(ScoringConfig{Config: Config{Model: course}}, DefaultPassmark(), deps)

	if total.IsComplete() {
		t.Fatalf("expected total incomplete while its only completion set is incomplete")
	}
	a1.complete = true
	if !total.IsComplete() {
		t.Fatalf("expected total complete once every completion set is complete")
	}
}

func Test_TotalSet_Passmark_ScaledScoreAndCorrectness(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	course := newModel("course")
	article := newModel("a-1")
	addChild(course, article)
	// scaled score 70 (14/20), scaled correctness 1/2 questions correct = 50%
	q1 := question("q1", 7, 0, 10, true)
	q2 := question("q2", 7, 0, 10, false)
	addChild(article, q1)
	addChild(article, q2)

	MustNewScoringSet(ScoringConfig{
		Config: Config{ID: "performance-0", Type: "performance", Models: asModels(q1, q2), HasModels: true},
	}, deps)

	passmark := Passmark{IsEnabled: true, Score: 60, Correctness: 60, IsScaled: true}
	total := MustNewTotalSet(ScoringConfig{Config: Config{Model: course}}, passmark, deps)

	if total.IsPassed() {
		t.Fatalf("expected not passed: correctness 50 < passmark 60")
	}
}

func Test_TotalSet_Passmark_PassesWhenBothThresholdsMet(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	course := newModel("course")
	article := newModel("a-1")
	addChild(course, article)
	q1 := question("q1", 7, 0, 10, true)
	q2 := question("q2", 7, 0, 10, true)
	addChild(article, q1)
	addChild(article, q2)

	MustNewScoringSet(ScoringConfig{
		Config: Config{ID: "performance-0", Type: "performance", Models: asModels(q1, q2), HasModels: true},
	}, deps)

	passmark := Passmark{IsEnabled: true, Score: 60, Correctness: 60, IsScaled: true}
	total := MustNewTotalSet(ScoringConfig{Config: Config{Model: course}}, passmark, deps)

	if !total.IsPassed() {
		t.Fatalf("expected passed: scaled score 70 >= 60 and scaled correctness 100 >= 60")
	}
}

func Test_TotalSet_OnUpdate_EmitsBareCompleteAndPassEvents(t *testing.T) {
	deps, _, bus, _, _ := newDeps()
	course := newModel("course")
	a1 := newModel("a-1")
	addChild(course, a1)
	a1.complete = true

	MustNewScoringSet(ScoringConfig{
		Config:     Config{ID: "performance-0", Type: "performance", Model: a1},
		IsPassedFn: func(*ScoringSet) bool { return true },
	}, deps)

	passmark := Passmark{IsEnabled: true, Score: 0, Correctness: 0, IsScaled: true}
	total := MustNewTotalSet(ScoringConfig{Config: Config{Model: course}}, passmark, deps)

	bus.published = nil
	if err := total.OnUpdate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsTopic(bus.published, "scoring:complete") {
		t.Fatalf("expected bare scoring:complete to fire, got %v", bus.published)
	}
	if !containsTopic(bus.published, "scoring:pass") {
		t.Fatalf("expected bare scoring:pass to fire, got %v", bus.published)
	}
}

func Test_TotalSet_IsFailed_FalseWhenCanReset(t *testing.T) {
	deps, _, _, _, _ := newDeps()
	course := newModel("course")
	a1 := newModel("a-1")
	addChild(course, a1)
	a1.complete = true

	MustNewScoringSet(ScoringConfig{
		Config:     Config{ID: "performance-0", Type: "performance", Model: a1},
		IsPassedFn: func(*ScoringSet) bool { return false },
		CanResetFn: func(*ScoringSet) bool { return true },
	}, deps)

	passmark := Passmark{IsEnabled: true, Score: 100, Correctness: 100, IsScaled: true}
	total := MustNewTotalSet(ScoringConfig{Config: Config{Model: course}}, passmark, deps)

	if total.IsFailed() {
		t.Fatalf("expected a resettable total to never read as failed")
	}
	if !total.CanReset() {
		t.Fatalf("expected total.CanReset to reflect the member's CanReset")
	}
}
