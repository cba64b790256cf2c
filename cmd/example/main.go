package main

import (
	"log"
	"os"

	"github.com/oakleaf-learning/scoring-core/src/scoring"
	"github.com/oakleaf-learning/scoring-core/src/system/archivist"
	"github.com/oakleaf-learning/scoring-core/src/system/bus"
	"github.com/oakleaf-learning/scoring-core/src/system/fixture"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/offlinestorage"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

func main() {
	logger := log.New(os.Stdout, "", 0)
	archivistLog := archivist.New(&archivist.Config{
		Logger:   logger,
		LogLevel: archivist.LEVEL_INFO,
	})

	eventBus := bus.New()
	storage := offlinestorage.New()

	tree := buildCourse(eventBus)

	eventBus.Subscribe("change:isAvailable change:isInteractionComplete change:isActive change:isVisited", func(payload interface{}) {
		if ev, ok := payload.(interfaces.ChangeEvent); ok {
			logger.Println("content change:", ev.Attribute, "on", ev.Model.ID())
		}
	})

	ctx := scoring.New(scoring.DefaultConfiguration(), tree, eventBus, storage, noopWait{}, archivistLog, 30)

	course, _ := tree.FindByID("course")
	article, _ := tree.FindByID("a-300")

	if _, err := ctx.RegisterAdaptModelSet(sets.Config{ID: "a-300", Model: article}); err != nil {
		log.Fatal(err)
	}
	if _, err := ctx.RegisterScoringSet(sets.ScoringConfig{
		Config: sets.Config{ID: "performance", Model: course},
		IsPassedFn: func(s *sets.ScoringSet) bool {
			return s.IsComplete() && s.ScaledScore() >= 60 && s.ScaledCorrectness() >= 60
		},
	}); err != nil {
		log.Fatal(err)
	}
	if _, err := ctx.BuildTotal(course); err != nil {
		log.Fatal(err)
	}

	if err := ctx.Start(); err != nil {
		log.Fatal(err)
	}

	result, ok, err := ctx.GetSubsetByQuery("#a-300 #performance")
	if err != nil {
		log.Fatal(err)
	}
	if ok {
		if scored, ok := result.(interface{ Score() float64 }); ok {
			logger.Println("score under a-300:", scored.Score())
		}
	}

	logger.Println("total score:", ctx.Total().Score(), "passed:", ctx.Total().IsPassed())

	articleModel := article.(*fixture.Model)
	if err := articleModel.SetAttr("isComplete", true); err != nil {
		log.Fatal(err)
	}
	if err := articleModel.SetAttr("isInteractionComplete", true); err != nil {
		log.Fatal(err)
	}

	logger.Println("total passed after completion:", ctx.Total().IsPassed())
}

// buildCourse is the same S1-shaped tree the tests use: one article with
// two blocks, each holding a scored question.
func buildCourse(b interfaces.EventBus) *fixture.Tree {
	q1 := fixture.Available("q-1", "component").WithTypeGroups("question", "component").WithScore(10, 0, 10)
	q1.IsComplete, q1.IsCorrect = true, true
	q2 := fixture.Available("q-2", "component").WithTypeGroups("question", "component").WithScore(8, 0, 10)
	q2.IsComplete, q2.IsCorrect = true, true

	block1 := fixture.Available("b-1", "block").WithChildren(q1)
	block2 := fixture.Available("b-2", "block").WithChildren(q2)
	article := fixture.Available("a-300", "article").WithChildren(block1, block2)
	course := fixture.Available("course", "course").WithChildren(article)

	tree, err := fixture.Build(course, b)
	if err != nil {
		log.Fatal(err)
	}
	return tree
}

// noopWait is the example's stand-in for the host's real wait port; a
// production host backs this with whatever blocks its own runtime loop
// until the scoring batch settles.
type noopWait struct{}

func (noopWait) Take()    {}
func (noopWait) Release() {}
