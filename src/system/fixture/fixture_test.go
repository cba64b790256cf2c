package fixture

import (
	"testing"

	"github.com/oakleaf-learning/scoring-core/src/system/bus"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

func buildSmallTree(t *testing.T, b interfaces.EventBus) *Tree {
	t.Helper()
	q := Available("q-1", "component").WithTypeGroups("question", "component").WithScore(5, 0, 10)
	block := Available("b-1", "block").WithChildren(q)
	article := Available("a-1", "article").WithChildren(block)
	article.TrackingPosition = "track-a-1"
	course := Available("course", "course").WithChildren(article)

	tree, err := Build(course, b)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func Test_Build_ReadsBackTheWholeTreeByID(t *testing.T) {
	tree := buildSmallTree(t, nil)

	for _, id := range []string{"course", "a-1", "b-1", "q-1"} {
		if _, ok := tree.FindByID(id); !ok {
			t.Fatalf("expected to find model %q after Build", id)
		}
	}
	if _, ok := tree.FindByID("does-not-exist"); ok {
		t.Fatalf("expected no model for an unknown id")
	}
}

func Test_Build_ParentChildLinksMatchTheDeclaredTree(t *testing.T) {
	tree := buildSmallTree(t, nil)

	article, _ := tree.FindByID("a-1")
	block, _ := tree.FindByID("b-1")

	children := article.Children()
	if len(children) != 1 || children[0].ID() != "b-1" {
		t.Fatalf("expected a-1's only child to be b-1, got %+v", children)
	}

	parent, ok := block.Parent()
	if !ok || parent.ID() != "a-1" {
		t.Fatalf("expected b-1's parent to be a-1")
	}
}

func Test_FindByTrackingPosition_ResolvesTheConfiguredPosition(t *testing.T) {
	tree := buildSmallTree(t, nil)

	m, ok := tree.FindByTrackingPosition("track-a-1")
	if !ok || m.ID() != "a-1" {
		t.Fatalf("expected track-a-1 to resolve to a-1, got %+v ok=%v", m, ok)
	}

	q, _ := tree.FindByID("q-1")
	if q.TrackingPosition() != "q-1" {
		t.Fatalf("expected a node with no explicit tracking position to default to its own id")
	}
}

func Test_Model_AttributesReflectTheDeclaredSpec(t *testing.T) {
	tree := buildSmallTree(t, nil)
	q, _ := tree.FindByID("q-1")

	if !q.IsAvailable() || !q.IsAttached() {
		t.Fatalf("expected Available() to set both isAvailable and isAttached")
	}
	if q.Score() != 5 || q.MaxScore() != 10 {
		t.Fatalf("expected score/maxScore to round-trip, got score=%v max=%v", q.Score(), q.MaxScore())
	}
	if !q.IsTypeGroup("question") || !q.IsTypeGroup("component") {
		t.Fatalf("expected q-1 to carry both declared type groups")
	}
	if q.IsTypeGroup("presentation-component") {
		t.Fatalf("expected q-1 not to carry an undeclared type group")
	}
}

func Test_SetAttr_UpdatesTheInMemoryModelAndPublishesChangeEvents(t *testing.T) {
	b := bus.New()
	tree := buildSmallTree(t, b)
	q, _ := tree.FindByID("q-1")
	model := q.(*Model)

	var direct, bubbled int
	b.Subscribe("change:isComplete", func(payload interface{}) { direct++ })
	b.Subscribe("bubble:change:isComplete", func(payload interface{}) { bubbled++ })

	if model.IsComplete() {
		t.Fatalf("expected q-1 to start incomplete")
	}
	if err := model.SetAttr("isComplete", true); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
	if !model.IsComplete() {
		t.Fatalf("expected SetAttr to update the in-memory attribute immediately")
	}
	if direct != 1 || bubbled != 1 {
		t.Fatalf("expected exactly one direct and one bubbled change event, got direct=%d bubbled=%d", direct, bubbled)
	}
}

func Test_SetAttr_WithoutABusIsStillSafe(t *testing.T) {
	tree := buildSmallTree(t, nil)
	q, _ := tree.FindByID("q-1")
	if err := q.(*Model).SetAttr("isCorrect", true); err != nil {
		t.Fatalf("SetAttr without a bus should not error: %v", err)
	}
}

func Test_AncestorModels_WalksUpToTheRoot(t *testing.T) {
	tree := buildSmallTree(t, nil)
	q, _ := tree.FindByID("q-1")

	ancestors := q.AncestorModels(false)
	if len(ancestors) != 3 {
		t.Fatalf("expected 3 ancestors (block, article, course), got %d: %+v", len(ancestors), ancestors)
	}
	if ancestors[len(ancestors)-1].ID() != "course" {
		t.Fatalf("expected the course to be the last ancestor")
	}
}
