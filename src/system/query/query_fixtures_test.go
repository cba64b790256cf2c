package query

import "github.com/oakleaf-learning/scoring-core/src/system/interfaces"

// fakeModel is a minimal interfaces.ContentModel double, independent of the
// sets package's own test fixture since that one is unexported to its
// package.
type fakeModel struct {
	id       string
	typ      string
	groups   map[string]bool
	parent   *fakeModel
	children []*fakeModel

	available bool
	complete  bool
}

func newModel(id string) *fakeModel {
	return &fakeModel{id: id, available: true, groups: map[string]bool{}}
}

func addChild(parent, child *fakeModel) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

func (m *fakeModel) ID() string            { return m.id }
func (m *fakeModel) Type() string          { return m.typ }
func (m *fakeModel) ComponentType() string { return "" }
func (m *fakeModel) IsTypeGroup(group string) bool {
	return m.groups[group]
}
func (m *fakeModel) Get(string) interface{}      { return nil }
func (m *fakeModel) IsAvailable() bool            { return m.available }
func (m *fakeModel) IsComplete() bool             { return m.complete }
func (m *fakeModel) IsInteractionComplete() bool  { return m.complete }
func (m *fakeModel) IsActive() bool               { return false }
func (m *fakeModel) IsVisited() bool              { return false }
func (m *fakeModel) IsCorrect() bool              { return false }
func (m *fakeModel) IsOptional() bool             { return false }
func (m *fakeModel) IsTrackable() bool            { return false }
func (m *fakeModel) IsAttached() bool             { return true }
func (m *fakeModel) Score() float64               { return 0 }
func (m *fakeModel) MinScore() float64            { return 0 }
func (m *fakeModel) MaxScore() float64            { return 0 }
func (m *fakeModel) TrackingPosition() string     { return "" }

func (m *fakeModel) Parent() (interfaces.ContentModel, bool) {
	if m.parent == nil {
		return nil, false
	}
	return m.parent, true
}

func (m *fakeModel) Children() []interfaces.ContentModel {
	out := make([]interfaces.ContentModel, len(m.children))
	for i, c := range m.children {
		out[i] = c
	}
	return out
}

func (m *fakeModel) AncestorModels(includeSelf bool) []interfaces.ContentModel {
	var out []interfaces.ContentModel
	if includeSelf {
		out = append(out, m)
	}
	cur := m.parent
	for cur != nil {
		out = append(out, cur)
		cur = cur.parent
	}
	return out
}

func (m *fakeModel) FindAncestor(typeGroup string) (interfaces.ContentModel, bool) {
	cur := m.parent
	for cur != nil {
		if cur.IsTypeGroup(typeGroup) {
			return cur, true
		}
		cur = cur.parent
	}
	return nil, false
}

func asModels(ms ...*fakeModel) []interfaces.ContentModel {
	out := make([]interfaces.ContentModel, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

type stubLookup struct {
	byID map[string]interfaces.ContentModel
}

func newStubLookup(models ...*fakeModel) *stubLookup {
	l := &stubLookup{byID: map[string]interfaces.ContentModel{}}
	for _, m := range models {
		l.byID[m.id] = m
	}
	return l
}

func (l *stubLookup) FindByID(id string) (interfaces.ContentModel, bool) {
	m, ok := l.byID[id]
	return m, ok
}

func (l *stubLookup) FindByTrackingPosition(string) (interfaces.ContentModel, bool) {
	return nil, false
}
