package sets

import (
	"encoding/json"
	"errors"

	"github.com/oakleaf-learning/scoring-core/src/system/archivist"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/registry"
)

// fakeModel is the sets package's own in-memory ContentModel double,
// mirroring hierarchy's fakeModel but with the mutable score/correctness/
// completion fields the scoring tests need to flip mid-test.
type fakeModel struct {
	id            string
	typ           string
	componentType string
	groups        map[string]bool

	available            bool
	complete             bool
	interactionComplete  bool
	active               bool
	visited              bool
	correct              bool
	optional             bool
	trackable            bool
	attached             bool

	score    float64
	minScore float64
	maxScore float64

	parent   *fakeModel
	children []*fakeModel
}

func newModel(id string) *fakeModel {
	return &fakeModel{id: id, available: true, attached: true}
}

func (m *fakeModel) ID() string           { return m.id }
func (m *fakeModel) Type() string         { return m.typ }
func (m *fakeModel) ComponentType() string { return m.componentType }
func (m *fakeModel) IsTypeGroup(group string) bool {
	return m.groups != nil && m.groups[group]
}
func (m *fakeModel) Get(string) interface{}      { return nil }
func (m *fakeModel) IsAvailable() bool           { return m.available }
func (m *fakeModel) IsComplete() bool            { return m.complete }
func (m *fakeModel) IsInteractionComplete() bool { return m.interactionComplete }
func (m *fakeModel) IsActive() bool              { return m.active }
func (m *fakeModel) IsVisited() bool             { return m.visited }
func (m *fakeModel) IsCorrect() bool             { return m.correct }
func (m *fakeModel) IsOptional() bool            { return m.optional }
func (m *fakeModel) IsTrackable() bool           { return m.trackable }
func (m *fakeModel) IsAttached() bool            { return m.attached }
func (m *fakeModel) Score() float64              { return m.score }
func (m *fakeModel) MinScore() float64           { return m.minScore }
func (m *fakeModel) MaxScore() float64           { return m.maxScore }
func (m *fakeModel) TrackingPosition() string    { return m.id }

func (m *fakeModel) FindAncestor(group string) (interfaces.ContentModel, bool) {
	cur := m.parent
	for cur != nil {
		if cur.IsTypeGroup(group) {
			return cur, true
		}
		cur = cur.parent
	}
	return nil, false
}

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

func addChild(parent *fakeModel, child *fakeModel) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

func asModels(list ...*fakeModel) []interfaces.ContentModel {
	out := make([]interfaces.ContentModel, len(list))
	for i, m := range list {
		out[i] = m
	}
	return out
}

// question builds a fakeModel that registers as a member of the "question"
// type group with the given score triple.
func question(id string, score, min, max float64, correct bool) *fakeModel {
	m := newModel(id)
	m.typ = "component"
	m.componentType = "mcq"
	m.groups = map[string]bool{"question": true, "component": true}
	m.score, m.minScore, m.maxScore = score, min, max
	m.correct = correct
	m.complete = true
	return m
}

type stubBus struct {
	published []string
}

func (b *stubBus) Publish(topic string, payload interface{}) {
	b.published = append(b.published, topic)
}

func (b *stubBus) Subscribe(topics string, handler func(payload interface{})) func() {
	return func() {}
}

type stubLookup struct {
	byID map[string]interfaces.ContentModel
}

func newStubLookup() *stubLookup {
	return &stubLookup{byID: map[string]interfaces.ContentModel{}}
}

func (l *stubLookup) add(m *fakeModel) {
	l.byID[m.id] = m
}

func (l *stubLookup) FindByID(id string) (interfaces.ContentModel, bool) {
	m, ok := l.byID[id]
	return m, ok
}

func (l *stubLookup) FindByTrackingPosition(string) (interfaces.ContentModel, bool) {
	return nil, false
}

type memStorage struct {
	ready bool
	data  map[string]map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{ready: true, data: map[string]map[string]string{}}
}

func (m *memStorage) Ready() bool { return m.ready }

func (m *memStorage) Get(namespace, key string) (string, bool) {
	ns, ok := m.data[namespace]
	if !ok {
		return "", false
	}
	v, ok := ns[key]
	return v, ok
}

func (m *memStorage) Set(namespace, key, value string) error {
	ns, ok := m.data[namespace]
	if !ok {
		ns = map[string]string{}
		m.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *memStorage) Serialize(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *memStorage) Deserialize(s string, out interface{}) error {
	if s == "" {
		return errors.New("empty value")
	}
	return json.Unmarshal([]byte(s), out)
}

type discardLogger struct{}

func (discardLogger) Println(v ...interface{}) {}

func newDeps() (Deps, *registry.Registry, *stubBus, *stubLookup, *memStorage) {
	bus := &stubBus{}
	lookup := newStubLookup()
	storage := newMemStorage()
	reg := registry.New(bus)
	log := archivist.New(&archivist.Config{Logger: discardLogger{}, LogLevel: archivist.LEVEL_FATAL})
	return Deps{Registry: reg, Lookup: lookup, Bus: bus, Storage: storage, Log: log}, reg, bus, lookup, storage
}
