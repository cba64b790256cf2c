package fixture

import (
	"fmt"
	"sync/atomic"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/gits/src/transport"

	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

// instanceSeq generates unique gits instance names, counter-based since
// nothing here needs cryptographic uniqueness, only non-collision between
// trees built in the same process.
var instanceSeq int64

func nextInstanceName() string {
	n := atomic.AddInt64(&instanceSeq, 1)
	return fmt.Sprintf("scoring-fixture-%d", n)
}

// Tree owns a dedicated gits instance seeded from a Spec and the Model
// tree read back from it. It implements interfaces.ContentModelLookup.
type Tree struct {
	g      *gits.Gits
	root   *Model
	byID   map[string]*Model
	byTPos map[string]*Model
	bus    interfaces.EventBus
}

// Build maps spec into a fresh gits instance via nested ChildRelations,
// reads the root entity straight back out through a query, and builds the
// Model tree from that result.
// Reading immediately after writing, once, avoids re-querying gits on
// every Children()/Parent() call; mutations after Build keep the in-memory
// tree and the gits copy in sync through Model.SetAttr.
func Build(spec *Spec, bus interfaces.EventBus) (*Tree, error) {
	instanceName := nextInstanceName()
	g := gits.NewInstance(instanceName)
	gits.SetDefault(instanceName)

	g.MapData(toEntity(spec))

	qry := gits.NewQuery().Read(spec.Type).Match("Value", "==", spec.ID)
	result := g.Query().Execute(qry)
	if result.Amount == 0 {
		return nil, fmt.Errorf("fixture: gits returned no entity for root %q of type %q after mapping", spec.ID, spec.Type)
	}

	t := &Tree{
		g:      g,
		byID:   make(map[string]*Model),
		byTPos: make(map[string]*Model),
		bus:    bus,
	}
	t.root = t.adopt(result.Entities[0], nil)
	return t, nil
}

func toEntity(s *Spec) transport.TransportEntity {
	e := transport.TransportEntity{
		ID:         -1,
		Type:       s.Type,
		Value:      s.ID,
		Context:    "content",
		Properties: s.properties(),
	}
	for _, child := range s.Children {
		e.ChildRelations = append(e.ChildRelations, transport.TransportRelation{Target: toEntity(child)})
	}
	return e
}

// adopt builds a Model for entity and recurses into entity.Children(),
// indexing every node by id and tracking position as it goes.
func (t *Tree) adopt(entity transport.TransportEntity, parent *Model) *Model {
	m := &Model{
		tree:   t,
		gitsID: entity.ID,
		id:     entity.Value,
		typ:    entity.Type,
		parent: parent,
		props:  entity.Properties,
	}
	t.byID[m.id] = m
	if pos := m.TrackingPosition(); pos != "" {
		t.byTPos[pos] = m
	}
	for _, child := range entity.Children() {
		m.children = append(m.children, t.adopt(child, m))
	}
	return m
}

// Root returns the fixture's top-level model (conventionally the course).
func (t *Tree) Root() *Model { return t.root }

func (t *Tree) FindByID(id string) (interfaces.ContentModel, bool) {
	m, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return m, true
}

func (t *Tree) FindByTrackingPosition(pos string) (interfaces.ContentModel, bool) {
	m, ok := t.byTPos[pos]
	if !ok {
		return nil, false
	}
	return m, true
}

var _ interfaces.ContentModelLookup = (*Tree)(nil)
