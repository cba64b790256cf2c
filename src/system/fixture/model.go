package fixture

import (
	"strconv"
	"strings"

	"github.com/voodooEntity/gits/src/transport"

	"github.com/oakleaf-learning/scoring-core/src/system/hierarchy"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

// Model is one node of a fixture Tree's content-model graph, backed by the
// gits entity it was read back from. Its mutable attributes (isAvailable,
// isInteractionComplete, ...) live both here and, after every SetAttr, in
// the owning gits instance, so a host could restore a fixture's state
// purely from gits without ever touching Model directly.
type Model struct {
	tree   *Tree
	gitsID int
	id     string
	typ    string
	parent *Model
	children []*Model
	props  map[string]string
}

func (m *Model) ID() string   { return m.id }
func (m *Model) Type() string { return m.typ }

func (m *Model) ComponentType() string { return m.props[attrComponentType] }

func (m *Model) IsTypeGroup(group string) bool {
	for _, g := range strings.Split(m.props[attrTypeGroups], ",") {
		if g == group {
			return true
		}
	}
	return false
}

func (m *Model) Get(attr string) interface{} {
	raw, ok := m.props[attr]
	if !ok {
		return nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func (m *Model) boolAttr(name string) bool {
	v, _ := strconv.ParseBool(m.props[name])
	return v
}

func (m *Model) floatAttr(name string) float64 {
	v, _ := strconv.ParseFloat(m.props[name], 64)
	return v
}

func (m *Model) IsAvailable() bool           { return m.boolAttr(attrIsAvailable) }
func (m *Model) IsComplete() bool            { return m.boolAttr(attrIsComplete) }
func (m *Model) IsInteractionComplete() bool { return m.boolAttr(attrIsInteractionComplete) }
func (m *Model) IsActive() bool              { return m.boolAttr(attrIsActive) }
func (m *Model) IsVisited() bool             { return m.boolAttr(attrIsVisited) }
func (m *Model) IsCorrect() bool             { return m.boolAttr(attrIsCorrect) }
func (m *Model) IsOptional() bool            { return m.boolAttr(attrIsOptional) }
func (m *Model) IsTrackable() bool           { return m.boolAttr(attrIsTrackable) }
func (m *Model) IsAttached() bool            { return m.boolAttr(attrIsAttached) }

func (m *Model) Score() float64    { return m.floatAttr(attrScore) }
func (m *Model) MinScore() float64 { return m.floatAttr(attrMinScore) }
func (m *Model) MaxScore() float64 { return m.floatAttr(attrMaxScore) }

func (m *Model) Parent() (interfaces.ContentModel, bool) {
	if m.parent == nil {
		return nil, false
	}
	return m.parent, true
}

func (m *Model) Children() []interfaces.ContentModel {
	out := make([]interfaces.ContentModel, len(m.children))
	for i, c := range m.children {
		out[i] = c
	}
	return out
}

func (m *Model) AncestorModels(includeSelf bool) []interfaces.ContentModel {
	return hierarchy.Ancestors(m, includeSelf)
}

func (m *Model) TrackingPosition() string {
	if pos := m.props[attrTrackingPosition]; pos != "" {
		return pos
	}
	return m.id
}

// FindAncestor walks the chain above this model (self excluded) for the
// nearest node tagged with typeGroup, matching hierarchy.Ancestors'
// includeSelf=false convention.
func (m *Model) FindAncestor(typeGroup string) (interfaces.ContentModel, bool) {
	cur := m.parent
	for cur != nil {
		if cur.IsTypeGroup(typeGroup) {
			return cur, true
		}
		cur = cur.parent
	}
	return nil, false
}

// SetAttr updates one mutable attribute both in-memory and in the backing
// gits instance (an upsert keyed by the entity's already-assigned gits id,
// leaving relations untouched), then publishes a "change:<attr>" event if
// the Tree was built with a bus. formatAttr controls how v is rendered into
// the flat string property gits stores.
func (m *Model) SetAttr(name string, v interface{}) error {
	m.props[name] = formatAttr(v)
	if m.tree.g != nil {
		m.tree.g.MapData(transport.TransportEntity{
			ID:         m.gitsID,
			Type:       m.typ,
			Value:      m.id,
			Context:    "content",
			Properties: m.props,
		})
	}
	if m.tree.bus != nil {
		m.tree.bus.Publish("change:"+name, interfaces.ChangeEvent{Model: m, Attribute: name})
		m.tree.bus.Publish("bubble:change:"+name, interfaces.ChangeEvent{Model: m, Attribute: name})
	}
	return nil
}

func formatAttr(v interface{}) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	default:
		return ""
	}
}

var _ interfaces.ContentModel = (*Model)(nil)
