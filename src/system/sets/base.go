package sets

import (
	"github.com/oakleaf-learning/scoring-core/src/system/hierarchy"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/registry"
)

// Config is the constructor payload shared by every concrete set type.
type Config struct {
	ID                 string
	Type               string
	Title              string
	Model              interfaces.ContentModel
	Models             []interfaces.ContentModel
	HasModels          bool
	IntersectionParent Set
	Order              int
	HasOrder           bool
}

// BaseSet implements IntersectionSet. Every concrete type embeds it and,
// where its membership formula differs from the default (currently only
// TotalSet), assigns effectiveModelsFn in its own constructor.
type BaseSet struct {
	self Set // set once, after the embedding concrete struct exists

	id                 string
	typ                string
	title              string
	model              interfaces.ContentModel
	hasModel           bool
	explicitModels     []interfaces.ContentModel
	hasExplicitModels  bool
	intersectionParent Set
	order              int

	deps Deps

	effectiveModelsFn func() []interfaces.ContentModel
}

// newBaseSet performs the shared parts of construction: id generation (for
// root sets only) and registry registration deferred to the caller, who
// must call setSelf once the owning concrete struct exists.
func newBaseSet(cfg Config, deps Deps, defaultOrder int) (*BaseSet, error) {
	b := &BaseSet{
		typ:                cfg.Type,
		title:              cfg.Title,
		model:              cfg.Model,
		hasModel:           cfg.Model != nil,
		explicitModels:     cfg.Models,
		hasExplicitModels:  cfg.HasModels,
		intersectionParent: cfg.IntersectionParent,
		deps:               deps,
	}

	if cfg.HasOrder {
		b.order = cfg.Order
	} else {
		b.order = defaultOrder
	}

	b.id = cfg.ID
	if b.id == "" && b.intersectionParent == nil {
		prefix := cfg.Type
		if prefix == "" {
			if b.hasModel {
				prefix = cfg.Model.ID()
			} else {
				prefix = "unknown"
				if deps.Log != nil {
					deps.Log.Error("sets: cannot determine id prefix, neither type nor modelId present; defaulting to 'unknown'")
				}
			}
		}
		b.id = deps.Registry.GenerateID(prefix)
	}

	return b, nil
}

// setSelf records the owning concrete Set so that self-referential
// operations (Intersect-based subset lookups, SubsetPath) can build
// correctly typed results without virtual dispatch through embedding.
func (b *BaseSet) setSelf(self Set) {
	b.self = self
}

// register adds self to the registry iff this is a root set (no
// intersection parent). Intersected clones must never call this.
func (b *BaseSet) register() error {
	if b.intersectionParent != nil {
		return nil
	}
	return b.deps.Registry.Register(b.self)
}

func (b *BaseSet) ID() string    { return b.id }
func (b *BaseSet) Type() string  { return b.typ }
func (b *BaseSet) Title() string { return b.title }
func (b *BaseSet) Order() int    { return b.order }

func (b *BaseSet) Model() (interfaces.ContentModel, bool) { return b.model, b.hasModel }

func (b *BaseSet) IntersectionParent() (Set, bool) {
	return b.intersectionParent, b.intersectionParent != nil
}

// Models is the set's raw, unfiltered model list: the explicit list if one
// was given, otherwise the anchor model's direct children (detached
// children included — availability filtering happens downstream in
// AvailableModels, not here).
func (b *BaseSet) Models() []interfaces.ContentModel {
	if b.hasExplicitModels {
		return b.explicitModels
	}
	if b.hasModel {
		return b.model.Children()
	}
	return nil
}

func (b *BaseSet) EffectiveModels() []interfaces.ContentModel {
	if b.effectiveModelsFn != nil {
		return b.effectiveModelsFn()
	}
	return b.defaultEffectiveModels()
}

func (b *BaseSet) defaultEffectiveModels() []interfaces.ContentModel {
	models := hierarchy.Unique(b.self.Models())
	if b.intersectionParent == nil {
		return models
	}
	return hierarchy.FilterByIntersectingHierarchy(models, b.intersectionParent.EffectiveModels())
}

func (b *BaseSet) AvailableModels() []interfaces.ContentModel {
	return hierarchy.FilterAvailable(b.self.EffectiveModels())
}

func collectByGroup(models []interfaces.ContentModel, group string) []interfaces.ContentModel {
	var out []interfaces.ContentModel
	seen := map[string]bool{}
	var walk func(m interfaces.ContentModel)
	walk = func(m interfaces.ContentModel) {
		if m.IsTypeGroup(group) && !seen[m.ID()] {
			seen[m.ID()] = true
			out = append(out, m)
		}
		for _, c := range m.Children() {
			walk(c)
		}
	}
	for _, m := range models {
		walk(m)
	}
	return out
}

func (b *BaseSet) Components() []interfaces.ContentModel {
	return collectByGroup(b.self.EffectiveModels(), TypeGroupComponent)
}

func (b *BaseSet) AvailableComponents() []interfaces.ContentModel {
	return hierarchy.FilterAvailable(b.self.Components())
}

func (b *BaseSet) Questions() []interfaces.ContentModel {
	return collectByGroup(b.self.EffectiveModels(), TypeGroupQuestion)
}

func (b *BaseSet) AvailableQuestions() []interfaces.ContentModel {
	return hierarchy.FilterAvailable(b.self.Questions())
}

func (b *BaseSet) PresentationComponents() []interfaces.ContentModel {
	return collectByGroup(b.self.EffectiveModels(), TypeGroupPresentationComponent)
}

func (b *BaseSet) TrackableComponents() []interfaces.ContentModel {
	var out []interfaces.ContentModel
	for _, c := range b.self.Components() {
		if c.IsTrackable() {
			out = append(out, c)
		}
	}
	return out
}

func (b *BaseSet) IsEnabled() bool {
	return b.self.IsAvailable()
}

func (b *BaseSet) IsOptional() bool {
	if !b.hasModel {
		return false
	}
	return b.model.IsOptional()
}

func (b *BaseSet) IsAvailable() bool {
	if !b.hasModel {
		return true
	}
	return b.model.IsAvailable()
}

func (b *BaseSet) IsPopulated() bool {
	return len(b.self.Models()) > 0
}

func (b *BaseSet) IsNotPopulated() bool {
	return !b.self.IsPopulated()
}

func (b *BaseSet) IsModelAvailableInHierarchy() bool {
	if !b.hasModel {
		return false
	}
	return hierarchy.IsAvailableInHierarchy(b.model)
}

func (b *BaseSet) SubsetPath() []Set {
	var chain []Set
	cur := b.self
	for {
		chain = append([]Set{cur}, chain...)
		p, ok := cur.IntersectionParent()
		if !ok {
			break
		}
		cur = p
	}
	return chain
}

func (b *BaseSet) GetSubsetByID(id string) (Set, bool) {
	other, ok := b.deps.Registry.GetByID(id)
	if !ok || other.ID() == b.id {
		return nil, false
	}
	os, ok := other.(Set)
	if !ok {
		return nil, false
	}
	return os.Intersect(b.self), true
}

func (b *BaseSet) GetSubsetsByType(typ string) []Set {
	var out []Set
	for _, s := range b.deps.Registry.GetByType(typ) {
		if s.ID() == b.id {
			continue
		}
		os, ok := s.(Set)
		if !ok {
			continue
		}
		out = append(out, os.Intersect(b.self))
	}
	return out
}

func (b *BaseSet) GetSubsetsByIntersectingModelID(modelID string) []Set {
	model, ok := b.deps.Lookup.FindByID(modelID)
	if !ok {
		return nil
	}
	var out []Set
	for _, s := range b.deps.Registry.AllExcept(b.id) {
		os, ok := s.(Set)
		if !ok {
			continue
		}
		if hierarchy.Intersects(model, os.Models()) {
			out = append(out, os.Intersect(b.self))
		}
	}
	return out
}

func (b *BaseSet) IntersectedSubsets() []Set {
	var out []Set
	for _, s := range b.deps.Registry.AllExcept(b.id) {
		os, ok := s.(Set)
		if !ok {
			continue
		}
		out = append(out, os.Intersect(b.self))
	}
	return out
}

func (b *BaseSet) PopulatedIntersectedSubsets() []Set {
	var out []Set
	for _, s := range b.self.IntersectedSubsets() {
		if len(s.EffectiveModels()) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ancestorDepth counts the ancestors above model (the course root has
// depth 0). AdaptModelSet uses it to derive its default lifecycle order.
func ancestorDepth(model interfaces.ContentModel) int {
	return len(hierarchy.Ancestors(model, false))
}

var _ registry.Set = (*BaseSet)(nil)
