package lifecycle

import (
	"github.com/oakleaf-learning/scoring-core/src/system/hierarchy"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/registry"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

// typeGroupContentObject tags the models the navigation rule treats as a
// location boundary (course/page level in the host tree); a descendant set
// is "local" to a navigation target only up to the nearest enclosing
// content-object, so a nested page's sets don't leave/visit with their
// grandparent.
const typeGroupContentObject = "contentobject"

// Controller turns content-model and set-level triggers into Renderer
// enqueue calls, per the entry rules: model add/remove, attribute change,
// navigation, modelReset, the set.update()/reset() triggers delivered
// through sets.LifecycleObserver, and the global reset/startup sequence.
type Controller struct {
	deps     sets.Deps
	renderer *Renderer
	models   map[string]*sets.AdaptModelSet
	started  bool
}

func NewController(deps sets.Deps, renderer *Renderer) *Controller {
	return &Controller{
		deps:     deps,
		renderer: renderer,
		models:   make(map[string]*sets.AdaptModelSet),
	}
}

// Wire subscribes to the registry's own "scoring:register" announcement
// (already published by registry.Register) and installs the controller as
// the LifecycleObserver on every newly registered LifecycleCapable set, so
// sets never need a direct reference to the controller at construction
// time.
func (c *Controller) Wire(bus interfaces.EventBus) {
	if bus == nil {
		return
	}
	bus.Subscribe("scoring:register", func(payload interface{}) {
		s, ok := payload.(registry.Set)
		if !ok {
			return
		}
		if lc, ok := s.(sets.LifecycleCapable); ok {
			lc.SetObserver(c)
		}
	})
}

// OnModelAdded builds and registers an AdaptModelSet anchored to a newly
// added content model.
func (c *Controller) OnModelAdded(model interfaces.ContentModel) *sets.AdaptModelSet {
	a := sets.MustNewAdaptModelSet(sets.Config{Model: model}, c.deps)
	c.models[model.ID()] = a
	return a
}

// OnModelRemoved deregisters the AdaptModelSet built for a removed model.
func (c *Controller) OnModelRemoved(modelID string) {
	a, ok := c.models[modelID]
	if !ok {
		return
	}
	delete(c.models, modelID)
	c.deps.Registry.Deregister(a.ID())
}

var propagatingAttrs = map[string]bool{
	"isAvailable":           true,
	"isInteractionComplete": true,
	"isActive":              true,
	"isVisited":             true,
}

// OnModelChanged enqueues every root set whose Models() hierarchy-
// intersects the changed model into the update phase. Change events
// arriving before Startup are dropped per the startup-sequencing rule.
func (c *Controller) OnModelChanged(ev interfaces.ChangeEvent) {
	if !c.started || !propagatingAttrs[ev.Attribute] {
		return
	}
	c.renderer.Enqueue(PhaseUpdate, c.rootsIntersecting(ev.Model))
}

// OnNavigate enqueues sets local to the previous content-object into leave
// and sets local to the current one into visit.
func (c *Controller) OnNavigate(ev interfaces.NavigationEvent) {
	if !c.started {
		return
	}
	c.renderer.Enqueue(PhaseLeave, c.localTo(ev.PreviousLocation))
	c.renderer.Enqueue(PhaseVisit, c.localTo(ev.CurrentLocation))
}

// OnModelReset enqueues sets anchored directly to the given model into the
// restart phase.
func (c *Controller) OnModelReset(modelID string) {
	var hit []sets.Set
	for _, rs := range c.deps.Registry.All() {
		os, ok := rs.(sets.Set)
		if !ok {
			continue
		}
		if m, has := os.Model(); has && m.ID() == modelID {
			hit = append(hit, os)
		}
	}
	c.renderer.Enqueue(PhaseRestart, hit)
}

// OnSetUpdate implements sets.LifecycleObserver: a set announcing Update()
// enqueues every root set whose Models() intersect that set's own anchor
// model into the update phase. A set with no anchor model (an explicit-
// list set) has nothing to propagate through the hierarchy rule.
func (c *Controller) OnSetUpdate(s sets.Set) {
	model, ok := s.Model()
	if !ok {
		return
	}
	c.renderer.Enqueue(PhaseUpdate, c.rootsIntersecting(model))
}

// OnSetReset implements sets.LifecycleObserver: a set announcing Reset()
// enqueues every root set sharing the same anchor model id into restart.
func (c *Controller) OnSetReset(s sets.Set) {
	model, ok := s.Model()
	if !ok {
		return
	}
	c.OnModelReset(model.ID())
}

// ResetAll implements the global scoring.reset() trigger: every root set
// enters the reset phase (the renderer itself skips any that can't reset).
func (c *Controller) ResetAll() {
	c.renderer.Enqueue(PhaseReset, c.roots())
}

// UpdateAll implements the global scoring.update() trigger: every root set
// enters the update phase unconditionally, not just the ones a single
// model change would hierarchy-intersect.
func (c *Controller) UpdateAll() {
	c.renderer.Enqueue(PhaseUpdate, c.roots())
}

// Startup runs init, restore, start and update for every currently
// registered root set in a single batch, then marks the controller
// started so later change/navigation events are no longer dropped.
func (c *Controller) Startup() error {
	roots := c.roots()
	c.renderer.Enqueue(PhaseInit, roots)
	c.renderer.Enqueue(PhaseRestore, roots)
	c.renderer.Enqueue(PhaseStart, roots)
	c.renderer.Enqueue(PhaseUpdate, roots)
	if err := c.renderer.Drain(); err != nil {
		return err
	}
	c.started = true
	return nil
}

func (c *Controller) roots() []sets.Set {
	var out []sets.Set
	for _, rs := range c.deps.Registry.All() {
		if os, ok := rs.(sets.Set); ok {
			out = append(out, os)
		}
	}
	return out
}

func (c *Controller) rootsIntersecting(model interfaces.ContentModel) []sets.Set {
	var out []sets.Set
	for _, rs := range c.deps.Registry.All() {
		os, ok := rs.(sets.Set)
		if !ok {
			continue
		}
		if hierarchy.Intersects(model, os.Models()) {
			out = append(out, os)
		}
	}
	return out
}

func (c *Controller) localTo(locationID string) []sets.Set {
	if locationID == "" || c.deps.Lookup == nil {
		return nil
	}
	location, ok := c.deps.Lookup.FindByID(locationID)
	if !ok {
		return nil
	}
	var out []sets.Set
	for _, rs := range c.deps.Registry.All() {
		os, ok := rs.(sets.Set)
		if !ok {
			continue
		}
		m, has := os.Model()
		if !has {
			continue
		}
		if m.ID() == location.ID() {
			out = append(out, os)
			continue
		}
		if m.IsTypeGroup(typeGroupContentObject) {
			continue
		}
		if anc, ok := m.FindAncestor(typeGroupContentObject); ok && anc.ID() == location.ID() {
			out = append(out, os)
		}
	}
	return out
}

var _ sets.LifecycleObserver = (*Controller)(nil)
