// Package scoring is the public surface a host binds to: Context replaces
// global scoring/assessments/scoring.total singletons with one value that
// bundles the registry, dependencies, renderer and controller a single
// course needs, so a host can construct as many as it has courses open.
package scoring

import (
	"fmt"

	"github.com/oakleaf-learning/scoring-core/src/system/archivist"
	"github.com/oakleaf-learning/scoring-core/src/system/hierarchy"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/lifecycle"
	"github.com/oakleaf-learning/scoring-core/src/system/query"
	"github.com/oakleaf-learning/scoring-core/src/system/registry"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

// Context is the scoring root for one course. BuildTotal is deferred from
// New since the host only knows its content model once "dataReady" fires;
// Start is deferred similarly since the lifecycle only runs from the
// host's "start".
type Context struct {
	cfg        Configuration
	deps       sets.Deps
	registry   *registry.Registry
	renderer   *lifecycle.Renderer
	controller *lifecycle.Controller
	total      *sets.TotalSet
}

// New wires a fresh registry, dependency bundle, renderer and controller
// for one course and installs the controller as every future root set's
// lifecycle observer via the registry's own register events.
func New(cfg Configuration, lookup interfaces.ContentModelLookup, bus interfaces.EventBus, storage interfaces.OfflineStorage, wait interfaces.WaitPort, log *archivist.Archivist, fps int) *Context {
	reg := registry.New(bus)
	deps := sets.Deps{Registry: reg, Lookup: lookup, Bus: bus, Storage: storage, Log: log}
	renderer := lifecycle.NewRenderer(wait, log, fps)
	controller := lifecycle.NewController(deps, renderer)
	controller.Wire(bus)

	return &Context{
		cfg:        cfg,
		deps:       deps,
		registry:   reg,
		renderer:   renderer,
		controller: controller,
	}
}

// BuildTotal constructs the course-level TotalSet anchored to model,
// applying this Context's configured passmark. It is expected to run once,
// when the host's content model becomes ready.
func (c *Context) BuildTotal(model interfaces.ContentModel) (*sets.TotalSet, error) {
	scfg := sets.ScoringConfig{
		Config: sets.Config{ID: c.cfg.ID, Title: c.cfg.Title, Model: model},
	}
	t, err := sets.NewTotalSet(scfg, c.cfg.Passmark, c.deps)
	if err != nil {
		return nil, err
	}
	c.total = t
	return t, nil
}

// Total returns the course-level TotalSet built by BuildTotal, or nil if it
// hasn't run yet.
func (c *Context) Total() *sets.TotalSet { return c.total }

// RegisterScoringSet and RegisterAdaptModelSet build and register a set
// against this Context's own dependency bundle, so a host never has to
// thread Deps through to every set it constructs by hand.
func (c *Context) RegisterScoringSet(cfg sets.ScoringConfig) (*sets.ScoringSet, error) {
	return sets.NewScoringSet(cfg, c.deps)
}

func (c *Context) RegisterAdaptModelSet(cfg sets.Config) (*sets.AdaptModelSet, error) {
	return sets.NewAdaptModelSet(cfg, c.deps)
}

func (c *Context) IsBackwardCompatible() bool { return c.cfg.IsBackwardCompatible }

// Controller and Renderer expose the lifecycle wiring to a host that needs
// to feed model-add/remove, navigation or modelReset triggers in, or drive
// the tick loop directly instead of through Start.
func (c *Context) Controller() *lifecycle.Controller { return c.controller }
func (c *Context) Renderer() *lifecycle.Renderer     { return c.renderer }

// Start runs the registered root sets' init/restore/start/update batch and
// marks the controller started, matching the host's own "start" event.
func (c *Context) Start() error {
	return c.controller.Startup()
}

// Update is the global scoring.update() trigger: every root set re-enters
// the update phase and the batch drains immediately.
func (c *Context) Update() error {
	c.controller.UpdateAll()
	return c.renderer.Drain()
}

// Reset is the global scoring.reset() trigger: every root set that can
// reset enters the reset phase and the batch drains immediately.
func (c *Context) Reset() error {
	c.controller.ResetAll()
	return c.renderer.Drain()
}

// Deregister removes a root set by id, independent of whatever triggered
// its removal.
func (c *Context) Deregister(id string) { c.registry.Deregister(id) }

// Clear deregisters every root set, discarding the whole course's scoring
// state short of the Context itself.
func (c *Context) Clear() { c.registry.Clear() }

// Sets returns every currently registered root set.
func (c *Context) Sets() []sets.Set {
	var out []sets.Set
	for _, rs := range c.registry.All() {
		if s, ok := rs.(sets.Set); ok {
			out = append(out, s)
		}
	}
	return out
}

func (c *Context) GetSetByID(id string) (sets.Set, bool) {
	rs, ok := c.registry.GetByID(id)
	if !ok {
		return nil, false
	}
	s, ok := rs.(sets.Set)
	return s, ok
}

func (c *Context) GetSetsByType(typ string) []sets.Set {
	var out []sets.Set
	for _, rs := range c.registry.GetByType(typ) {
		if s, ok := rs.(sets.Set); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetSetsByIntersectingModelID returns every root set whose Models()
// hierarchy-intersects the named model. An unknown model id is the
// UnknownModelId error policy: an empty selection, not an error.
func (c *Context) GetSetsByIntersectingModelID(modelID string) []sets.Set {
	model, ok := c.deps.Lookup.FindByID(modelID)
	if !ok {
		return nil
	}
	var out []sets.Set
	for _, s := range c.Sets() {
		if hierarchy.Intersects(model, s.Models()) {
			out = append(out, s)
		}
	}
	return out
}

func (c *Context) GetSubsetByPath(path string) (sets.Set, bool) {
	return query.Path(query.SplitPath(path), c.registry)
}

// GetSubsetsByQuery parses and evaluates raw against the current registry.
// A malformed query (unbalanced brackets) returns an error; an otherwise
// valid query that simply matches nothing returns a nil, non-error slice.
func (c *Context) GetSubsetsByQuery(raw string) ([]sets.Set, error) {
	q, err := query.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	return query.Evaluate(q, c.registry, c.deps.Lookup), nil
}

// GetSubsetByQuery returns the first result of GetSubsetsByQuery, if any.
func (c *Context) GetSubsetByQuery(raw string) (sets.Set, bool, error) {
	results, err := c.GetSubsetsByQuery(raw)
	if err != nil {
		return nil, false, err
	}
	if len(results) == 0 {
		return nil, false, nil
	}
	return results[0], true, nil
}
