// Package sets implements the scoring-set algebra: IntersectionSet (the
// abstract base every set shares), LifecycleSet (adds cooperative
// callbacks and state persistence), ScoringSet (adds score/correctness/
// pass-fail aggregation), TotalSet (the course-level singleton) and
// AdaptModelSet (a non-scoring wrapper around a single content model).
//
// Go has no class inheritance, so "subclassing" is modeled as struct
// embedding of BaseSet plus a small number of function-valued fields that
// each concrete constructor wires to its own methods, instead of dynamic
// prototype/class resolution: every concrete type implements its own
// Intersect, and BaseSet's derived
// views (AvailableModels, Components, Questions, ...) read the effective
// model list through BaseSet.EffectiveModels, which calls the
// effectiveModelsFn closure when a constructor has set one (only TotalSet
// does), so TotalSet's very different effectiveModels formula is picked up
// correctly everywhere BaseSet reads it.
package sets

import (
	"github.com/oakleaf-learning/scoring-core/src/system/archivist"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/registry"
)

// Type-group vocabulary used by the projection views. The content-model
// tree itself is out of scope; these are the group names this core expects
// the host's IsTypeGroup to recognise.
const (
	TypeGroupComponent            = "component"
	TypeGroupQuestion             = "question"
	TypeGroupPresentationComponent = "presentation-component"
)

// Set is the full query surface every registered or intersected set
// exposes. registry.Set (ID, Type, Order) is the slice the registry needs;
// everything else is set-algebra specific.
type Set interface {
	registry.Set

	Title() string
	Model() (interfaces.ContentModel, bool)
	Models() []interfaces.ContentModel
	IntersectionParent() (Set, bool)

	EffectiveModels() []interfaces.ContentModel
	AvailableModels() []interfaces.ContentModel
	Components() []interfaces.ContentModel
	AvailableComponents() []interfaces.ContentModel
	Questions() []interfaces.ContentModel
	AvailableQuestions() []interfaces.ContentModel
	PresentationComponents() []interfaces.ContentModel
	TrackableComponents() []interfaces.ContentModel

	IsEnabled() bool
	IsOptional() bool
	IsAvailable() bool
	IsPopulated() bool
	IsNotPopulated() bool
	IsModelAvailableInHierarchy() bool

	SubsetPath() []Set
	GetSubsetByID(id string) (Set, bool)
	GetSubsetsByType(typ string) []Set
	GetSubsetsByIntersectingModelID(modelID string) []Set
	IntersectedSubsets() []Set
	PopulatedIntersectedSubsets() []Set

	// Intersect builds a new instance of the same concrete class as this
	// set, shallow-copied from its own stable state, whose
	// IntersectionParent is otherParent. It never registers.
	Intersect(otherParent Set) Set
}

// Deps bundles the ambient collaborators every constructor needs: the
// registry sets register into and query against, the content-model lookup
// used by modelId= filters and getSubsetsByIntersectingModelId, the event
// bus used for the scoring:* topics, the offline-storage port backing
// State/Objective, and the logger.
type Deps struct {
	Registry *registry.Registry
	Lookup   interfaces.ContentModelLookup
	Bus      interfaces.EventBus
	Storage  interfaces.OfflineStorage
	Log      *archivist.Archivist
}
