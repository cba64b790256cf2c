// Package interfaces declares the ports the scoring core consumes from its
// host runtime: the content-model tree, the event bus, the offline-storage
// port and the logger. None of these are implemented here — see fixture for
// a gits-backed reference implementation used by tests and the example
// command.
package interfaces

// ContentModel is a single node of the externally owned content tree
// (course -> page -> article -> block -> component/question).
type ContentModel interface {
	ID() string
	Type() string
	ComponentType() string
	IsTypeGroup(group string) bool

	Get(attr string) interface{}

	IsAvailable() bool
	IsComplete() bool
	IsInteractionComplete() bool
	IsActive() bool
	IsVisited() bool
	IsCorrect() bool
	IsOptional() bool
	IsTrackable() bool
	IsAttached() bool

	Score() float64
	MinScore() float64
	MaxScore() float64

	Parent() (ContentModel, bool)
	Children() []ContentModel

	// AncestorModels returns the chain from this model's parent (or from
	// itself when includeSelf is true) up to the root, nearest first.
	AncestorModels(includeSelf bool) []ContentModel

	TrackingPosition() string
	FindAncestor(typeGroup string) (ContentModel, bool)
}

// ContentModelLookup is the subset of the content-model port needed to
// resolve a model by id or tracking position without walking the tree.
type ContentModelLookup interface {
	FindByID(id string) (ContentModel, bool)
	FindByTrackingPosition(pos string) (ContentModel, bool)
}

// ChangeEvent describes a single mutable-attribute change on a content
// model, as delivered by the host's change-event stream.
type ChangeEvent struct {
	Model     ContentModel
	Attribute string
}

// NavigationEvent carries the previous/current content-object ids as the
// host's navigation router moves location.
type NavigationEvent struct {
	PreviousLocation string
	CurrentLocation  string
}

// EventBus is the host's topic-based publish/subscribe surface. Topics in a
// single Subscribe call may be space separated, mirroring the host router.
type EventBus interface {
	Publish(topic string, payload interface{})
	Subscribe(topics string, handler func(payload interface{})) (unsubscribe func())
}

// Logger is the minimal sink the archivist writes formatted lines to.
type Logger interface {
	Println(v ...interface{})
}

// OfflineStorage is the SCORM-objective-shaped key/value port. Namespaces
// are the first path segment (objectiveDescription, objectiveScore,
// objectiveStatus, or a set's type for restoration state); keys are set or
// model ids.
type OfflineStorage interface {
	Ready() bool
	Get(namespace, key string) (string, bool)
	Set(namespace, key, value string) error
	Serialize(v interface{}) (string, error)
	Deserialize(s string, out interface{}) error
}

// WaitPort is the host's back-pressure handle: Take blocks the host runtime
// from advancing, Release lets it proceed. The renderer holds at most one
// outstanding token at a time.
type WaitPort interface {
	Take()
	Release()
}
