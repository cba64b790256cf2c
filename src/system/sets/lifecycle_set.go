package sets

import (
	"github.com/oakleaf-learning/scoring-core/src/system/state"
)

// LifecycleObserver is the typed interface the lifecycle controller installs
// on every root LifecycleSet when it is registered. Sets call the
// controller directly instead of emitting a string the controller happens
// to be listening for.
type LifecycleObserver interface {
	OnSetUpdate(s Set)
	OnSetReset(s Set)
}

// LifecycleCapable is implemented by concrete types that participate in the
// batched phase dispatch (ScoringSet and TotalSet). AdaptModelSet
// deliberately does not implement it: its lifecycle no-ops are explicit
// rather than inherited, so the renderer simply skips any Set that fails
// this type assertion instead of calling a method that silently does
// nothing.
type LifecycleCapable interface {
	Set
	OnInit() error
	OnRestore() (bool, error)
	OnStart() error
	OnVisit() error
	OnLeave() error
	OnUpdate() error
	// DoReset runs the reset-phase callback (distinct from OnStart, which
	// restart reruns): clears transition-tracking state so a later update
	// batch can re-detect completion/pass. The renderer only dispatches
	// it to sets whose CanReset() is true.
	DoReset() error
	SetObserver(o LifecycleObserver)
}

// Callbacks holds the six cooperative lifecycle hooks. A nil field falls
// back to LifecycleSet's default (no-op, except OnRestore which still
// emits the restored events and reports wasRestored=false).
type Callbacks struct {
	OnInit    func() error
	OnRestore func() (wasRestored bool, err error)
	OnStart   func() error
	OnVisit   func() error
	OnLeave   func() error
	OnUpdate  func() error
}

// LifecycleSet adds cooperative lifecycle callbacks and state persistence
// to IntersectionSet. Concrete types embed it the way AdaptModelSet embeds
// BaseSet directly; ScoringSet is the one shipped concrete type that does.
type LifecycleSet struct {
	*BaseSet
	callbacks Callbacks
	observer  LifecycleObserver
	state     *state.State
}

func newLifecycleSet(base *BaseSet, callbacks Callbacks) *LifecycleSet {
	return &LifecycleSet{BaseSet: base, callbacks: callbacks}
}

// SetObserver installs the controller's trigger sink. Called once, when the
// controller notices a newly registered root set.
func (l *LifecycleSet) SetObserver(o LifecycleObserver) {
	l.observer = o
}

// isClone reports whether this instance is an intersected clone, which must
// never emit events, persist state, or notify the observer.
func (l *LifecycleSet) isClone() bool {
	_, ok := l.IntersectionParent()
	return ok
}

func (l *LifecycleSet) publish(topics ...string) {
	if l.isClone() || l.deps.Bus == nil {
		return
	}
	for _, topic := range topics {
		l.deps.Bus.Publish(topic, l.self)
	}
}

func (l *LifecycleSet) OnInit() error {
	if l.callbacks.OnInit != nil {
		return l.callbacks.OnInit()
	}
	return nil
}

// OnRestore runs the restore callback if one was supplied, otherwise the
// default: emit the restored events and report wasRestored=false.
func (l *LifecycleSet) OnRestore() (bool, error) {
	if l.callbacks.OnRestore != nil {
		return l.callbacks.OnRestore()
	}
	l.publish("scoring:"+l.typ+":restored", "scoring:set:restored")
	return false, nil
}

func (l *LifecycleSet) OnStart() error {
	if l.callbacks.OnStart != nil {
		return l.callbacks.OnStart()
	}
	return nil
}

func (l *LifecycleSet) OnVisit() error {
	if l.callbacks.OnVisit != nil {
		return l.callbacks.OnVisit()
	}
	return nil
}

func (l *LifecycleSet) OnLeave() error {
	if l.callbacks.OnLeave != nil {
		return l.callbacks.OnLeave()
	}
	return nil
}

func (l *LifecycleSet) OnUpdate() error {
	if l.callbacks.OnUpdate != nil {
		return l.callbacks.OnUpdate()
	}
	return nil
}

// DoReset defaults to a no-op; ScoringSet overrides it to clear its own
// completion/pass tracking.
func (l *LifecycleSet) DoReset() error {
	return nil
}

// Update is a trigger the set (or host code acting on its behalf) calls to
// announce that its own data changed. It emits the public update events and
// notifies the controller so intersecting sets get enqueued into the update
// phase. Intersected clones are a no-op.
func (l *LifecycleSet) Update() {
	if l.isClone() {
		return
	}
	l.publish("scoring:"+l.typ+":update", "scoring:set:update", "scoring:update")
	if l.observer != nil {
		l.observer.OnSetUpdate(l.self)
	}
}

// Reset is a trigger the set calls to announce that sets anchored to the
// same model should restart. Intersected clones are a no-op.
func (l *LifecycleSet) Reset() {
	if l.isClone() {
		return
	}
	l.publish("scoring:"+l.typ+":reset", "scoring:set:reset", "scoring:reset")
	if l.observer != nil {
		l.observer.OnSetReset(l.self)
	}
}

// State lazily constructs the State adapter this set uses to persist
// restoration data, namespaced by the set's type and id. Intersected clones
// never touch offline storage and always get a no-op adapter.
func (l *LifecycleSet) State() *state.State {
	if l.state != nil {
		return l.state
	}
	if l.isClone() || l.deps.Storage == nil {
		l.state = state.NewNoop()
		return l.state
	}
	l.state = state.New(l.deps.Storage, l.typ, l.id)
	return l.state
}
