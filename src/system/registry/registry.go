// Package registry holds the scoring core's root sets: the flat, id-indexed
// collection that queries and the lifecycle controller walk to find
// candidates. It mirrors the host runtime's dependency/action registration
// idiom (register once, look up by id or by type) but knows nothing about
// set algebra itself — that lives in package sets, which depends on this
// package rather than the other way around.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

// Set is the minimal surface the registry needs from a registered set. The
// sets package's IntersectionSet (and everything built on it) satisfies
// this trivially.
type Set interface {
	ID() string
	Type() string
	Order() int
}

// DuplicateSetIDError is returned by Register when a set's id collides with
// an already-registered root set. Per the error-handling design this is a
// fatal condition: callers are expected to panic (or otherwise abort
// construction), not recover and continue.
type DuplicateSetIDError struct {
	ID string
}

func (e *DuplicateSetIDError) Error() string {
	return fmt.Sprintf("registry: duplicate root set id %q", e.ID)
}

// Registry holds root (non-intersected) sets, uniquely keyed by id.
//
// The runtime is single-threaded cooperative; shared resources (the
// registry among them) are not guarded by locks, so this type performs no
// internal synchronization.
type Registry struct {
	byID      map[string]Set
	insertion map[string]int // id -> insertion sequence, used as a stable order tiebreak
	seq       int
	bus       interfaces.EventBus
}

func New(bus interfaces.EventBus) *Registry {
	return &Registry{
		byID:      make(map[string]Set),
		insertion: make(map[string]int),
		bus:       bus,
	}
}

// Register adds a root set. Registering a set whose id already exists is
// fatal: the caller is expected to treat a non-nil error as unrecoverable.
func (r *Registry) Register(s Set) error {
	if _, exists := r.byID[s.ID()]; exists {
		return &DuplicateSetIDError{ID: s.ID()}
	}
	r.byID[s.ID()] = s
	r.seq++
	r.insertion[s.ID()] = r.seq

	if r.bus != nil {
		r.bus.Publish("scoring:"+s.Type()+":register", s)
		r.bus.Publish("scoring:register", s)
	}
	return nil
}

// Deregister removes a root set by id. It is a no-op if the id is unknown.
func (r *Registry) Deregister(id string) {
	s, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.insertion, id)
	if r.bus != nil {
		r.bus.Publish("scoring:"+s.Type()+":deregister", s)
		r.bus.Publish("scoring:deregister", s)
	}
}

// Clear deregisters every root set.
func (r *Registry) Clear() {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	for _, id := range ids {
		r.Deregister(id)
	}
}

// GetByID returns a registered root set, if any.
func (r *Registry) GetByID(id string) (Set, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// GetByType returns all root sets of the given type, ordered ascending by
// Order, ties broken by registration order.
func (r *Registry) GetByType(typ string) []Set {
	var out []Set
	for _, s := range r.byID {
		if s.Type() == typ {
			out = append(out, s)
		}
	}
	r.sortStable(out)
	return out
}

// All returns every registered root set, ordered ascending by Order, ties
// broken by registration order.
func (r *Registry) All() []Set {
	out := make([]Set, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	r.sortStable(out)
	return out
}

// AllExcept returns every registered root set other than the one with the
// given id, in the same order as All.
func (r *Registry) AllExcept(id string) []Set {
	var out []Set
	for _, s := range r.All() {
		if s.ID() != id {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) sortStable(list []Set) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order() != list[j].Order() {
			return list[i].Order() < list[j].Order()
		}
		return r.insertion[list[i].ID()] < r.insertion[list[j].ID()]
	})
}

var idSuffixPattern = regexp.MustCompile(`^(.*)-(\d+)$`)

// GenerateID scans the registry for ids of the form "{prefix}-{n}" and
// returns the first free n, starting at 0: "prefix-0", "prefix-1", ...
func (r *Registry) GenerateID(prefix string) string {
	used := map[int]bool{}
	for id := range r.byID {
		m := idSuffixPattern.FindStringSubmatch(id)
		if m == nil || m[1] != prefix {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		used[n] = true
	}
	n := 0
	for used[n] {
		n++
	}
	return fmt.Sprintf("%s-%d", prefix, n)
}

// Len reports how many root sets are currently registered.
func (r *Registry) Len() int {
	return len(r.byID)
}
