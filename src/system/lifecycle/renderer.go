// Package lifecycle drives the phase-ordered batch dispatch described by
// the host runtime's renderer idiom: per-phase ordered-unique queues,
// strictly sequential per-set dispatch within a phase, and a single
// outstanding wait-token held from first enqueue until every queue drains
// empty. Controller turns content-model and set-level triggers into
// enqueue calls; Renderer owns the queues and the throttled tick.
package lifecycle

import (
	"context"
	"sort"

	"golang.org/x/time/rate"

	"github.com/oakleaf-learning/scoring-core/src/system/archivist"
	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
	"github.com/oakleaf-learning/scoring-core/src/system/sets"
)

// Phase names a single stage of the fixed-order batch.
type Phase string

const (
	PhaseInit    Phase = "init"
	PhaseRestore Phase = "restore"
	PhaseStart   Phase = "start"
	PhaseReset   Phase = "reset"
	PhaseRestart Phase = "restart"
	PhaseLeave   Phase = "leave"
	PhaseVisit   Phase = "visit"
	PhaseUpdate  Phase = "update"
)

var phaseOrder = []Phase{PhaseInit, PhaseRestore, PhaseStart, PhaseReset, PhaseRestart, PhaseLeave, PhaseVisit, PhaseUpdate}

const defaultFPS = 30

// Renderer owns the eight phase queues and the host wait-token. Tick drains
// once per throttled slot; Drain runs a pass immediately, for startup and
// for tests that don't want to wait on the limiter.
type Renderer struct {
	wait    interfaces.WaitPort
	log     *archivist.Archivist
	limiter *rate.Limiter

	queues   map[Phase][]sets.LifecycleCapable
	queued   map[Phase]map[string]bool
	restored map[string]bool
	held     bool
}

// NewRenderer builds a Renderer throttled to fps ticks/second (0 defaults
// to 30, matching the host runtime's own default frame rate).
func NewRenderer(wait interfaces.WaitPort, log *archivist.Archivist, fps int) *Renderer {
	if fps <= 0 {
		fps = defaultFPS
	}
	r := &Renderer{
		wait:     wait,
		log:      log,
		limiter:  rate.NewLimiter(rate.Limit(fps), 1),
		queues:   make(map[Phase][]sets.LifecycleCapable),
		queued:   make(map[Phase]map[string]bool),
		restored: make(map[string]bool),
	}
	for _, p := range phaseOrder {
		r.queued[p] = map[string]bool{}
	}
	return r
}

// Enqueue appends each LifecycleCapable, non-clone candidate to phase's
// queue, skipping ones already present (idempotent) and taking the wait
// token on the first successful addition.
func (r *Renderer) Enqueue(phase Phase, candidates []sets.Set) {
	added := false
	for _, s := range candidates {
		lc, ok := s.(sets.LifecycleCapable)
		if !ok {
			continue
		}
		if _, isClone := lc.IntersectionParent(); isClone {
			continue
		}
		if r.queued[phase][lc.ID()] {
			continue
		}
		r.queued[phase][lc.ID()] = true
		r.queues[phase] = append(r.queues[phase], lc)
		added = true
	}
	if added {
		r.takeToken()
	}
}

func (r *Renderer) takeToken() {
	if r.held {
		return
	}
	r.held = true
	if r.wait != nil {
		r.wait.Take()
	}
}

func (r *Renderer) releaseToken() {
	if !r.held {
		return
	}
	r.held = false
	if r.wait != nil {
		r.wait.Release()
	}
}

// Tick blocks until the limiter admits the next slot, then runs one drain
// pass. Intended for the host's animation-frame loop.
func (r *Renderer) Tick(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.Drain()
}

// Drain runs one pass over every phase queue, in fixed order, without
// waiting on the tick limiter. The wait token is released only once every
// queue is empty after the pass.
func (r *Renderer) Drain() error {
	for _, p := range phaseOrder {
		r.drainPhase(p)
	}
	for _, p := range phaseOrder {
		if len(r.queues[p]) > 0 {
			return nil
		}
	}
	r.releaseToken()
	return nil
}

func (r *Renderer) drainPhase(phase Phase) {
	batch := r.queues[phase]
	if len(batch) == 0 {
		return
	}
	r.queues[phase] = nil
	r.queued[phase] = map[string]bool{}

	sort.SliceStable(batch, func(i, j int) bool { return batch[i].Order() < batch[j].Order() })

	for _, s := range batch {
		if err := r.dispatch(phase, s); err != nil && r.log != nil {
			r.log.WithScope(string(phase), s.ID()).Error("lifecycle: callback error:", err)
		}
	}
}

// dispatch maps a phase to the LifecycleCapable callback it drives, with
// two cross-phase gates: start is skipped for a set that reported
// wasRestored=true in this same batch's restore phase, and reset is
// skipped for a set that cannot reset.
func (r *Renderer) dispatch(phase Phase, s sets.LifecycleCapable) error {
	switch phase {
	case PhaseInit:
		return s.OnInit()
	case PhaseRestore:
		wasRestored, err := s.OnRestore()
		r.restored[s.ID()] = wasRestored
		return err
	case PhaseStart:
		if r.restored[s.ID()] {
			return nil
		}
		return s.OnStart()
	case PhaseRestart:
		return s.OnStart()
	case PhaseReset:
		if cr, ok := s.(interface{ CanReset() bool }); ok && !cr.CanReset() {
			return nil
		}
		return s.DoReset()
	case PhaseLeave:
		return s.OnLeave()
	case PhaseVisit:
		return s.OnVisit()
	case PhaseUpdate:
		return s.OnUpdate()
	default:
		return nil
	}
}
