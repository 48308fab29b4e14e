package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies
// change. Effects run immediately when created, and re-run synchronously
// whenever any signal or memo they read during execution changes, until
// disposed. Re-runs are serialized: the single-threaded cooperative
// model runs one dependent to completion before the next.
type Effect struct {
	id uint64

	// fn is the effect body. It may return a Cleanup that runs before
	// the next re-run and on disposal.
	fn func() Cleanup

	// cleanups registered for the current run, in registration order.
	// Includes the body's returned Cleanup and any OnCleanup calls.
	cleanups []Cleanup

	// sources are the signals/memos this effect currently depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// owner is the ownership scope this effect belongs to.
	owner *Owner

	// running guards against re-entrant runs when an effect writes one
	// of its own dependencies.
	running bool

	// stale records a dependency change that arrived mid-run; the
	// effect re-runs once after the current run completes.
	stale bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// MarkDirty re-runs the effect. Implements Listener. A notification
// arriving while the effect is already running (its own body wrote a
// dependency, directly or through nested work) defers one re-run to
// after the current one.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running {
		e.stale = true
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect. Implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// Dispose stops the effect: cleanups run, all subscriptions are
// released, and the effect never runs again. Safe to call twice.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.runCleanups()

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// run executes the effect body under dependency tracking, repeating
// while dependencies changed mid-run.
func (e *Effect) run() {
	for {
		if e.disposed.Load() {
			return
		}

		e.runCleanups()

		// Drop stale subscriptions; the body re-establishes live ones.
		e.sourcesMu.Lock()
		for _, source := range e.sources {
			source.unsubscribe(e)
		}
		e.sources = e.sources[:0]
		e.sourcesMu.Unlock()

		e.stale = false
		e.runBody()

		if !e.stale {
			return
		}
	}
}

func (e *Effect) runBody() {
	oldListener := setCurrentListener(e)
	e.running = true

	defer func() {
		e.running = false
		setCurrentListener(oldListener)
	}()

	if cleanup := e.fn(); cleanup != nil {
		e.cleanups = append(e.cleanups, cleanup)
	}
}

// runCleanups runs and clears the cleanups from the previous run, in
// reverse registration order.
func (e *Effect) runCleanups() {
	cleanups := e.cleanups
	e.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// addCleanup registers fn to run before the next re-run or on disposal.
func (e *Effect) addCleanup(fn Cleanup) {
	e.cleanups = append(e.cleanups, fn)
}

// addSource records a dependency edge. Called by signals when they are
// read during this effect's execution.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// CreateEffect creates and immediately runs a new effect within the
// current owner scope. The returned Effect's Dispose stops it; disposal
// also happens automatically when the owning scope is disposed.
func CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: getCurrentOwner(),
	}

	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	e.run()

	return e
}

// CreateUnownedEffect creates and immediately runs an effect that does
// not register with any ownership scope. The caller owns its lifetime
// and must call Dispose. Used by rendering code that ties effect
// disposal to output-node removal instead of scope disposal, so a
// scope torn down and rebuilt around reused output keeps the reused
// effects alive.
func CreateUnownedEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.run()
	return e
}

// OnCleanup registers fn to run the next time the enclosing effect
// re-runs, or when the effect (or its owner) is disposed. Outside any
// effect it registers on the current owner; outside any scope it is a
// no-op.
func OnCleanup(fn Cleanup) {
	if fn == nil {
		return
	}
	if e, ok := getCurrentListener().(*Effect); ok && e != nil {
		e.addCleanup(fn)
		return
	}
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
