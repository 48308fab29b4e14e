package reactive

import "sync"

// Memo is a cached derived value. The compute function runs lazily on
// first read and again after any dependency changes, and the cached
// result is shared by all readers. Reading a memo subscribes the
// current listener just like reading a signal.
type Memo[T any] struct {
	base signalBase

	// compute derives the value from its dependencies.
	compute func() T

	// value is the cached result of the last computation.
	value T

	// dirty marks the cache as stale.
	dirty bool

	// sources are the signals this memo currently depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	mu sync.Mutex
}

// NewMemo creates a memo over the given compute function.
// The computation does not run until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
		dirty:   true,
	}
}

// Get returns the memoized value, recomputing it if a dependency
// changed since the last read, and subscribes the current listener.
func (m *Memo[T]) Get() T {
	m.mu.Lock()
	if m.dirty {
		m.recompute()
	}
	value := m.value
	m.mu.Unlock()

	m.base.track()

	return value
}

// Peek returns the memoized value without subscribing.
// Recomputes if stale.
func (m *Memo[T]) Peek() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirty {
		m.recompute()
	}
	return m.value
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// Value returns the current value as any, with tracking.
// Implements Source.
func (m *Memo[T]) Value() any {
	return m.Get()
}

// MarkDirty invalidates the cache and notifies downstream subscribers.
// Implements Listener: memos are subscribed to their own sources.
func (m *Memo[T]) MarkDirty() {
	m.mu.Lock()
	if m.dirty {
		m.mu.Unlock()
		return
	}
	m.dirty = true
	m.mu.Unlock()

	m.base.notifySubscribers()
}

// addSource records a dependency edge. Implements dependencyTracker.
func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

// recompute runs the compute function under tracking.
// Caller holds m.mu.
func (m *Memo[T]) recompute() {
	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := setCurrentListener(m)
	m.value = m.compute()
	m.dirty = false
	setCurrentListener(old)
}
