package reactive

// Listener is anything that can be notified when a dependency changes.
// It is implemented by effects and memos.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For memos, this invalidates the cached value.
	// For effects, this re-runs the effect.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function registered to run before an effect re-runs or
// when the effect's owner is disposed.
type Cleanup func()

// Source is a reactive value readable without knowing its element type.
// Reading through Value subscribes the current listener, exactly like a
// typed Signal.Get. The mount engine uses this to treat signals as node
// descriptions.
type Source interface {
	// Value returns the current value and subscribes the current listener.
	Value() any

	// ID returns the unique identifier of the underlying signal or memo.
	ID() uint64
}

// IsSource reports whether v is a reactive value: either a Source
// (signal, memo) or a zero-argument function that produces a value when
// evaluated under tracking.
func IsSource(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case Source:
		return true
	case func() any:
		return true
	}
	return false
}
