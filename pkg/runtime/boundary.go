package runtime

import (
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

// Ambient context keys, stored on ownership scopes. A panic escaping a
// component or dynamic expression walks the owner chain for the
// nearest matching context; with none in scope the panic propagates to
// the render caller unchanged.
type boundaryKey struct{}
type suspenseKey struct{}

// Pending is the panic value a component throws to suspend: rendering
// cannot complete until Done is closed. Use Suspend to throw it.
type Pending struct {
	// Done is closed when the suspended work has finished and the
	// component is worth re-rendering.
	Done <-chan struct{}
}

// Suspend aborts the current render until done is closed. Only
// meaningful under a suspense boundary; elsewhere the panic escapes.
func Suspend(done <-chan struct{}) {
	panic(&Pending{Done: done})
}

// errorBoundary is the state behind one ErrorBoundary component.
type errorBoundary struct {
	err *reactive.Signal[error]
}

func (b *errorBoundary) catch(err error) {
	b.err.Set(err)
}

// suspenseContext is the state behind one Suspense component. It counts
// outstanding suspensions; content renders once all have resolved.
type suspenseContext struct {
	pending *reactive.Signal[int]
}

func (s *suspenseContext) register(p *Pending) {
	s.pending.Update(func(n int) int { return n + 1 })

	done := p.Done
	if done == nil {
		s.pending.Update(func(n int) int { return n - 1 })
		return
	}
	select {
	case <-done:
		// Already resolved; settle synchronously.
		s.pending.Update(func(n int) int { return n - 1 })
	default:
		go func() {
			<-done
			s.pending.Update(func(n int) int { return n - 1 })
		}()
	}
}

func boundaryFrom(owner *reactive.Owner) *errorBoundary {
	if owner == nil {
		return nil
	}
	if b, ok := owner.GetValue(boundaryKey{}).(*errorBoundary); ok {
		return b
	}
	return nil
}

func suspenseFrom(owner *reactive.Owner) *suspenseContext {
	if owner == nil {
		return nil
	}
	if s, ok := owner.GetValue(suspenseKey{}).(*suspenseContext); ok {
		return s
	}
	return nil
}

// ErrorBoundary renders children until one of them panics with an
// error during render, then renders fallback(err) instead. The
// boundary is ambient: any descendant component or dynamic expression
// is covered, however deep.
func ErrorBoundary(fallback func(error) *ui.Node, children func() *ui.Node) *ui.Node {
	return ui.Func(func() *ui.Node {
		b := &errorBoundary{err: reactive.NewSignal[error](nil)}
		if owner := reactive.CurrentOwner(); owner != nil {
			owner.SetValue(boundaryKey{}, b)
		}

		return ui.Dyn(func() any {
			if err := b.err.Get(); err != nil {
				return fallback(err)
			}
			return ui.Func(children)
		})
	})
}

// Suspense renders fallback while any descendant render is suspended
// via Suspend, and children once every suspension has resolved.
func Suspense(fallback *ui.Node, children func() *ui.Node) *ui.Node {
	return ui.Func(func() *ui.Node {
		s := &suspenseContext{pending: reactive.NewSignal(0)}
		if owner := reactive.CurrentOwner(); owner != nil {
			owner.SetValue(suspenseKey{}, s)
		}

		return ui.Dyn(func() any {
			if s.pending.Get() > 0 {
				return fallback
			}
			return ui.Func(children)
		})
	})
}
