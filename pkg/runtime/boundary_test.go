package runtime_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/ui"
)

func TestErrorBoundaryCatchesDescendantPanic(t *testing.T) {
	_, _, container, root := setup(t)

	explode := reactive.NewSignal(false)

	root.Render(runtime.ErrorBoundary(
		func(err error) *ui.Node {
			return ui.Div(ui.Class("error"), ui.Text(err.Error()))
		},
		func() *ui.Node {
			return ui.Func(func() *ui.Node {
				if explode.Get() {
					panic(errors.New("boom"))
				}
				return ui.P(ui.Text("fine"))
			})
		},
	))

	if got := htmlOf(container); !strings.Contains(got, "<p>fine</p>") {
		t.Fatalf("initial html = %q, want content", got)
	}

	explode.Set(true)

	got := htmlOf(container)
	if !strings.Contains(got, `class="error"`) || !strings.Contains(got, "boom") {
		t.Errorf("html after panic = %q, want fallback with error text", got)
	}
}

func TestPanicWithoutBoundaryPropagates(t *testing.T) {
	_, _, _, root := setup(t)

	defer func() {
		if recover() == nil {
			t.Error("panic did not propagate without a boundary")
		}
	}()

	root.Render(ui.Func(func() *ui.Node {
		panic(errors.New("unhandled"))
	}))
}

func TestSuspenseShowsFallbackThenContent(t *testing.T) {
	_, _, container, root := setup(t)

	done := make(chan struct{})
	ready := reactive.NewSignal(false)

	root.Render(runtime.Suspense(
		ui.Div(ui.Class("spinner"), ui.Text("loading")),
		func() *ui.Node {
			return ui.Func(func() *ui.Node {
				if !ready.Get() {
					runtime.Suspend(done)
				}
				return ui.P(ui.Text("loaded"))
			})
		},
	))

	if got := htmlOf(container); !strings.Contains(got, "loading") {
		t.Fatalf("html while suspended = %q, want fallback", got)
	}

	ready.Set(true)
	close(done)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(htmlOf(container), "<p>loaded</p>") {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Errorf("content never appeared; html = %q", htmlOf(container))
}

func TestSuspenseResolvedChannelRendersImmediately(t *testing.T) {
	_, _, container, root := setup(t)

	done := make(chan struct{})
	close(done)
	first := true

	root.Render(runtime.Suspense(
		ui.Text("loading"),
		func() *ui.Node {
			return ui.Func(func() *ui.Node {
				if first {
					first = false
					runtime.Suspend(done)
				}
				return ui.P(ui.Text("loaded"))
			})
		},
	))

	if got := htmlOf(container); !strings.Contains(got, "<p>loaded</p>") {
		t.Errorf("html = %q, want content after synchronous resolution", got)
	}
}
