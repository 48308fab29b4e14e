package runtime

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

// Root ties a description tree to one backend container. A runtime can
// host any number of roots; each owns its reactive scope and tears down
// independently.
type Root struct {
	rt        *Runtime
	container backend.Node

	mounted  *item
	lastDesc *ui.Node
	owner    *reactive.Owner
}

// CreateRoot prepares a render root inside container. Nothing is
// mounted until Render.
func (r *Runtime) CreateRoot(container backend.Node) *Root {
	return &Root{rt: r, container: container}
}

// Render mounts desc into the root's container, replacing whatever the
// root rendered before. Rendering the exact same description value
// again is a no-op; reactive updates flow through installed effects,
// not through re-rendering the root.
func (rt *Root) Render(desc *ui.Node) {
	if desc == rt.lastDesc && rt.mounted != nil {
		return
	}

	r := rt.rt
	var span trace.Span
	if r.tracer != nil {
		_, span = r.tracer.Start(context.Background(), "root.render")
	}
	start := time.Now()

	rt.unmountCurrent()

	rt.owner = reactive.NewOwner(nil)
	reactive.WithOwner(rt.owner, func() {
		rt.mounted = r.mount(desc, rt.container, nil)
	})
	rt.lastDesc = desc

	r.metrics.observeRender(time.Since(start).Seconds())
	if span != nil {
		span.End()
	}
}

// Unmount tears the root's content down: every binding in the subtree
// is disposed, every output node removed, the reactive scope closed.
// Safe to call repeatedly.
func (rt *Root) Unmount() {
	rt.unmountCurrent()
	rt.lastDesc = nil
}

func (rt *Root) unmountCurrent() {
	if rt.mounted != nil {
		rt.rt.teardown(rt.container, rt.mounted)
		rt.mounted = nil
	}
	if rt.owner != nil {
		rt.owner.Dispose()
		rt.owner = nil
	}
}
