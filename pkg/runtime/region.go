package runtime

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

// region is the mutable state behind one anchor: the content currently
// mounted between the anchor and the rest of the parent's children.
// Content is either a list of reconciled items or a single mounted
// item; switching shapes tears the old shape down first.
type region struct {
	rt     *Runtime
	parent backend.Node
	anchor backend.Node

	items  []*item
	single *item

	// parentOwner is the ownership scope in effect when the region was
	// mounted. Effect re-runs happen outside any ambient owner, so the
	// chain to enclosing boundaries is captured here once.
	parentOwner *reactive.Owner

	// scope owns effects created during a component invocation;
	// replaced wholesale on every re-render.
	scope *reactive.Owner
}

// endRef returns the node just after the region's content, the
// insert-before reference for appends. Nil means end of parent.
func (reg *region) endRef() backend.Node {
	if reg.single != nil {
		if n := lastNodeOf([]*item{reg.single}); n != nil {
			return reg.rt.backend.NextSibling(n)
		}
	}
	if n := lastNodeOf(reg.items); n != nil {
		return reg.rt.backend.NextSibling(n)
	}
	return reg.rt.backend.NextSibling(reg.anchor)
}

func lastNodeOf(items []*item) backend.Node {
	for i := len(items) - 1; i >= 0; i-- {
		if n := items[i].lastNode(); n != nil {
			return n
		}
	}
	return nil
}

// contentNodes appends the region's current content nodes, in document
// order, to dst. The anchor itself is not included.
func (reg *region) contentNodes(dst []backend.Node) []backend.Node {
	if reg.single != nil {
		return reg.single.liveNodes(dst)
	}
	for _, it := range reg.items {
		dst = it.liveNodes(dst)
	}
	return dst
}

// lastContentNode returns the region's final content node, or nil when
// the region is empty.
func (reg *region) lastContentNode() backend.Node {
	if reg.single != nil {
		return reg.single.lastNode()
	}
	return lastNodeOf(reg.items)
}

// clear tears down all current content.
func (reg *region) clear() {
	if reg.single != nil {
		reg.rt.teardown(reg.parent, reg.single)
		reg.single = nil
	}
	for _, it := range reg.items {
		reg.rt.teardown(reg.parent, it)
	}
	reg.items = nil
}

// clearSingle tears down single-shaped content only.
func (reg *region) clearSingle() {
	if reg.single != nil {
		reg.rt.teardown(reg.parent, reg.single)
		reg.single = nil
	}
}

// update applies a freshly evaluated dynamic value to the region.
func (reg *region) update(v any) {
	switch {
	case v == nil || v == false:
		reg.clear()

	case isPrimitive(v):
		reg.setText(primitiveText(v))

	default:
		if descs, ok := toDescSlice(v); ok {
			reg.setItems(descs)
			return
		}
		if desc, ok := v.(*ui.Node); ok {
			reg.setSingle(desc)
			return
		}
		reg.rt.logger.Warn("dynamic value has no mountable shape",
			"type", typeName(v))
		reg.clear()
	}
}

// setText renders a primitive as one text node, updating in place when
// the previous content already is one.
func (reg *region) setText(text string) {
	if len(reg.items) > 0 {
		reg.setItems(nil)
	}

	if reg.single != nil && reg.single.desc.Kind == ui.KindText {
		if reg.single.desc.Text != text {
			node := reg.single.node
			reg.rt.applyValue(func() {
				reg.rt.backend.UpdateText(node, text)
			})
			reg.rt.metrics.countOp("update_text")
			reg.single.desc = ui.Text(text)
		}
		return
	}

	reg.clearSingle()
	reg.single = reg.rt.mount(ui.Text(text), reg.parent, reg.endRef())
}

// setSingle replaces the region's content with one freshly mounted
// description.
func (reg *region) setSingle(desc *ui.Node) {
	if len(reg.items) > 0 {
		reg.setItems(nil)
	}

	// Same-type single content is patched in place rather than
	// destroyed and recreated.
	if reg.single != nil && desc != nil &&
		reg.single.desc.TypeKey() == desc.TypeKey() &&
		reg.single.desc.Key == desc.Key {
		reg.rt.patch(reg.parent, reg.single, desc)
		return
	}

	reg.clearSingle()
	reg.single = reg.rt.mount(desc, reg.parent, reg.endRef())
}

// setItems reconciles the region's content against a new list of
// descriptions.
func (reg *region) setItems(descs []*ui.Node) {
	reg.clearSingle()
	ref := reg.endRef()
	reg.items = reg.rt.reconcile(reg.parent, reg.items, descs, ref)
}

// renderComponent re-invokes a component function inside a fresh
// ownership scope and applies its result. User effects and cleanups
// created during the previous invocation are disposed first, so each
// render starts clean.
func (reg *region) renderComponent(render ui.RenderFunc) {
	if reg.scope != nil {
		reg.scope.Dispose()
	}
	reg.scope = reactive.NewOwner(reg.parentOwner)

	// Mounting happens inside the scope too: descendants parent into it
	// and inherit any ambient boundary through the owner chain.
	reactive.WithOwner(reg.scope, func() {
		result := reg.guardedEval(func() any {
			if n := render(); n != nil {
				return n
			}
			return nil
		})
		reg.update(result)
	})
}

// guardedEval runs fn, intercepting panics for which an ambient
// boundary is in scope. A suspension is handed to the nearest suspense
// context, an error to the nearest error boundary; both render nothing
// here and let the boundary re-render. Anything unclaimed propagates.
func (reg *region) guardedEval(fn func() any) (result any) {
	owner := reg.scope
	if owner == nil {
		owner = reg.parentOwner
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if p, ok := rec.(*Pending); ok {
			if sc := suspenseFrom(owner); sc != nil {
				sc.register(p)
				result = nil
				return
			}
		}
		if err, ok := rec.(error); ok {
			if bc := boundaryFrom(owner); bc != nil {
				bc.catch(err)
				result = nil
				return
			}
		}
		panic(rec)
	}()

	return fn()
}
