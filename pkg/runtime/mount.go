package runtime

import (
	interrors "github.com/filament-ui/filament/internal/errors"
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

// item is one mounted description: the description as of the last
// render pass together with the primary output node it produced. For
// elements, children holds the mounted child items aligned with the
// description's children; for fragments, node is nil and children carry
// the real output. Dynamic regions (components, expressions, lists) use
// their anchor as the primary node and manage content through their own
// installed effect.
type item struct {
	desc     *ui.Node
	node     backend.Node
	children []*item

	// region is set for anchor-backed items; its content nodes sit
	// after the anchor as siblings and belong to this item for any
	// whole-item repositioning.
	region *region
}

// firstNode returns the item's first live output node, descending into
// fragments. Anchor-backed items start at the anchor.
func (it *item) firstNode() backend.Node {
	if it == nil {
		return nil
	}
	if it.node != nil {
		return it.node
	}
	for _, c := range it.children {
		if n := c.firstNode(); n != nil {
			return n
		}
	}
	return nil
}

// lastNode returns the item's last live output node: a region's final
// content node, a fragment's last child, or the item's own node.
func (it *item) lastNode() backend.Node {
	if it == nil {
		return nil
	}
	if it.region != nil {
		if n := it.region.lastContentNode(); n != nil {
			return n
		}
	}
	if it.node != nil {
		return it.node
	}
	for i := len(it.children) - 1; i >= 0; i-- {
		if n := it.children[i].lastNode(); n != nil {
			return n
		}
	}
	return nil
}

// liveNodes appends every sibling-level output node of the item to dst
// in document order. An element contributes only itself (its children
// live inside it); a fragment contributes its children's nodes; an
// anchor-backed item contributes the anchor followed by the region's
// current content.
func (it *item) liveNodes(dst []backend.Node) []backend.Node {
	if it == nil {
		return dst
	}
	if it.node != nil {
		dst = append(dst, it.node)
	} else {
		for _, c := range it.children {
			dst = c.liveNodes(dst)
		}
	}
	if it.region != nil {
		dst = it.region.contentNodes(dst)
	}
	return dst
}

// mount realizes desc inside parent, inserting before ref (nil ref
// appends). Returns nil when the description renders nothing.
func (r *Runtime) mount(desc *ui.Node, parent, ref backend.Node) *item {
	if desc == nil {
		return nil
	}

	r.metrics.countMount()

	switch desc.Kind {
	case ui.KindText:
		node := r.backend.CreateText(desc.Text)
		r.metrics.countOp("create_text")
		r.insert(parent, node, ref)
		return &item{desc: desc, node: node}

	case ui.KindElement:
		return r.mountElement(desc, parent, ref)

	case ui.KindFragment:
		it := &item{desc: desc}
		for _, child := range desc.Children {
			if c := r.mount(child, parent, ref); c != nil {
				it.children = append(it.children, c)
			}
		}
		return it

	case ui.KindComponent, ui.KindDynamic, ui.KindList:
		return r.mountRegion(desc, parent, ref)
	}

	r.logger.Warn("skipping unmountable description",
		"code", interrors.UnknownDescription(desc.Kind.String()).Code,
		"kind", desc.Kind.String())
	return nil
}

// mountElement creates a backend element, applies static props
// directly, installs one effect per reactive prop, mounts children, and
// inserts the result.
func (r *Runtime) mountElement(desc *ui.Node, parent, ref backend.Node) *item {
	static := make(map[string]any, len(desc.Props))
	var dynamic map[string]any
	for k, v := range desc.Props {
		if isReactiveValue(v) {
			if dynamic == nil {
				dynamic = make(map[string]any)
			}
			dynamic[k] = v
			continue
		}
		static[k] = v
	}

	node := r.backend.CreateNode(desc.Tag, static)
	r.metrics.countOp("create_element")

	for key, src := range dynamic {
		r.bindProp(node, key, src)
	}

	it := &item{desc: desc, node: node}
	for _, child := range desc.Children {
		if c := r.mount(child, node, nil); c != nil {
			it.children = append(it.children, c)
		}
	}

	r.insert(parent, node, ref)
	return it
}

// bindProp installs the per-prop effect for a reactive prop value. The
// effect reads the source under tracking and writes the prop only when
// the value actually changed.
func (r *Runtime) bindProp(node backend.Node, key string, src any) {
	var prev any
	first := true

	eff := reactive.CreateUnownedEffect(func() reactive.Cleanup {
		val := evalValue(src)
		if !first && propsEqual(prev, val) {
			return nil
		}

		old := map[string]any{}
		if !first {
			old[key] = prev
		}
		r.applyValue(func() {
			r.backend.UpdateNode(node, old, map[string]any{key: val})
		})
		r.metrics.countOp("update_prop")
		prev = val
		first = false
		return nil
	})

	r.bindings.Register(node, eff.Dispose)
}

// mountRegion sets up an anchor-based dynamic region: an empty text
// node marks the position, and an effect keeps the content after it in
// sync with the reactive value. The effect's disposal is bound to the
// anchor so removal of the surrounding tree shuts the region down.
func (r *Runtime) mountRegion(desc *ui.Node, parent, ref backend.Node) *item {
	anchor := r.backend.CreateText("")
	r.metrics.countOp("create_anchor")
	r.insert(parent, anchor, ref)

	reg := &region{
		rt:          r,
		parent:      parent,
		anchor:      anchor,
		parentOwner: reactive.CurrentOwner(),
	}

	var eff *reactive.Effect
	switch desc.Kind {
	case ui.KindDynamic:
		expr := desc.Expr
		eff = reactive.CreateUnownedEffect(func() reactive.Cleanup {
			reg.update(reg.guardedEval(func() any { return evalValue(expr) }))
			return nil
		})

	case ui.KindList:
		list := desc.List
		eff = reactive.CreateUnownedEffect(func() reactive.Cleanup {
			reg.setItems(list())
			return nil
		})

	case ui.KindComponent:
		render := desc.Render
		eff = reactive.CreateUnownedEffect(func() reactive.Cleanup {
			reg.renderComponent(render)
			return nil
		})
	}

	r.bindings.Register(anchor, func() {
		eff.Dispose()
		if reg.scope != nil {
			reg.scope.Dispose()
			reg.scope = nil
		}
		reg.clear()
	})

	return &item{desc: desc, node: anchor, region: reg}
}

// teardown disposes every binding in the item's subtree and removes its
// output nodes from parent. Bindings run before removal so cleanup code
// still sees the nodes attached.
func (r *Runtime) teardown(parent backend.Node, it *item) {
	if it == nil {
		return
	}

	if it.node == nil {
		for _, c := range it.children {
			r.teardown(parent, c)
		}
		return
	}

	r.metrics.countTeardown()
	r.bindings.DisposeAll(it.node)
	r.removeNode(parent, it.node)
}
