package runtime

import (
	"strconv"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/ui"
)

// smallListMax is the cutoff below which reconciliation uses the
// two-pointer scan instead of building a key index. Tuned for the
// common case of short child lists; the crossover is flat in practice.
const smallListMax = 5

// keyOf returns an item's reconciliation identity: the explicit key, or
// a positional fallback that still separates nodes of different types
// at the same index.
func keyOf(desc *ui.Node, pos int) string {
	if desc.Key != "" {
		return desc.Key
	}
	return "__idx_" + strconv.Itoa(pos) + "_" + desc.TypeKey()
}

// sameIdentity reports whether old (at oldPos in the old list) and nd
// (at newPos in the new list) describe the same mounted thing.
func sameIdentity(old *item, oldPos int, nd *ui.Node, newPos int) bool {
	return old.desc.TypeKey() == nd.TypeKey() &&
		keyOf(old.desc, oldPos) == keyOf(nd, newPos)
}

// reconcile updates the children of parent described by items to match
// descs, reusing mounted nodes by key. Appends at the end of the run
// insert before ref (nil ref appends to parent). Returns the new item
// list.
//
// Three tiers: trivial empty cases, a two-pointer scan for short lists,
// and a keyed index with a position cursor for everything else.
func (r *Runtime) reconcile(parent backend.Node, items []*item, descs []*ui.Node, ref backend.Node) []*item {
	oldLen, newLen := len(items), len(descs)

	if oldLen == 0 && newLen == 0 {
		return nil
	}

	if newLen == 0 {
		for _, it := range items {
			r.teardown(parent, it)
		}
		return nil
	}

	if oldLen == 0 {
		out := make([]*item, 0, newLen)
		for _, d := range descs {
			if it := r.mount(d, parent, ref); it != nil {
				out = append(out, it)
			}
		}
		return out
	}

	if oldLen <= smallListMax && newLen <= smallListMax {
		return r.reconcileSmall(parent, items, descs, ref)
	}
	return r.reconcileKeyed(parent, items, descs, ref)
}

// reconcileSmall walks both lists with two pointers. On a mismatch it
// scans ahead in the old list: a later match means the skipped prefix
// was removed; no match means the new entry is an insertion.
func (r *Runtime) reconcileSmall(parent backend.Node, items []*item, descs []*ui.Node, ref backend.Node) []*item {
	out := make([]*item, 0, len(descs))
	oldIdx, newIdx := 0, 0

	for newIdx < len(descs) {
		nd := descs[newIdx]

		if oldIdx >= len(items) {
			if it := r.mount(nd, parent, ref); it != nil {
				out = append(out, it)
			}
			newIdx++
			continue
		}

		if sameIdentity(items[oldIdx], oldIdx, nd, newIdx) {
			r.patch(parent, items[oldIdx], nd)
			out = append(out, items[oldIdx])
			oldIdx++
			newIdx++
			continue
		}

		found := -1
		for j := oldIdx + 1; j < len(items); j++ {
			if sameIdentity(items[j], j, nd, newIdx) {
				found = j
				break
			}
		}

		if found >= 0 {
			for j := oldIdx; j < found; j++ {
				r.teardown(parent, items[j])
			}
			oldIdx = found
			r.patch(parent, items[oldIdx], nd)
			out = append(out, items[oldIdx])
			oldIdx++
			newIdx++
			continue
		}

		before := items[oldIdx].firstNode()
		if before == nil {
			before = ref
		}
		if it := r.mount(nd, parent, before); it != nil {
			out = append(out, it)
		}
		newIdx++
	}

	for ; oldIdx < len(items); oldIdx++ {
		r.teardown(parent, items[oldIdx])
	}

	return out
}

// reconcileKeyed indexes the old list by key and makes a single forward
// pass over the new list, tracking the backend node expected at the
// current position. A hit that already sits at the cursor costs
// nothing; a hit elsewhere is moved into place; a miss mounts fresh.
// Old items never matched are torn down at the end.
func (r *Runtime) reconcileKeyed(parent backend.Node, items []*item, descs []*ui.Node, ref backend.Node) []*item {
	index := make(map[string]int, len(items))
	for i, it := range items {
		index[keyOf(it.desc, i)] = i
	}
	seen := make([]bool, len(items))

	cursor := firstLiveNode(items)
	if cursor == nil {
		cursor = ref
	}
	insertRef := func() backend.Node {
		if cursor != nil {
			return cursor
		}
		return ref
	}

	out := make([]*item, 0, len(descs))
	for newIdx, nd := range descs {
		oldIdx, hit := index[keyOf(nd, newIdx)]
		if hit && !seen[oldIdx] && items[oldIdx].desc.TypeKey() == nd.TypeKey() {
			it := items[oldIdx]
			seen[oldIdx] = true
			r.patch(parent, it, nd)

			// A row may span several sibling nodes (fragment children,
			// a region's anchor plus content); all of them move as one
			// unit, and the cursor skips past the whole run.
			if nodes := it.liveNodes(nil); len(nodes) > 0 {
				if nodes[0] == cursor {
					cursor = r.backend.NextSibling(nodes[len(nodes)-1])
				} else {
					for _, n := range nodes {
						r.insert(parent, n, insertRef())
					}
					r.metrics.countMove()
				}
			}
			out = append(out, it)
			continue
		}

		if it := r.mount(nd, parent, insertRef()); it != nil {
			out = append(out, it)
		}
	}

	for i, it := range items {
		if !seen[i] {
			r.teardown(parent, it)
		}
	}

	return out
}

func firstLiveNode(items []*item) backend.Node {
	for _, it := range items {
		if n := it.firstNode(); n != nil {
			return n
		}
	}
	return nil
}

// patch updates a mounted item in place to match a new description of
// the same type; parent is the backend node the item was mounted into.
// Text gets a content update; elements get a prop diff and child
// reconciliation. Dynamic regions keep their installed effect: the
// effect owns the content and re-renders independently, so a new
// description of the same type needs no work here.
func (r *Runtime) patch(parent backend.Node, it *item, nd *ui.Node) {
	switch nd.Kind {
	case ui.KindText:
		if it.desc.Text != nd.Text {
			node := it.node
			text := nd.Text
			r.applyValue(func() {
				r.backend.UpdateText(node, text)
			})
			r.metrics.countOp("update_text")
		}

	case ui.KindElement:
		r.patchProps(it, nd)
		r.patchChildren(it, nd)

	case ui.KindFragment:
		it.children = r.reconcile(parent, it.children, nd.Children, nil)
	}

	it.desc = nd
}

// patchProps diffs static props and applies the minimal update. Props
// whose value is reactive are skipped in both directions: they are
// driven by the effect installed at mount time.
func (r *Runtime) patchProps(it *item, nd *ui.Node) {
	var removed, changed map[string]any

	for k, ov := range it.desc.Props {
		if isReactiveValue(ov) {
			continue
		}
		nv, keep := nd.Props[k]
		if !keep {
			if removed == nil {
				removed = make(map[string]any)
			}
			removed[k] = ov
			continue
		}
		if isReactiveValue(nv) {
			continue
		}
		if !propsEqual(ov, nv) {
			if removed == nil {
				removed = make(map[string]any)
			}
			if changed == nil {
				changed = make(map[string]any)
			}
			removed[k] = ov
			changed[k] = nv
		}
	}
	for k, nv := range nd.Props {
		if isReactiveValue(nv) {
			continue
		}
		if _, present := it.desc.Props[k]; !present {
			if changed == nil {
				changed = make(map[string]any)
			}
			changed[k] = nv
		}
	}

	if len(removed) == 0 && len(changed) == 0 {
		return
	}

	node := it.node
	r.applyValue(func() {
		r.backend.UpdateNode(node, removed, changed)
	})
	r.metrics.countOp("update_prop")
}

// patchChildren updates an element's mounted children. The single
// text child case skips reconciliation entirely and writes the text
// straight through; everything else recurses.
func (r *Runtime) patchChildren(it *item, nd *ui.Node) {
	if len(it.children) == 1 && len(nd.Children) == 1 &&
		it.children[0].desc.Kind == ui.KindText &&
		nd.Children[0].Kind == ui.KindText {
		r.patch(it.node, it.children[0], nd.Children[0])
		return
	}

	it.children = r.reconcile(it.node, it.children, nd.Children, nil)
}
