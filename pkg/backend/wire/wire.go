// Package wire is an output backend that mirrors every mutation into a
// patch stream. It keeps a local shadow tree (memdom) so the runtime's
// sibling/child walks behave exactly like any other backend, and emits
// one protocol.Patch per mutation to a caller-supplied sink. A live
// session points the sink at its websocket write pump.
package wire

import (
	"fmt"
	"strings"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/protocol"
)

// Sink receives emitted patches in mutation order.
type Sink func(protocol.Patch)

// Backend mirrors output mutations into a patch stream.
type Backend struct {
	tree *memdom.Backend
	sink Sink

	// handlers holds event handler props by node ID and event name.
	// Handlers never cross the wire; the client sends Event messages
	// back and DispatchEvent routes them here.
	handlers map[uint64]map[string]any
}

// New creates a wire backend emitting into sink.
func New(sink Sink) *Backend {
	return &Backend{
		tree:     memdom.New(),
		sink:     sink,
		handlers: make(map[uint64]map[string]any),
	}
}

// DispatchEvent invokes the handler registered for the event's node and
// name. Reports whether a handler was found.
func (b *Backend) DispatchEvent(ev *protocol.Event) bool {
	byName, ok := b.handlers[ev.Node]
	if !ok {
		return false
	}
	h, ok := byName[ev.Name]
	if !ok {
		return false
	}

	switch fn := h.(type) {
	case func():
		fn()
	case func(string):
		fn(ev.Value)
	case func(*protocol.Event):
		fn(ev)
	default:
		return false
	}
	return true
}

// captureHandler records an event handler prop for dispatch.
func (b *Backend) captureHandler(nodeID uint64, key string, v any) {
	name := strings.TrimPrefix(key, "on")
	if b.handlers[nodeID] == nil {
		b.handlers[nodeID] = make(map[string]any)
	}
	b.handlers[nodeID][name] = v
}

// dropHandlers forgets handlers for a removed subtree.
func (b *Backend) dropHandlers(n *memdom.Node) {
	delete(b.handlers, n.ID)
	for _, c := range n.Children() {
		b.dropHandlers(c)
	}
}

// NewRoot creates the session's container node.
func (b *Backend) NewRoot() *memdom.Node {
	return b.tree.NewRoot()
}

// CreateNode creates an element and emits CreateElement.
func (b *Backend) CreateNode(tag string, props map[string]any) backend.Node {
	n := b.tree.CreateNode(tag, props).(*memdom.Node)

	for k, v := range props {
		if wireSkip(k) {
			b.captureHandler(n.ID, k, v)
		}
	}

	b.sink(protocol.Patch{
		Op:    protocol.PatchCreateElement,
		Node:  n.ID,
		Tag:   tag,
		Attrs: wireAttrs(props),
	})
	return n
}

// UpdateNode applies a prop diff and emits SetAttr/RemoveAttr per key.
func (b *Backend) UpdateNode(node backend.Node, oldProps, newProps map[string]any) {
	n, ok := node.(*memdom.Node)
	if !ok {
		return
	}

	b.tree.UpdateNode(node, oldProps, newProps)

	for k := range oldProps {
		if wireSkip(k) {
			continue
		}
		if _, keep := newProps[k]; !keep {
			b.sink(protocol.Patch{Op: protocol.PatchRemoveAttr, Node: n.ID, Key: k})
		}
	}
	for k, v := range newProps {
		if wireSkip(k) {
			b.captureHandler(n.ID, k, v)
			continue
		}
		b.sink(protocol.Patch{
			Op:    protocol.PatchSetAttr,
			Node:  n.ID,
			Key:   k,
			Value: wireValue(v),
		})
	}
}

// CreateText creates a text node and emits CreateText.
func (b *Backend) CreateText(text string) backend.Node {
	n := b.tree.CreateText(text).(*memdom.Node)
	b.sink(protocol.Patch{Op: protocol.PatchCreateText, Node: n.ID, Value: text})
	return n
}

// UpdateText updates a text node and emits SetText.
func (b *Backend) UpdateText(node backend.Node, text string) {
	n, ok := node.(*memdom.Node)
	if !ok {
		return
	}
	b.tree.UpdateText(node, text)
	b.sink(protocol.Patch{Op: protocol.PatchSetText, Node: n.ID, Value: text})
}

// AppendChild appends and emits Append.
func (b *Backend) AppendChild(parent, child backend.Node) {
	p, pok := parent.(*memdom.Node)
	c, cok := child.(*memdom.Node)
	if !pok || !cok {
		return
	}
	b.tree.AppendChild(parent, child)
	b.sink(protocol.Patch{Op: protocol.PatchAppend, Node: c.ID, Parent: p.ID})
}

// InsertBefore inserts and emits InsertBefore (Ref 0 means append).
func (b *Backend) InsertBefore(parent, child, ref backend.Node) {
	p, pok := parent.(*memdom.Node)
	c, cok := child.(*memdom.Node)
	if !pok || !cok {
		return
	}

	var refID uint64
	if r, ok := ref.(*memdom.Node); ok && r != nil {
		refID = r.ID
	}

	b.tree.InsertBefore(parent, child, ref)
	b.sink(protocol.Patch{
		Op:     protocol.PatchInsertBefore,
		Node:   c.ID,
		Parent: p.ID,
		Ref:    refID,
	})
}

// RemoveChild removes and emits Remove.
func (b *Backend) RemoveChild(parent, child backend.Node) {
	p, pok := parent.(*memdom.Node)
	c, cok := child.(*memdom.Node)
	if !pok || !cok {
		return
	}
	b.tree.RemoveChild(parent, child)
	b.dropHandlers(c)
	b.sink(protocol.Patch{Op: protocol.PatchRemove, Node: c.ID, Parent: p.ID})
}

// NextSibling delegates to the shadow tree.
func (b *Backend) NextSibling(n backend.Node) backend.Node {
	return b.tree.NextSibling(n)
}

// FirstChild delegates to the shadow tree.
func (b *Backend) FirstChild(n backend.Node) backend.Node {
	return b.tree.FirstChild(n)
}

// wireSkip reports whether a prop stays local: event handlers are not
// serializable and travel as registrations, not attributes.
func wireSkip(key string) bool {
	return strings.HasPrefix(key, "on")
}

// wireAttrs stringifies serializable props for the wire.
func wireAttrs(props map[string]any) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		if wireSkip(k) {
			continue
		}
		out[k] = wireValue(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func wireValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
