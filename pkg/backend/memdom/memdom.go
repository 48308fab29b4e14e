// Package memdom is an in-memory implementation of the output backend:
// a host tree with the same parent/child/sibling semantics as a real
// DOM. It backs the core's tests, the static exporter, and server-side
// sessions that snapshot to HTML.
package memdom

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
)

// Node is one node in the in-memory tree.
type Node struct {
	// ID is a stable integer identity, unique per Backend.
	ID uint64

	// Tag is the element tag; empty for text nodes.
	Tag string

	// Text is the content of a text node.
	Text string

	// Attrs holds the element's current attributes.
	Attrs map[string]any

	parent   *Node
	children []*Node
	isText   bool
}

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.isText }

// Parent returns the node's parent, or nil if detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children. The returned slice is the live
// backing array; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// voidTags are elements serialized without a closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Backend is the in-memory output backend.
type Backend struct {
	nextID uint64
}

// New creates an in-memory backend.
func New() *Backend {
	return &Backend{}
}

// NewRoot creates a detached container node to mount into.
func (b *Backend) NewRoot() *Node {
	return &Node{ID: atomic.AddUint64(&b.nextID, 1), Tag: "#root"}
}

// CreateNode creates an element node with the given static props.
func (b *Backend) CreateNode(tag string, props map[string]any) backend.Node {
	n := &Node{
		ID:  atomic.AddUint64(&b.nextID, 1),
		Tag: tag,
	}
	if len(props) > 0 {
		n.Attrs = make(map[string]any, len(props))
		for k, v := range props {
			n.Attrs[k] = v
		}
	}
	return n
}

// UpdateNode applies the prop difference to an element.
func (b *Backend) UpdateNode(node backend.Node, oldProps, newProps map[string]any) {
	n, ok := node.(*Node)
	if !ok || n.isText {
		return
	}

	for k := range oldProps {
		if _, keep := newProps[k]; !keep {
			delete(n.Attrs, k)
		}
	}
	for k, v := range newProps {
		if n.Attrs == nil {
			n.Attrs = make(map[string]any, len(newProps))
		}
		n.Attrs[k] = v
	}
}

// CreateText creates a text node.
func (b *Backend) CreateText(text string) backend.Node {
	return &Node{
		ID:     atomic.AddUint64(&b.nextID, 1),
		Text:   text,
		isText: true,
	}
}

// UpdateText replaces a text node's content.
func (b *Backend) UpdateText(node backend.Node, text string) {
	if n, ok := node.(*Node); ok && n.isText {
		n.Text = text
	}
}

// AppendChild appends child as the last child of parent.
func (b *Backend) AppendChild(parent, child backend.Node) {
	p, c := parent.(*Node), child.(*Node)
	if p == nil || c == nil {
		return
	}
	detach(c)
	c.parent = p
	p.children = append(p.children, c)
}

// InsertBefore inserts child into parent immediately before ref.
// A nil ref appends.
func (b *Backend) InsertBefore(parent, child, ref backend.Node) {
	p, c := parent.(*Node), child.(*Node)
	if p == nil || c == nil {
		return
	}

	r, _ := ref.(*Node)
	if r == nil {
		b.AppendChild(parent, child)
		return
	}

	detach(c)
	for i, existing := range p.children {
		if existing == r {
			c.parent = p
			p.children = append(p.children, nil)
			copy(p.children[i+1:], p.children[i:])
			p.children[i] = c
			return
		}
	}
	// Ref not under parent; fall back to append.
	c.parent = p
	p.children = append(p.children, c)
}

// RemoveChild detaches child from parent.
func (b *Backend) RemoveChild(parent, child backend.Node) {
	p, c := parent.(*Node), child.(*Node)
	if p == nil || c == nil || c.parent != p {
		return
	}
	detach(c)
}

// NextSibling returns the node following n under its parent, or nil.
func (b *Backend) NextSibling(node backend.Node) backend.Node {
	n, ok := node.(*Node)
	if !ok || n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	for i, s := range siblings {
		if s == n {
			if i+1 < len(siblings) {
				return siblings[i+1]
			}
			return nil
		}
	}
	return nil
}

// FirstChild returns n's first child, or nil.
func (b *Backend) FirstChild(node backend.Node) backend.Node {
	n, ok := node.(*Node)
	if !ok || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// detach removes n from its current parent, if any.
func detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// HTML serializes the subtree rooted at n. The synthetic #root
// container contributes only its children. Attributes are sorted for
// deterministic output; "on"-prefixed handler props are skipped.
func HTML(n *Node) string {
	var sb strings.Builder
	writeHTML(&sb, n)
	return sb.String()
}

func writeHTML(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}

	if n.isText {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	if n.Tag == "#root" {
		for _, c := range n.children {
			writeHTML(sb, c)
		}
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		if strings.HasPrefix(k, "on") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := n.Attrs[k]
		if b, ok := v.(bool); ok {
			if b {
				sb.WriteByte(' ')
				sb.WriteString(k)
			}
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(fmt.Sprintf("%v", v)))
		sb.WriteByte('"')
	}

	if voidTags[n.Tag] {
		sb.WriteString(">")
		return
	}

	sb.WriteByte('>')
	for _, c := range n.children {
		writeHTML(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}
