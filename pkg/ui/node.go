package ui

import (
	"reflect"
	"strconv"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindComponent             // Function component
	KindDynamic               // Reactive expression re-evaluated per change
	KindList                  // Keyed list helper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindDynamic:
		return "Dynamic"
	case KindList:
		return "List"
	default:
		return "Unknown"
	}
}

// RenderFunc is a function component body. It is re-invoked on every
// dependency change, so it must be cheap and must read its reactive
// inputs through signals.
type RenderFunc func() *Node

// Node is an immutable description of desired output. Descriptions are
// created declaratively each render pass and are cheap and disposable;
// the runtime associates them with live output nodes.
type Node struct {
	Kind     Kind    // Node type
	Tag      string  // Element tag name (e.g., "div")
	Props    Props   // Attributes; values may be reactive
	Children []*Node // Child descriptions
	Key      string  // Reconciliation key
	Text     string  // For KindText
	Render   RenderFunc // For KindComponent
	Expr     func() any // For KindDynamic
	List     func() []*Node // For KindList: produces keyed children
}

// Props holds attributes. A value may be a plain value or a reactive
// one (a reactive.Source or a zero-argument function); reactive values
// get a dedicated effect during mounting.
type Props map[string]any

// TypeKey returns the reconciliation identity of this description.
// Two descriptions with equal keys and equal TypeKeys are patched in
// place; anything else is replaced.
func (n *Node) TypeKey() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindElement:
		return "e:" + n.Tag
	case KindText:
		return "#text"
	case KindFragment:
		return "#fragment"
	case KindComponent:
		// Components of the same function are the same type.
		return "c:" + strconv.FormatUint(uint64(reflect.ValueOf(n.Render).Pointer()), 16)
	case KindDynamic:
		return "#dyn"
	case KindList:
		return "#list"
	default:
		return "#unknown"
	}
}

// IsInteractive reports whether this element carries event handler
// props ("on"-prefixed), which live backends surface to the client.
func (n *Node) IsInteractive() bool {
	if n == nil || n.Kind != KindElement {
		return false
	}
	for key := range n.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr represents a single attribute passed to an element builder.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether this is an empty attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}
