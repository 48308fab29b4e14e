// Package backend defines the output capability the runtime renders
// through. The runtime never assumes a concrete host: an in-memory
// tree, a patch stream to a browser, or anything else satisfying
// Backend behaves identically under the core's algorithms.
package backend

// Node is an opaque handle to one host node, owned by the Backend that
// created it. Handles must be comparable: the runtime keys its binding
// side table on them.
type Node any

// Backend is the output capability. All mutation goes through these
// operations; the runtime issues them either directly or via the update
// scheduler.
type Backend interface {
	// CreateNode creates an element node with the given static props.
	CreateNode(tag string, props map[string]any) Node

	// UpdateNode applies the difference between oldProps and newProps
	// to an existing element. Keys present only in oldProps are
	// removed; changed or added keys are set.
	UpdateNode(n Node, oldProps, newProps map[string]any)

	// CreateText creates a text node.
	CreateText(text string) Node

	// UpdateText replaces a text node's content in place.
	UpdateText(n Node, text string)

	// AppendChild appends child as the last child of parent.
	AppendChild(parent, child Node)

	// InsertBefore inserts child into parent immediately before ref.
	// A nil ref appends.
	InsertBefore(parent, child, ref Node)

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node)

	// NextSibling returns the node following n under its parent, or nil.
	NextSibling(n Node) Node

	// FirstChild returns n's first child, or nil. Together with
	// NextSibling this lets callers walk the live output tree, which
	// the binding registry needs for its teardown cascade.
	FirstChild(n Node) Node
}
