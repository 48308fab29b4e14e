package runtime

import (
	"sync"

	"github.com/filament-ui/filament/pkg/backend"
)

// Bindings is the side table tying reactive disposers to the output
// nodes they serve. Backend nodes are opaque handles, so cleanup state
// lives here rather than on the nodes themselves. When a subtree leaves
// the output tree, DisposeAll cascades through it and runs every
// registered disposer exactly once.
type Bindings struct {
	backend backend.Backend

	mu    sync.Mutex
	table map[backend.Node][]*binding
}

type binding struct {
	dispose func()
	done    bool
}

func (b *binding) run() {
	if b.done {
		return
	}
	b.done = true
	b.dispose()
}

// NewBindings creates an empty registry over the given backend. The
// backend is needed for the child walk during cascaded disposal.
func NewBindings(be backend.Backend) *Bindings {
	return &Bindings{
		backend: be,
		table:   make(map[backend.Node][]*binding),
	}
}

// Register ties dispose to node. Disposal is idempotent: the callback
// runs at most once no matter how often it is triggered.
func (b *Bindings) Register(node backend.Node, dispose func()) {
	if node == nil || dispose == nil {
		return
	}
	b.mu.Lock()
	b.table[node] = append(b.table[node], &binding{dispose: dispose})
	b.mu.Unlock()
}

// DisposeAll runs and forgets every binding for node, then recurses
// into the node's current output children. The walk uses the live tree,
// so disposers that prune their own region (a dynamic anchor clearing
// its content) shrink the remaining walk instead of breaking it: the
// next sibling is read only after the current child's disposal ran.
func (b *Bindings) DisposeAll(node backend.Node) {
	if node == nil {
		return
	}

	b.mu.Lock()
	list := b.table[node]
	delete(b.table, node)
	b.mu.Unlock()

	for _, bd := range list {
		bd.run()
	}

	for c := b.backend.FirstChild(node); c != nil; {
		b.DisposeAll(c)
		c = b.backend.NextSibling(c)
	}
}

// Len returns the number of nodes with live bindings. Zero after a full
// unmount; anything else is a leak.
func (b *Bindings) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.table)
}
