package runtime_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/runtime"
)

func TestBindingsDisposeExactlyOnce(t *testing.T) {
	be := memdom.New()
	b := runtime.NewBindings(be)

	node := be.CreateNode("div", nil)
	calls := 0
	b.Register(node, func() { calls++ })

	b.DisposeAll(node)
	b.DisposeAll(node)

	if calls != 1 {
		t.Errorf("dispose ran %d times, want 1", calls)
	}
	if got := b.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestBindingsCascadeDepthFirst(t *testing.T) {
	be := memdom.New()
	b := runtime.NewBindings(be)

	parent := be.CreateNode("div", nil)
	child := be.CreateNode("span", nil)
	grandchild := be.CreateText("leaf")
	be.AppendChild(parent, child)
	be.AppendChild(child, grandchild)

	var order []string
	b.Register(parent, func() { order = append(order, "parent") })
	b.Register(child, func() { order = append(order, "child") })
	b.Register(grandchild, func() { order = append(order, "grandchild") })

	b.DisposeAll(parent)

	want := []string{"parent", "child", "grandchild"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if got := b.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestBindingsMultiplePerNode(t *testing.T) {
	be := memdom.New()
	b := runtime.NewBindings(be)

	node := be.CreateNode("div", nil)
	calls := 0
	b.Register(node, func() { calls++ })
	b.Register(node, func() { calls++ })

	b.DisposeAll(node)

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestBindingsNilSafe(t *testing.T) {
	be := memdom.New()
	b := runtime.NewBindings(be)

	b.Register(nil, func() {})
	b.Register(be.CreateNode("div", nil), nil)
	b.DisposeAll(nil)

	if got := b.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}
