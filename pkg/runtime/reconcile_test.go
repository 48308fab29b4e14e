package runtime_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

func renderList(t *testing.T) (*countingBackend, *reactive.Signal[[]string], func() string) {
	t.Helper()
	be, _, container, root := setup(t)

	items := reactive.NewSignal([]string{})
	root.Render(ui.Ul(ui.For(
		func() []string { return items.Get() },
		func(k string) string { return k },
		func(k string) *ui.Node { return ui.Li(ui.Text(k)) },
	)))

	return be, items, func() string { return htmlOf(container) }
}

func itemsHTML(keys ...string) string {
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, k := range keys {
		sb.WriteString("<li>" + k + "</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func TestListEmptyToEmpty(t *testing.T) {
	be, items, _ := renderList(t)
	be.reset()

	items.Set([]string{})

	for op, n := range be.counts {
		if n != 0 {
			t.Errorf("empty-to-empty caused %d %s ops", n, op)
		}
	}
}

func TestListMountAll(t *testing.T) {
	be, items, html := renderList(t)
	be.reset()

	items.Set([]string{"a", "b", "c"})

	if got := html(); got != itemsHTML("a", "b", "c") {
		t.Errorf("html = %q", got)
	}
	if be.counts["CreateNode"] != 3 {
		t.Errorf("CreateNode = %d, want 3", be.counts["CreateNode"])
	}
}

func TestListClearAll(t *testing.T) {
	be, items, html := renderList(t)
	items.Set([]string{"a", "b", "c"})
	be.reset()

	items.Set([]string{})

	if got := html(); got != itemsHTML() {
		t.Errorf("html = %q", got)
	}
	if be.counts["RemoveChild"] != 3 {
		t.Errorf("RemoveChild = %d, want 3", be.counts["RemoveChild"])
	}
	if be.counts["CreateNode"] != 0 {
		t.Errorf("CreateNode = %d, want 0", be.counts["CreateNode"])
	}
}

func TestListIdenticalIsNoOp(t *testing.T) {
	be, items, _ := renderList(t)
	items.Set([]string{"a", "b", "c"})
	be.reset()

	items.Set([]string{"a", "b", "c"})

	for op, n := range be.counts {
		if n != 0 {
			t.Errorf("identical list caused %d %s ops", n, op)
		}
	}
}

func TestReconcileNoOpWhenRowsUnchanged(t *testing.T) {
	be, _, _, root := setup(t)

	// The trigger forces the list effect to re-run even though the
	// produced rows are identical; reconciliation must emit nothing.
	trigger := reactive.NewSignal(0)
	root.Render(ui.Ul(ui.For(
		func() []string {
			trigger.Get()
			return []string{"a", "b", "c"}
		},
		func(k string) string { return k },
		func(k string) *ui.Node { return ui.Li(ui.Text(k)) },
	)))
	be.reset()

	trigger.Set(1)

	for op, n := range be.counts {
		if n != 0 {
			t.Errorf("unchanged rows caused %d %s ops", n, op)
		}
	}
}

func TestListAppendTouchesOnlyNewRow(t *testing.T) {
	be, items, html := renderList(t)
	items.Set([]string{"a", "b"})
	be.reset()

	items.Set([]string{"a", "b", "c"})

	if got := html(); got != itemsHTML("a", "b", "c") {
		t.Errorf("html = %q", got)
	}
	if be.counts["CreateNode"] != 1 {
		t.Errorf("CreateNode = %d, want 1", be.counts["CreateNode"])
	}
	if be.counts["RemoveChild"] != 0 || be.counts["UpdateText"] != 0 {
		t.Errorf("append touched existing rows: %v", be.counts)
	}
}

func TestListRemoveMiddle(t *testing.T) {
	be, items, html := renderList(t)
	items.Set([]string{"a", "b", "c"})
	be.reset()

	items.Set([]string{"a", "c"})

	if got := html(); got != itemsHTML("a", "c") {
		t.Errorf("html = %q", got)
	}
	if be.counts["RemoveChild"] != 1 {
		t.Errorf("RemoveChild = %d, want 1", be.counts["RemoveChild"])
	}
	if be.counts["CreateNode"] != 0 {
		t.Errorf("CreateNode = %d, want 0", be.counts["CreateNode"])
	}
}

func TestListPrependLargeListMovesOnce(t *testing.T) {
	be, items, html := renderList(t)

	keys := make([]string, 8)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	items.Set(keys)
	be.reset()

	// Move the last row to the front; everything else stays aligned.
	moved := append([]string{"k7"}, keys[:7]...)
	items.Set(moved)

	if got := html(); got != itemsHTML(moved...) {
		t.Errorf("html = %q", got)
	}
	if be.counts["InsertBefore"] != 1 {
		t.Errorf("InsertBefore = %d, want exactly 1 move", be.counts["InsertBefore"])
	}
	if be.counts["CreateNode"] != 0 || be.counts["RemoveChild"] != 0 {
		t.Errorf("reorder created or removed rows: %v", be.counts)
	}
}

func TestListReverseLargeKeepsNodes(t *testing.T) {
	be, items, html := renderList(t)

	keys := make([]string, 10)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	items.Set(keys)
	be.reset()

	reversed := make([]string, len(keys))
	for i, k := range keys {
		reversed[len(keys)-1-i] = k
	}
	items.Set(reversed)

	if got := html(); got != itemsHTML(reversed...) {
		t.Errorf("html = %q", got)
	}
	if be.counts["CreateNode"] != 0 || be.counts["CreateText"] != 0 {
		t.Errorf("reverse recreated rows: %v", be.counts)
	}
	if be.counts["RemoveChild"] != 0 {
		t.Errorf("reverse removed rows: %v", be.counts)
	}
}

func TestListReplaceAll(t *testing.T) {
	be, items, html := renderList(t)
	items.Set([]string{"a", "b"})
	be.reset()

	items.Set([]string{"x", "y"})

	if got := html(); got != itemsHTML("x", "y") {
		t.Errorf("html = %q", got)
	}
	if be.counts["CreateNode"] != 2 || be.counts["RemoveChild"] != 2 {
		t.Errorf("replace-all ops: %v", be.counts)
	}
}

func TestListRowContentPatchesInPlace(t *testing.T) {
	be, _, container, root := setup(t)

	type row struct{ id, label string }
	rows := reactive.NewSignal([]row{{"1", "one"}, {"2", "two"}})

	root.Render(ui.Ul(ui.For(
		func() []row { return rows.Get() },
		func(r row) string { return r.id },
		func(r row) *ui.Node { return ui.Li(ui.Text(r.label)) },
	)))
	be.reset()

	rows.Set([]row{{"1", "one"}, {"2", "TWO"}})

	if be.counts["CreateNode"] != 0 || be.counts["RemoveChild"] != 0 {
		t.Errorf("label change recreated rows: %v", be.counts)
	}
	if be.counts["UpdateText"] != 1 {
		t.Errorf("UpdateText = %d, want 1", be.counts["UpdateText"])
	}
	if got := htmlOf(container); got != "<ul><li>one</li><li>TWO</li></ul>" {
		t.Errorf("html = %q", got)
	}
}

func TestUnkeyedPositionalFallback(t *testing.T) {
	_, _, container, root := setup(t)

	items := reactive.NewSignal([]string{"a", "b"})
	root.Render(ui.Div(ui.Dyn(func() any {
		out := make([]*ui.Node, 0)
		for _, s := range items.Get() {
			out = append(out, ui.Span(ui.Text(s)))
		}
		return out
	})))

	if got := htmlOf(container); got != "<div><span>a</span><span>b</span></div>" {
		t.Fatalf("initial html = %q", got)
	}

	items.Set([]string{"x", "y", "z"})
	want := "<div><span>x</span><span>y</span><span>z</span></div>"
	if got := htmlOf(container); got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
}

func TestListSmallReorderWithRemoval(t *testing.T) {
	be, items, html := renderList(t)
	items.Set([]string{"a", "b", "c"})
	be.reset()

	items.Set([]string{"b", "a"})

	if got := html(); got != itemsHTML("b", "a") {
		t.Errorf("html = %q, want %q", got, itemsHTML("b", "a"))
	}
	// a is torn down when the scan skips to b, then remounted; c is
	// torn down at the tail.
	if be.counts["RemoveChild"] != 2 {
		t.Errorf("RemoveChild = %d, want 2", be.counts["RemoveChild"])
	}
	if be.counts["CreateNode"] != 1 {
		t.Errorf("CreateNode = %d, want 1", be.counts["CreateNode"])
	}
}

func TestListFragmentRowsMoveTogether(t *testing.T) {
	be, _, container, root := setup(t)

	keys := []string{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7"}
	rows := reactive.NewSignal(keys)
	root.Render(ui.Ul(ui.For(
		func() []string { return rows.Get() },
		func(k string) string { return k },
		func(k string) *ui.Node {
			return ui.Fragment(
				ui.Span(ui.Text(k+"-a")),
				ui.Span(ui.Text(k+"-b")),
			)
		},
	)))
	be.reset()

	moved := append([]string{"k7"}, keys[:7]...)
	rows.Set(moved)

	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, k := range moved {
		sb.WriteString("<span>" + k + "-a</span><span>" + k + "-b</span>")
	}
	sb.WriteString("</ul>")
	if got := htmlOf(container); got != sb.String() {
		t.Errorf("html = %q, want %q", got, sb.String())
	}

	// Both spans of the moved row relocate as a unit; nothing is
	// rebuilt.
	if be.counts["InsertBefore"] != 2 {
		t.Errorf("InsertBefore = %d, want 2", be.counts["InsertBefore"])
	}
	if be.counts["CreateNode"] != 0 || be.counts["RemoveChild"] != 0 {
		t.Errorf("CreateNode = %d, RemoveChild = %d, want 0 and 0",
			be.counts["CreateNode"], be.counts["RemoveChild"])
	}
}

func TestListComponentRowsMoveWithContent(t *testing.T) {
	be, _, container, root := setup(t)

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	rows := reactive.NewSignal(keys)
	root.Render(ui.Ul(ui.For(
		func() []string { return rows.Get() },
		func(k string) string { return k },
		func(k string) *ui.Node {
			return ui.Func(func() *ui.Node { return ui.Li(ui.Text(k)) })
		},
	)))

	if got := htmlOf(container); got != itemsHTML(keys...) {
		t.Fatalf("initial html = %q", got)
	}
	be.reset()

	rev := make([]string, len(keys))
	for i, k := range keys {
		rev[len(keys)-1-i] = k
	}
	rows.Set(rev)

	if got := htmlOf(container); got != itemsHTML(rev...) {
		t.Errorf("html = %q, want %q", got, itemsHTML(rev...))
	}
	if be.counts["CreateNode"] != 0 || be.counts["RemoveChild"] != 0 {
		t.Errorf("CreateNode = %d, RemoveChild = %d, want 0 and 0",
			be.counts["CreateNode"], be.counts["RemoveChild"])
	}
}
