package ui

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/reactive"
)

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// El creates an element description. Args are scanned by type: Attr
// values become props, *Node values (and anything coercible to one)
// become children, and nil args are skipped.
//
//	El("div", Class("card"),
//	    El("h1", Text("Hello")),
//	    count, // a signal mounts as a dynamic text region
//	)
func El(tag string, args ...any) *Node {
	node := &Node{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.IsEmpty() {
				continue
			}
			if v.Key == "key" {
				node.Key = fmt.Sprintf("%v", v.Value)
				continue
			}
			if node.Props == nil {
				node.Props = make(Props)
			}
			node.Props[v.Key] = v.Value
		case []Attr:
			for _, a := range v {
				if a.IsEmpty() {
					continue
				}
				if node.Props == nil {
					node.Props = make(Props)
				}
				node.Props[a.Key] = a.Value
			}
		default:
			appendChild(&node.Children, arg)
		}
	}

	return node
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	node := &Node{Kind: KindFragment}
	for _, child := range children {
		appendChild(&node.Children, child)
	}
	return node
}

// Func wraps a render function as a component description. The function
// re-runs whenever a signal it read changes, and nested effects it
// creates are disposed together before each re-run.
func Func(render RenderFunc) *Node {
	return &Node{
		Kind:   KindComponent,
		Render: render,
	}
}

// Dyn wraps a reactive expression as a dynamic child region. The
// expression may yield a *Node, a []*Node, a primitive (rendered as
// text), or nil.
func Dyn(expr func() any) *Node {
	return &Node{
		Kind: KindDynamic,
		Expr: expr,
	}
}

// Bind mounts a reactive source as a dynamic child region.
// Equivalent to Dyn(src.Value) but reads as intent.
func Bind(src reactive.Source) *Node {
	return &Node{
		Kind: KindDynamic,
		Expr: src.Value,
	}
}

// For creates a keyed list description. items produces the current
// slice, key derives a stable identity per item, and render maps one
// item to its description. Lists reconcile by key, so reorders move
// existing output nodes instead of recreating them.
//
//	For(todos.Get, func(t Todo) string { return t.ID },
//	    func(t Todo) *Node { return El("li", Text(t.Title)) })
func For[T any](items func() []T, key func(T) string, render func(T) *Node) *Node {
	return &Node{
		Kind: KindList,
		List: func() []*Node {
			src := items()
			out := make([]*Node, 0, len(src))
			for _, item := range src {
				n := render(item)
				if n == nil {
					continue
				}
				n.Key = key(item)
				out = append(out, n)
			}
			return out
		},
	}
}

// appendChild coerces an El/Fragment argument into child descriptions.
// Unknown shapes render nothing, matching the tolerance policy for
// malformed descriptions.
func appendChild(children *[]*Node, arg any) {
	switch v := arg.(type) {
	case nil:
	case *Node:
		if v != nil {
			*children = append(*children, v)
		}
	case []*Node:
		for _, c := range v {
			if c != nil {
				*children = append(*children, c)
			}
		}
	case string:
		*children = append(*children, Text(v))
	case int:
		*children = append(*children, Textf("%d", v))
	case int64:
		*children = append(*children, Textf("%d", v))
	case float64:
		*children = append(*children, Textf("%v", v))
	case bool:
		// false renders nothing; true has no sensible rendering either.
	case reactive.Source:
		*children = append(*children, Bind(v))
	case func() any:
		*children = append(*children, Dyn(v))
	case RenderFunc:
		*children = append(*children, Func(v))
	case func() *Node:
		*children = append(*children, Func(v))
	}
}
