package main

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

// demoApp is the built-in demo used by serve and export: a counter and
// a keyed todo list exercising dynamic text, reactive props, and list
// reconciliation.
func demoApp() *ui.Node {
	count := reactive.NewSignal(0)
	todos := reactive.NewSignal([]string{"learn filament", "ship something"})

	return ui.Div(
		ui.H1(ui.Text("Filament demo")),

		ui.Section(
			ui.P(
				ui.Text("count: "),
				ui.Dyn(func() any { return count.Get() }),
			),
			ui.Button(
				ui.On("click", func() { count.Update(func(n int) int { return n + 1 }) }),
				ui.Text("+1"),
			),
		),

		ui.Section(
			ui.Ul(
				ui.For(
					func() []string { return todos.Get() },
					func(t string) string { return t },
					func(t string) *ui.Node {
						return ui.Li(ui.Text(t))
					},
				),
			),
			ui.Button(
				ui.On("click", func() {
					todos.Update(func(ts []string) []string {
						return append(ts, fmt.Sprintf("todo %d", len(ts)+1))
					})
				}),
				ui.Text("add"),
			),
		),
	)
}
