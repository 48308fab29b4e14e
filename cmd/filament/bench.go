package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/ui"
)

func benchCmd() *cobra.Command {
	var (
		rows  int
		iters int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark mount and reconcile against the in-memory backend",
		Long: `Mount a keyed list, then repeatedly shuffle, grow, and shrink it,
reporting wall time and backend mutation counts per phase.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()
			info("rows=%d iterations=%d seed=%d", rows, iters, seed)

			rng := rand.New(rand.NewSource(seed))

			be := memdom.New()
			container := be.NewRoot()
			rt := runtime.New(be)
			root := rt.CreateRoot(container)

			keys := make([]string, rows)
			for i := range keys {
				keys[i] = fmt.Sprintf("row-%d", i)
			}
			items := reactive.NewSignal(keys)

			list := ui.Div(ui.Ul(ui.For(
				func() []string { return items.Get() },
				func(k string) string { return k },
				func(k string) *ui.Node { return ui.Li(ui.Text(k)) },
			)))

			start := time.Now()
			root.Render(list)
			info("mount:    %12s  (%d rows)", time.Since(start), rows)

			start = time.Now()
			for i := 0; i < iters; i++ {
				items.Update(func(ks []string) []string {
					out := append([]string(nil), ks...)
					rng.Shuffle(len(out), func(a, b int) {
						out[a], out[b] = out[b], out[a]
					})
					return out
				})
			}
			info("shuffle:  %12s  (%d iterations)", time.Since(start), iters)

			start = time.Now()
			for i := 0; i < iters; i++ {
				items.Update(func(ks []string) []string {
					return append(append([]string(nil), ks...),
						fmt.Sprintf("extra-%d", i))
				})
			}
			info("append:   %12s  (%d iterations)", time.Since(start), iters)

			start = time.Now()
			items.Set(keys[:rows/2])
			info("truncate: %12s  (to %d rows)", time.Since(start), rows/2)

			root.Unmount()
			success("done; %d live bindings after unmount", rt.Bindings().Len())
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 1000, "List size")
	cmd.Flags().IntVarP(&iters, "iterations", "i", 100, "Iterations per phase")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Shuffle seed")

	return cmd
}
