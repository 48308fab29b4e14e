// Package runtime turns description trees into live output trees.
//
// The engine is fine-grained: a description is rendered once, and every
// reactive leaf in it (a prop bound to a signal, a dynamic text
// expression, a keyed list) gets its own effect that surgically updates
// the backend when its inputs change. Nothing diffs the whole tree on
// update.
//
// The moving parts:
//
//   - mount walks a description and produces backend nodes, installing
//     one effect per reactive position.
//   - anchor-based regions give dynamic content a stable location:
//     an empty text node marks the spot and the effect swaps content
//     after it.
//   - the keyed reconciler keeps list updates minimal: patch in place
//     on a key hit, one move per displaced row, mount/teardown only at
//     the edges.
//   - Bindings is the side table tying effect disposal to output
//     nodes, cascaded on removal so nothing leaks.
//   - Scheduler optionally coalesces text/attribute writes into
//     per-tick flushes.
//
// Backends are pluggable: memdom for in-process trees and tests, wire
// for streaming mutations to a remote client.
package runtime
