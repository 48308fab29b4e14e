// Package reactive implements the dependency-tracked execution model
// the runtime is built on: signals (reactively readable containers),
// memos (cached derived values), effects (functions re-run when their
// dependencies change), and owners (scopes that dispose everything
// created inside them).
//
// The model is single-threaded and cooperative. Reads performed while
// an effect or memo runs subscribe it to the value read; writes re-run
// dependents synchronously, one at a time, unless grouped with Batch.
package reactive
