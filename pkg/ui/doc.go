// Package ui defines the declarative node descriptions the runtime
// mounts: elements, text, fragments, function components, dynamic
// reactive regions, and keyed lists. Descriptions form a closed tagged
// union (Kind) so the mount engine dispatches once per node instead of
// probing shapes.
package ui
