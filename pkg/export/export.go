// Package export renders description trees to static HTML, for
// snapshots, prerendering, and publishing.
package export

import (
	"strings"

	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/runtime"
	"github.com/filament-ui/filament/pkg/ui"
)

// Snapshot mounts desc into a fresh in-memory tree, serializes the
// result to HTML, and tears everything down. Reactive values render at
// their current state.
func Snapshot(desc *ui.Node) string {
	be := memdom.New()
	container := be.NewRoot()

	rt := runtime.New(be)
	root := rt.CreateRoot(container)
	root.Render(desc)
	defer root.Unmount()

	var sb strings.Builder
	for _, child := range container.Children() {
		sb.WriteString(memdom.HTML(child))
	}
	return sb.String()
}

// Page wraps body HTML in a minimal document shell.
func Page(title, body string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	sb.WriteString(escapeTitle(title))
	sb.WriteString("</title>\n</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String()
}

func escapeTitle(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
