package ui

// Common HTML element builders. Each is El with the tag baked in.

func Div(args ...any) *Node    { return El("div", args...) }
func Span(args ...any) *Node   { return El("span", args...) }
func P(args ...any) *Node      { return El("p", args...) }
func A(args ...any) *Node      { return El("a", args...) }
func H1(args ...any) *Node     { return El("h1", args...) }
func H2(args ...any) *Node     { return El("h2", args...) }
func H3(args ...any) *Node     { return El("h3", args...) }
func Ul(args ...any) *Node     { return El("ul", args...) }
func Ol(args ...any) *Node     { return El("ol", args...) }
func Li(args ...any) *Node     { return El("li", args...) }
func Button(args ...any) *Node { return El("button", args...) }
func Input(args ...any) *Node  { return El("input", args...) }
func Form(args ...any) *Node   { return El("form", args...) }
func Label(args ...any) *Node  { return El("label", args...) }
func Table(args ...any) *Node  { return El("table", args...) }
func Tr(args ...any) *Node     { return El("tr", args...) }
func Td(args ...any) *Node     { return El("td", args...) }
func Th(args ...any) *Node     { return El("th", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Header(args ...any) *Node  { return El("header", args...) }
func Footer(args ...any) *Node  { return El("footer", args...) }
func Nav(args ...any) *Node     { return El("nav", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Img(args ...any) *Node     { return El("img", args...) }
func Pre(args ...any) *Node     { return El("pre", args...) }
func Code(args ...any) *Node    { return El("code", args...) }
