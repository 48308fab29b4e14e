package ui

import (
	"fmt"
	"strings"
)

// attr builds a single attribute.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Class sets the class attribute. Multiple values are joined with
// spaces; empty values are dropped.
func Class(classes ...string) Attr {
	nonEmpty := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) == 0 {
		return Attr{}
	}
	return attr("class", strings.Join(nonEmpty, " "))
}

// ID sets the id attribute.
func ID(id string) Attr {
	return attr("id", id)
}

// Style sets the style attribute.
func Style(style string) Attr {
	return attr("style", style)
}

// Title sets the title attribute.
func Title(title string) Attr {
	return attr("title", title)
}

// Href sets the href attribute.
func Href(href string) Attr {
	return attr("href", href)
}

// Src sets the src attribute.
func Src(src string) Attr {
	return attr("src", src)
}

// Type sets the type attribute.
func Type(t string) Attr {
	return attr("type", t)
}

// Value sets the value attribute.
func Value(v any) Attr {
	return attr("value", v)
}

// Placeholder sets the placeholder attribute.
func Placeholder(p string) Attr {
	return attr("placeholder", p)
}

// Disabled sets the disabled attribute when true.
func Disabled(disabled bool) Attr {
	if !disabled {
		return Attr{}
	}
	return attr("disabled", true)
}

// Key sets the reconciliation key. The key is converted to a string
// with fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// Set sets an arbitrary attribute. The value may be reactive.
func Set(key string, value any) Attr {
	return attr(key, value)
}

// Data sets a data-* attribute.
func Data(name string, value any) Attr {
	return attr("data-"+name, value)
}

// On attaches an event handler prop. Live backends surface these to the
// client; tree backends carry them opaquely.
func On(event string, handler any) Attr {
	return attr("on"+event, handler)
}
