package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute: Data("state", "open") → data-state="open".
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// AriaBusy sets the aria-busy attribute.
func AriaBusy(busy bool) Attr { return attr("aria-busy", busy) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Multiple sets the multiple attribute.
func Multiple() Attr { return attr("multiple", true) }

// Accept sets the accept attribute of a file input.
func Accept(types string) Attr { return attr("accept", types) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// SVG presentation attributes

// ViewBox sets the viewBox attribute.
func ViewBox(box string) Attr { return attr("viewBox", box) }

// Xmlns sets the xmlns attribute.
func Xmlns(ns string) Attr { return attr("xmlns", ns) }

// Fill sets the fill attribute.
func Fill(fill string) Attr { return attr("fill", fill) }

// Stroke sets the stroke attribute.
func Stroke(stroke string) Attr { return attr("stroke", stroke) }

// StrokeWidth sets the stroke-width attribute.
func StrokeWidth(w string) Attr { return attr("stroke-width", w) }

// StrokeLinecap sets the stroke-linecap attribute.
func StrokeLinecap(cap string) Attr { return attr("stroke-linecap", cap) }

// FillRule sets the fill-rule attribute.
func FillRule(rule string) Attr { return attr("fill-rule", rule) }

// ClipRule sets the clip-rule attribute.
func ClipRule(rule string) Attr { return attr("clip-rule", rule) }

// D sets the path data attribute.
func D(path string) Attr { return attr("d", path) }

// Cx sets the cx attribute.
func Cx(v string) Attr { return attr("cx", v) }

// Cy sets the cy attribute.
func Cy(v string) Attr { return attr("cy", v) }

// R sets the r attribute.
func R(v string) Attr { return attr("r", v) }

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// Key creates a reconciliation key attribute.
func Key(key string) Attr { return attr("key", key) }
