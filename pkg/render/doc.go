// Package render turns vdom trees into HTML.
//
// The Renderer escapes text and attribute values, omits event handlers from
// the markup, and tags every interactive element with a data-hid hydration ID
// plus data-on-<event> markers so a thin client can route browser events
// back to the server:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(widget.Render())
//	handlers := r.GetHandlers() // "h1_onclick" -> func()
//
// RenderPage wraps a body tree in a complete HTML document.
package render
