package render

import (
	"io"

	"github.com/vango-dev/dropzone/pkg/vdom"
)

// PageData describes a complete HTML document.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// StyleSheets are stylesheet URLs added to the head.
	StyleSheets []string

	// Scripts are script URLs added at the end of the body, deferred.
	Scripts []string

	// InlineScript is trusted JavaScript emitted after Scripts.
	InlineScript string

	// Body is the page content.
	Body *vdom.VNode
}

// RenderPage writes a full HTML5 document for data to w.
// Handlers collected from Body are available from r.GetHandlers afterwards.
func (r *Renderer) RenderPage(w io.Writer, data PageData) error {
	lang := data.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.Title(vdom.Text(data.Title)),
		vdom.Range(data.StyleSheets, func(href string, _ int) *vdom.VNode {
			return vdom.Link(vdom.Rel("stylesheet"), vdom.Href(href))
		}),
	)

	body := vdom.Body(
		data.Body,
		vdom.Range(data.Scripts, func(src string, _ int) *vdom.VNode {
			return vdom.Script(vdom.Src(src), vdom.Attr{Key: "defer", Value: true})
		}),
		vdom.When(data.InlineScript != "", func() *vdom.VNode {
			return vdom.Script(vdom.Raw(data.InlineScript))
		}),
	)

	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return r.RenderToWriter(w, vdom.Html(vdom.Attr{Key: "lang", Value: lang}, head, body))
}
