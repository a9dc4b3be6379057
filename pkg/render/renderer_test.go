package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/dropzone/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "nested",
			node: vdom.Div(vdom.Class("container"), vdom.P(vdom.Text("Content"))),
			want: `<div class="container"><p>Content</p></div>`,
		},
		{
			name: "void input with sorted attrs",
			node: vdom.Input(vdom.Type("file"), vdom.Accept("image/png,.png"), vdom.Multiple()),
			want: `<input accept="image/png,.png" multiple type="file">`,
		},
		{
			name: "false boolean omitted",
			node: vdom.Button(vdom.Attr{Key: "disabled", Value: false}, vdom.Text("Go")),
			want: `<button>Go</button>`,
		},
		{
			name: "attribute escaping",
			node: vdom.Span(vdom.Data("label", `a "quoted"`+"\nline")),
			want: `<span data-label="a &quot;quoted&quot;&#10;line"></span>`,
		},
		{
			name: "numbers",
			node: vdom.Div(vdom.TabIndex(0)),
			want: `<div tabindex="0"></div>`,
		},
		{
			name: "fragment and raw",
			node: vdom.Fragment(vdom.Text("a"), vdom.Raw("<b>b</b>")),
			want: `a<b>b</b>`,
		},
		{
			name: "component",
			node: vdom.Div(vdom.Func(func() *vdom.VNode { return vdom.Span(vdom.Text("c")) })),
			want: `<div><span>c</span></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderInteractiveElements(t *testing.T) {
	renderer := NewRenderer(RendererConfig{HIDPrefix: "dz"})
	clicks := 0

	node := vdom.Div(
		vdom.OnDrop(func() {}),
		vdom.Span(vdom.Text("static")),
		vdom.Button(vdom.OnClick(func() { clicks++ }), vdom.Text("Upload")),
	)
	html, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<div data-on-drop="true" data-hid="dz1"><span>static</span><button data-on-click="true" data-hid="dz2">Upload</button></div>`
	if html != want {
		t.Errorf("got  %q\nwant %q", html, want)
	}

	handlers := renderer.GetHandlers()
	if len(handlers) != 2 {
		t.Fatalf("handlers = %d, want 2", len(handlers))
	}
	handlers["dz2_onclick"].(func())()
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}

	renderer.Reset()
	if len(renderer.GetHandlers()) != 0 {
		t.Error("Reset should clear handlers")
	}
}

func TestRenderPrettyPrint(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	html, err := renderer.RenderToString(vdom.Div(vdom.P(vdom.Text("x"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "\n  <p>") {
		t.Errorf("expected indented child, got %q", html)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := RenderToString(&vdom.VNode{Kind: vdom.VKind(42)})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	var buf bytes.Buffer

	err := renderer.RenderPage(&buf, PageData{
		Title:        "Upload <demo>",
		StyleSheets:  []string{"/app.css"},
		Scripts:      []string{"/client.js"},
		InlineScript: "boot()",
		Body:         vdom.Main(vdom.Text("hi")),
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Upload &lt;demo&gt;</title>",
		`<link href="/app.css" rel="stylesheet">`,
		`<script defer src="/client.js"></script>`,
		"<script>boot()</script>",
		"<main>hi</main>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q\n%s", want, html)
		}
	}
}
