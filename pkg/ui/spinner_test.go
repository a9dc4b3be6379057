package ui

import (
	"strings"
	"testing"

	"github.com/vango-dev/dropzone/pkg/render"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

func TestSpinnerDefault(t *testing.T) {
	node := Spinner()
	if node.Tag != "svg" {
		t.Fatalf("root tag = %q, want svg", node.Tag)
	}
	if got := node.Props["class"]; got != "h-7 w-7 animate-spin text-primary" {
		t.Errorf("class = %q", got)
	}

	html, err := render.RenderToString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`aria-hidden="true"`,
		`viewBox="0 0 24 24"`,
		`<circle class="opacity-25" cx="12" cy="12" fill="none" r="9" stroke="currentColor" stroke-width="3"></circle>`,
		`d="M12 3C7.02944 3 3 7.02944 3 12"`,
		`stroke-linecap="round"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("spinner html missing %q\n%s", want, html)
		}
	}
}

func TestSpinnerOptions(t *testing.T) {
	node := Spinner(SpinnerClass("h-4 w-4 text-white"), SpinnerLabel("Uploading"))

	if node.Tag != "span" || node.Props["role"] != "status" {
		t.Fatalf("labelled spinner should be a status span, got %s %v", node.Tag, node.Props)
	}
	svg := node.Find(func(n *vdom.VNode) bool { return n.Tag == "svg" })
	if svg == nil {
		t.Fatal("svg missing")
	}
	if got := svg.Props["class"]; got != "animate-spin h-4 w-4 text-white" {
		t.Errorf("merged class = %q", got)
	}
	if _, ok := svg.Props["aria-hidden"]; ok {
		t.Error("labelled spinner svg should not be aria-hidden")
	}
	if got := node.TextContent(); got != "Uploading" {
		t.Errorf("label = %q", got)
	}
}
