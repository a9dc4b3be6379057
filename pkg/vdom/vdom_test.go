package vdom

import "testing"

func TestCreateElementArgs(t *testing.T) {
	clicked := false
	node := Div(
		ID("root"),
		Class("a", "b"),
		nil,
		AttrIf(false, Disabled()),
		OnClick(func() { clicked = true }),
		Span(Text("one")),
		"two",
		[]*VNode{P(), nil},
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("got kind=%v tag=%q", node.Kind, node.Tag)
	}
	if got := node.Props["id"]; got != "root" {
		t.Errorf("id = %v, want root", got)
	}
	if got := node.Props["class"]; got != "a b" {
		t.Errorf("class = %v, want %q", got, "a b")
	}
	if _, ok := node.Props["disabled"]; ok {
		t.Error("disabled should not be set by a false AttrIf")
	}
	if len(node.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(node.Children))
	}
	if node.Children[1].Kind != KindText || node.Children[1].Text != "two" {
		t.Errorf("string arg should become a text node, got %+v", node.Children[1])
	}
	if !node.IsInteractive() {
		t.Error("node with onclick should be interactive")
	}
	node.Props["onclick"].(func())()
	if !clicked {
		t.Error("handler not stored")
	}
}

func TestClassAccumulates(t *testing.T) {
	node := Button(Class("btn"), AttrIf(true, Class("active")), AttrIf(false, Class("hidden")))
	if got := node.Props["class"]; got != "btn active" {
		t.Errorf("class = %q, want %q", got, "btn active")
	}
}

func TestKeyIsNotAProp(t *testing.T) {
	node := Li(Key("row-1"))
	if node.Key != "row-1" {
		t.Errorf("Key = %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored in props")
	}
}

func TestHelpers(t *testing.T) {
	if If(false, Div()) != nil {
		t.Error("If(false) should be nil")
	}
	if When(false, func() *VNode { t.Fatal("must not build"); return nil }) != nil {
		t.Error("When(false) should be nil")
	}
	if n := If(true, Span()); n == nil || n.Tag != "span" {
		t.Errorf("If(true) = %+v", n)
	}

	items := Range([]string{"x", "", "z"}, func(s string, _ int) *VNode {
		if s == "" {
			return nil
		}
		return Li(Text(s))
	})
	if len(items) != 2 {
		t.Errorf("Range kept %d nodes, want 2", len(items))
	}
}

func TestTextContentAndFind(t *testing.T) {
	tree := Div(
		Label(Text("Choose "), Span(Text("files"))),
		Button(ID("go"), Text("Upload")),
	)
	if got := tree.TextContent(); got != "Choose filesUpload" {
		t.Errorf("TextContent = %q", got)
	}
	btn := tree.Find(func(n *VNode) bool { return n.Tag == "button" })
	if btn == nil || btn.Attr("id") != "go" {
		t.Fatalf("Find(button) = %+v", btn)
	}
	if tree.Find(func(n *VNode) bool { return n.Tag == "table" }) != nil {
		t.Error("Find should return nil when nothing matches")
	}
}

func TestVKindString(t *testing.T) {
	tests := map[VKind]string{
		KindElement:   "Element",
		KindText:      "Text",
		KindFragment:  "Fragment",
		KindComponent: "Component",
		KindRaw:       "Raw",
		VKind(99):     "Unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
