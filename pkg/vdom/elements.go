package vdom

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with an arbitrary tag name.
func El(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}
	for _, arg := range args {
		node.apply(arg)
	}
	return node
}

func (v *VNode) apply(arg any) {
	switch a := arg.(type) {
	case nil:
	case Attr:
		v.setAttr(a)
	case []Attr:
		for _, at := range a {
			v.setAttr(at)
		}
	case EventHandler:
		if a.Event != "" && a.Handler != nil {
			v.Props[a.Event] = a.Handler
		}
	case []EventHandler:
		for _, h := range a {
			v.apply(h)
		}
	case []any:
		for _, item := range a {
			v.apply(item)
		}
	case *VNode:
		if a != nil {
			v.Children = append(v.Children, a)
		}
	case []*VNode:
		for _, child := range a {
			if child != nil {
				v.Children = append(v.Children, child)
			}
		}
	case Component:
		v.Children = append(v.Children, &VNode{Kind: KindComponent, Comp: a})
	case string:
		v.Children = append(v.Children, Text(a))
	}
}

// setAttr stores an attribute. Repeated class attributes accumulate so that
// AttrIf(cond, Class(...)) can be combined with Class on the same element.
func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	if a.Key == "class" {
		if prev, ok := v.Props["class"].(string); ok && prev != "" {
			if s, ok := a.Value.(string); ok && s != "" {
				v.Props["class"] = prev + " " + s
				return
			}
			return
		}
	}
	v.Props[a.Key] = a.Value
}

// Document structure

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }
func Meta(args ...any) *VNode  { return createElement("meta", args) }
func Link(args ...any) *VNode  { return createElement("link", args) }

// Content

func Main(args ...any) *VNode { return createElement("main", args) }
func Div(args ...any) *VNode  { return createElement("div", args) }
func P(args ...any) *VNode    { return createElement("p", args) }
func Span(args ...any) *VNode { return createElement("span", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }

// Forms

func Input(args ...any) *VNode  { return createElement("input", args) }
func Button(args ...any) *VNode { return createElement("button", args) }
func Label(args ...any) *VNode  { return createElement("label", args) }

// SVG

func Svg(args ...any) *VNode    { return createElement("svg", args) }
func G(args ...any) *VNode      { return createElement("g", args) }
func Path(args ...any) *VNode   { return createElement("path", args) }
func Circle(args ...any) *VNode { return createElement("circle", args) }

// Scripting

func Script(args ...any) *VNode { return createElement("script", args) }
