package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Trusted markup, emitted unescaped
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a virtual DOM node.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode
	Key      string
	Text     string    // KindText and KindRaw
	Comp     Component // KindComponent
	HID      string    // hydration ID, assigned during render
}

// Props holds attributes and event handlers keyed by attribute name.
// Event handlers use the "on" prefix ("onclick", "ondrop").
type Props map[string]any

// IsInteractive reports whether the node carries event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr returns the attribute value stored under key, or nil.
func (v *VNode) Attr(key string) any {
	if v == nil || v.Props == nil {
		return nil
	}
	return v.Props[key]
}

// Find returns the first node in depth-first order for which match is true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for _, child := range v.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates the text of all descendant text nodes.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var sb strings.Builder
	for _, child := range v.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler binds a handler to an event attribute ("onclick").
type EventHandler struct {
	Event   string
	Handler any
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

type funcComponent struct {
	render func() *VNode
}

func (f *funcComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &funcComponent{render: render}
}
