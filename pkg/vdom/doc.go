// Package vdom provides the virtual node model used to describe widget markup.
//
// Widgets build a VNode tree with variadic factory functions and hand it to
// the render package, which turns it into HTML on the server:
//
//	Div(Class("dropzone"), OnDrop(handleDrop),
//	    Label(For("file-upload"), Text("Choose files")),
//	    Input(Type("file"), ID("file-upload"), Multiple()),
//	)
//
// Arguments may be Attr, []Attr, EventHandler, *VNode, []*VNode, Component,
// string (text shorthand) or nil. Nil arguments are skipped so conditional
// children and attributes can be passed inline.
package vdom
