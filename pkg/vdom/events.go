package vdom

// event creates an EventHandler; "click" becomes "onclick".
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// Drag events

// OnDragEnter handles dragenter events.
func OnDragEnter(handler any) EventHandler { return event("dragenter", handler) }

// OnDragLeave handles dragleave events.
func OnDragLeave(handler any) EventHandler { return event("dragleave", handler) }

// OnDrop handles drop events.
func OnDrop(handler any) EventHandler { return event("drop", handler) }
