// Package dom defines the host tree the live renderer mutates.
//
// The live-tree renderer never talks to a concrete document. It creates
// elements through a Document, attaches them to an Element container and
// wires listeners through AddEventListener. Two implementations ship with
// rigor:
//
//   - memdom: an in-memory tree for tests, servers and headless hosts
//   - jsdom: the browser document, for GOOS=js GOARCH=wasm builds
//
// Implementations are not required to be safe for concurrent use. Event
// dispatch on a host is expected to deliver one event at a time.
package dom

// Document creates host elements.
type Document interface {
	CreateElement(tag string) Element
}

// Element is a live host element.
//
// The method set mirrors the handful of browser DOM operations the renderer
// relies on: child insertion, class list, dataset, attributes, expando
// properties and event listeners.
type Element interface {
	OwnerDocument() Document
	AppendChild(child Element)
	AppendText(data string)
	RemoveChildren()
	AddClass(name string)
	SetDataset(key, value string)
	SetAttribute(name, value string)
	SetProperty(name string, value any)
	DeleteProperty(name string)
	AddEventListener(event string, listener Listener)
}

// Event is a host event delivered to a Listener.
type Event interface {
	Type() string
	Target() Element
}

// Listener handles a host event. A returned error is reported to whoever
// dispatched the event.
type Listener func(Event) error
