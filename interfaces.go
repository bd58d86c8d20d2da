package rigor

import "github.com/pthm/rigor/lib/dom"

// Host tree types, re-exported from lib/dom so component code only needs
// to import rigor.
type (
	// Document creates host elements for the live-tree renderer.
	Document = dom.Document

	// Element is the container passed to Mount and the type of every
	// element the renderer creates.
	Element = dom.Element

	// Event is what an on<Event> handler receives.
	Event = dom.Event
)
