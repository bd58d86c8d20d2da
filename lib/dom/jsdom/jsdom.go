//go:build js && wasm

// Package jsdom binds the dom host interfaces to the browser document
// through syscall/js.
package jsdom

import (
	"syscall/js"

	"github.com/pthm/rigor/lib/dom"
)

// Document wraps the browser document.
type Document struct {
	v js.Value
}

// Global returns the document of the running page.
func Global() *Document {
	return &Document{v: js.Global().Get("document")}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	return &Element{v: d.v.Call("createElement", tag), doc: d}
}

// ElementByID looks up an existing element, typically the mount container.
// It returns nil when no element has the id.
func (d *Document) ElementByID(id string) *Element {
	v := d.v.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v: v, doc: d}
}

// Element wraps a browser element.
type Element struct {
	v     js.Value
	doc   *Document
	funcs []js.Func
}

var _ dom.Element = (*Element)(nil)

// Value returns the underlying js.Value.
func (e *Element) Value() js.Value { return e.v }

// OwnerDocument implements dom.Element.
func (e *Element) OwnerDocument() dom.Document { return e.doc }

// AppendChild implements dom.Element.
func (e *Element) AppendChild(c dom.Element) {
	e.v.Call("appendChild", c.(*Element).v)
}

// AppendText implements dom.Element.
func (e *Element) AppendText(data string) {
	e.v.Call("appendChild", e.doc.v.Call("createTextNode", data))
}

// RemoveChildren implements dom.Element.
func (e *Element) RemoveChildren() {
	for {
		first := e.v.Get("firstChild")
		if first.IsNull() {
			return
		}
		e.v.Call("removeChild", first)
	}
}

// AddClass implements dom.Element.
func (e *Element) AddClass(name string) {
	e.v.Get("classList").Call("add", name)
}

// SetDataset implements dom.Element.
func (e *Element) SetDataset(key, value string) {
	e.v.Get("dataset").Set(key, value)
}

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) {
	e.v.Call("setAttribute", name, value)
}

// SetProperty implements dom.Element.
func (e *Element) SetProperty(name string, value any) {
	e.v.Set(name, value)
}

// DeleteProperty implements dom.Element.
func (e *Element) DeleteProperty(name string) {
	e.v.Delete(name)
}

// AddEventListener implements dom.Element. Listener errors are written to
// the browser console since the page's event loop has no caller to return
// them to.
func (e *Element) AddEventListener(event string, l dom.Listener) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		var native js.Value
		if len(args) > 0 {
			native = args[0]
		}
		if err := l(&Event{v: native, target: e}); err != nil {
			js.Global().Get("console").Call("error", err.Error())
		}
		return nil
	})
	e.funcs = append(e.funcs, fn)
	e.v.Call("addEventListener", event, fn)
}

// Release frees the Go callbacks registered as listeners on e. The element
// must not receive events afterwards.
func (e *Element) Release() {
	for _, fn := range e.funcs {
		fn.Release()
	}
	e.funcs = nil
}

// Event wraps a native browser event.
type Event struct {
	v      js.Value
	target *Element
}

// Type implements dom.Event.
func (ev *Event) Type() string { return ev.v.Get("type").String() }

// Target implements dom.Event.
func (ev *Event) Target() dom.Element { return ev.target }

// Value returns the native event object.
func (ev *Event) Value() js.Value { return ev.v }
