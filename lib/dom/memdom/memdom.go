// Package memdom is an in-memory implementation of the dom host interfaces.
//
// It keeps just enough of a browser document to observe what the live
// renderer did: element tree, class list, attributes, expando properties and
// listeners. OuterHTML serializes the tree with attributes in sorted order so
// tests can compare output byte for byte.
package memdom

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"

	"github.com/pthm/rigor/lib/dom"
)

// Document is an in-memory host document with a single body element.
type Document struct {
	body *Element
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.newElement("body")
	return d
}

// Body returns the document body, the usual mount container.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.newElement(tag)
}

func (d *Document) newElement(tag string) *Element {
	return &Element{
		doc:       d,
		tag:       tag,
		attrs:     make(map[string]string),
		props:     make(map[string]any),
		listeners: make(map[string][]dom.Listener),
	}
}

type child interface {
	writeHTML(sb *strings.Builder)
	writeText(sb *strings.Builder)
}

// Text is a text node.
type Text struct {
	Data string
}

func (t *Text) writeHTML(sb *strings.Builder) { sb.WriteString(html.EscapeString(t.Data)) }
func (t *Text) writeText(sb *strings.Builder) { sb.WriteString(t.Data) }

// Element is an in-memory element. It implements dom.Element.
type Element struct {
	doc       *Document
	tag       string
	parent    *Element
	children  []child
	classes   []string
	attrs     map[string]string
	props     map[string]any
	listeners map[string][]dom.Listener
}

var _ dom.Element = (*Element)(nil)

// OwnerDocument implements dom.Element.
func (e *Element) OwnerDocument() dom.Document { return e.doc }

// AppendChild implements dom.Element. Elements from another implementation
// cannot be adopted and cause a panic.
func (e *Element) AppendChild(c dom.Element) {
	el, ok := c.(*Element)
	if !ok {
		panic(fmt.Sprintf("memdom: cannot append foreign element %T", c))
	}
	el.parent = e
	e.children = append(e.children, el)
}

// AppendText implements dom.Element.
func (e *Element) AppendText(data string) {
	e.children = append(e.children, &Text{Data: data})
}

// RemoveChildren implements dom.Element.
func (e *Element) RemoveChildren() {
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			el.parent = nil
		}
	}
	e.children = nil
}

// AddClass implements dom.Element. Like classList.add, a class already
// present is not added twice.
func (e *Element) AddClass(name string) {
	for _, c := range e.classes {
		if c == name {
			return
		}
	}
	e.classes = append(e.classes, name)
}

// SetDataset implements dom.Element. The key is converted the way
// HTMLElement.dataset does it: fooBar becomes data-foo-bar.
func (e *Element) SetDataset(key, value string) {
	e.attrs["data-"+kebab(key)] = value
}

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) {
	if name == "class" {
		e.classes = strings.Fields(value)
		return
	}
	e.attrs[name] = value
}

// SetProperty implements dom.Element.
func (e *Element) SetProperty(name string, value any) {
	e.props[name] = value
}

// DeleteProperty implements dom.Element.
func (e *Element) DeleteProperty(name string) {
	delete(e.props, name)
}

// AddEventListener implements dom.Element.
func (e *Element) AddEventListener(event string, l dom.Listener) {
	e.listeners[event] = append(e.listeners[event], l)
}

// Tag returns the element name.
func (e *Element) Tag() string { return e.tag }

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Attribute returns the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	if name == "class" {
		if len(e.classes) == 0 {
			return "", false
		}
		return strings.Join(e.classes, " "), true
	}
	v, ok := e.attrs[name]
	return v, ok
}

// Property returns the named expando property.
func (e *Element) Property(name string) (any, bool) {
	v, ok := e.props[name]
	return v, ok
}

// ListenerCount returns how many listeners are registered for event.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

// Children returns the element children, skipping text nodes.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ChildCount returns the number of child nodes, text nodes included.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// Find returns the first descendant with the given tag in document order.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.children {
		el, ok := c.(*Element)
		if !ok {
			continue
		}
		if el.tag == tag {
			return el
		}
		if found := el.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

// InnerHTML serializes the children of e.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for _, c := range e.children {
		c.writeHTML(&sb)
	}
	return sb.String()
}

// OuterHTML serializes e and its subtree. The class attribute comes first,
// then the remaining attributes sorted by name. Properties are not
// serialized, just like in a browser.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	e.writeHTML(&sb)
	return sb.String()
}

func (e *Element) writeHTML(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.tag)
	if len(e.classes) > 0 {
		sb.WriteString(` class="`)
		sb.WriteString(html.EscapeString(strings.Join(e.classes, " ")))
		sb.WriteByte('"')
	}
	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(e.attrs[name]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	for _, c := range e.children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteByte('>')
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, c := range e.children {
		c.writeText(sb)
	}
}

// Event is a synthetic event.
type Event struct {
	typ    string
	target *Element
	Detail any
}

// NewEvent creates an event of the given type carrying detail.
func NewEvent(typ string, detail any) *Event {
	return &Event{typ: typ, Detail: detail}
}

// Type implements dom.Event.
func (ev *Event) Type() string { return ev.typ }

// Target implements dom.Event.
func (ev *Event) Target() dom.Element {
	if ev.target == nil {
		return nil
	}
	return ev.target
}

// Dispatch delivers ev to the listeners registered on e, in registration
// order. Events do not bubble. Every listener runs; their errors are joined.
func (e *Element) Dispatch(ev *Event) error {
	ev.target = e
	listeners := append([]dom.Listener(nil), e.listeners[ev.typ]...)
	var errs []error
	for _, l := range listeners {
		if err := l(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Click dispatches a click event on e.
func (e *Element) Click() error {
	return e.Dispatch(NewEvent("click", nil))
}

func kebab(key string) string {
	var sb strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			sb.WriteByte('-')
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
