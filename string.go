package rigor

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// RenderToString renders node to markup.
//
// Strings are returned unchanged and other non-node values stringified. An
// empty node renders as "". Components are set up with a no-op re-render
// trigger, rendered once and discarded. Fragments concatenate their
// children. Host nodes render as <tag attrs>children</tag>; the closing tag
// is always written, void elements included.
//
// Attributes are written in sorted key order:
//   - keys starting with "on" are dropped, a bare on included
//   - data expands to one data-<key> attribute per entry
//   - true renders as name="", false as x-name=""
//   - everything else, class included, as name="value"
//
// Values are not escaped unless the renderer was built WithEscaping.
func (r *Renderer) RenderToString(node any) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, node); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Render writes the markup of node to w. See RenderToString.
func (r *Renderer) Render(w io.Writer, node any) (err error) {
	defer recoverCapability(&err)
	var sb strings.Builder
	if err := r.renderString(&sb, node); err != nil {
		return err
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

func (r *Renderer) renderString(sb *strings.Builder, v any) error {
	n, ok := asNode(v)
	if !ok {
		sb.WriteString(r.text(stringify(v)))
		return nil
	}
	if len(n) == 0 {
		return nil
	}
	tag, props, children := split(n)

	if comp, ok := componentOf(tag); ok {
		name := componentName(tag)
		render, err := instantiate(comp, name, props, Compose(r.plugins, noopTrigger))
		if err != nil {
			return err
		}
		r.metrics.setupDone()
		expr := render(props, children)
		r.metrics.rendered("string")
		return r.renderString(sb, expr)
	}

	if isFragment(tag) {
		for _, c := range children {
			if err := r.renderString(sb, c); err != nil {
				return err
			}
		}
		return nil
	}

	name, ok := tag.(string)
	if !ok {
		return fmt.Errorf("%w: unsupported tag type %T", ErrInvalidNode, tag)
	}

	sb.WriteByte('<')
	sb.WriteString(name)
	for _, p := range classify(props) {
		switch {
		case strings.HasPrefix(p.name, "on"):
		case p.kind.has(propData):
			for _, d := range p.data {
				r.writeAttr(sb, "data-"+d.key, stringify(d.value))
			}
		case p.kind.has(propBool):
			if p.value.(bool) {
				r.writeAttr(sb, p.name, "")
			} else {
				r.writeAttr(sb, "x-"+p.name, "")
			}
		default:
			r.writeAttr(sb, p.name, stringify(p.value))
		}
	}
	sb.WriteByte('>')
	for _, c := range children {
		if err := r.renderString(sb, c); err != nil {
			return err
		}
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
	return nil
}

func (r *Renderer) writeAttr(sb *strings.Builder, name, value string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(r.text(value))
	sb.WriteByte('"')
}

func (r *Renderer) text(s string) string {
	if r.escape {
		return html.EscapeString(s)
	}
	return s
}

// EscapeHTML escapes s for use in text or a quoted attribute value. Use it
// on untrusted data before placing it in props when the renderer does not
// escape.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
