package rigor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// propKind is the set of handling rules a prop matched. The rules are
// independent: `class: true` is both a class name and a boolean. A prop
// that matched nothing is a plain attribute.
type propKind uint8

const (
	propClass propKind = 1 << iota
	propData
	propBool
	propEvent
)

func (k propKind) has(rule propKind) bool { return k&rule != 0 }

var eventKey = regexp.MustCompile(`^on(\w+)`)

type dataEntry struct {
	key   string
	value any
}

// prop is one classified entry of a node's props.
type prop struct {
	name  string
	value any
	kind  propKind
	event string      // lower-cased event name when kind has propEvent
	data  []dataEntry // sorted entries when kind has propData
}

// classify sorts props by key and tags each with the rules it matches.
// Both renderers consume the same classification, once per render phase.
func classify(props Props) []prop {
	if len(props) == 0 {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]prop, 0, len(names))
	for _, name := range names {
		p := prop{name: name, value: props[name]}
		if name == "class" {
			p.kind |= propClass
		}
		if name == "data" {
			if m, ok := asProps(p.value); ok {
				p.kind |= propData
				p.data = sortedEntries(m)
			}
		}
		if _, ok := p.value.(bool); ok {
			p.kind |= propBool
		}
		if m := eventKey.FindStringSubmatch(name); m != nil {
			p.kind |= propEvent
			p.event = strings.ToLower(m[1])
		}
		out = append(out, p)
	}
	return out
}

func sortedEntries(m Props) []dataEntry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]dataEntry, len(keys))
	for i, k := range keys {
		entries[i] = dataEntry{key: k, value: m[k]}
	}
	return entries
}

// handlerOf adapts the supported event handler shapes to a single form.
func handlerOf(v any) (func(Event) error, bool) {
	switch h := v.(type) {
	case func(Event) error:
		return h, true
	case func(Event):
		return func(ev Event) error { h(ev); return nil }, true
	case func() error:
		return func(Event) error { return h() }, true
	case func():
		return func(Event) error { h(); return nil }, true
	}
	return nil, false
}

// DecodeProps copies props into the struct pointed to by out. Fields are
// matched by their `prop` tag, falling back to a case-insensitive name
// match. Scalar values are weakly converted, so props decoded from YAML or
// JSON (float64 numbers, string booleans) land in typed fields.
//
//	type greeterProps struct {
//	    Who string `prop:"who"`
//	}
//
//	var p greeterProps
//	if err := rigor.DecodeProps(props, &p); err != nil { ... }
func DecodeProps(props Props, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "prop",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("rigor: props decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(props)); err != nil {
		return fmt.Errorf("rigor: decode props: %w", err)
	}
	return nil
}
