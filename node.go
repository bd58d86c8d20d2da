package rigor

import (
	"fmt"
	"strconv"
)

// Fragment is the reserved tag meaning "no wrapping element": the children
// of a fragment node render directly into the parent target.
const Fragment = "[]"

// Node is the unit both renderers consume:
//
//	Node{tag, props?, children...}
//
// The tag is a host element name (string), a component function or
// Fragment. The second element is props when it is a mapping (Props,
// map[string]any or map[string]string); everything after that is a child.
// A child is either another node or a plain value that is stringified.
//
// A plain []any is accepted anywhere a Node is.
type Node []any

// Props is the attribute mapping of a node. Key order carries no meaning;
// renderers walk keys in sorted order.
type Props map[string]any

// H builds a node from a tag and its props/children. It is shorthand for
// Node{tag, args...}.
func H(tag any, args ...any) Node {
	return append(Node{tag}, args...)
}

// Frag builds a fragment node.
func Frag(children ...any) Node {
	return append(Node{Fragment}, children...)
}

// asNode reports whether v is node shaped.
func asNode(v any) (Node, bool) {
	switch n := v.(type) {
	case Node:
		return n, true
	case []any:
		return Node(n), true
	}
	return nil, false
}

// asProps reports whether v qualifies as the props element of a node.
func asProps(v any) (Props, bool) {
	switch p := v.(type) {
	case Props:
		return p, true
	case map[string]any:
		return Props(p), true
	case map[string]string:
		out := make(Props, len(p))
		for k, s := range p {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// split breaks a non-empty node into tag, props and children.
func split(n Node) (tag any, props Props, children []any) {
	tag = n[0]
	rest := n[1:]
	if len(rest) > 0 {
		if p, ok := asProps(rest[0]); ok {
			return tag, p, rest[1:]
		}
	}
	return tag, nil, rest
}

func isFragment(tag any) bool {
	s, ok := tag.(string)
	return ok && s == Fragment
}

// stringify converts a child or attribute value to text. nil becomes the
// empty string; floats use the shortest representation that round-trips.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}
