package rigor

import (
	"fmt"
	"path"
	"reflect"
	"runtime"
)

// Component is a two-phase component. The setup call receives the node's
// props and the composed capabilities and returns the render function:
//
//	func Counter(props rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
//	    st := caps.State(map[string]any{"count": 0})
//	    return func(props rigor.Props, children []any) rigor.Node {
//	        return rigor.H("button", rigor.Props{
//	            "onclick": func() { st.Set("count", st.Get("count").(int)+1) },
//	        }, "Clicked ", st.Get("count"))
//	    }
//	}
//
// Setup runs once per mount (live tree) or once per occurrence (string
// render). Anything created during setup, local state in particular, lives
// in the closure and survives every later render of the same mount point.
type Component func(props Props, caps *Capabilities) RenderFunc

// RenderFunc produces the current node for a component. It is re-invoked
// with the current props and children on every update.
type RenderFunc func(props Props, children []any) Node

// componentOf reports whether tag is a component. Besides Component it
// accepts the equivalent unnamed function types so plain functions can be
// used as tags without a conversion.
func componentOf(tag any) (Component, bool) {
	switch c := tag.(type) {
	case Component:
		return c, true
	case func(Props, *Capabilities) RenderFunc:
		return Component(c), true
	case func(Props, *Capabilities) func(Props, []any) Node:
		return func(p Props, caps *Capabilities) RenderFunc {
			render := c(p, caps)
			if render == nil {
				return nil
			}
			return RenderFunc(render)
		}, true
	}
	return nil, false
}

// instantiate runs the setup phase of c and returns its render function.
// A nil render function is a contract violation.
func instantiate(c Component, name string, props Props, caps *Capabilities) (RenderFunc, error) {
	render := c(props, caps)
	if render == nil {
		return nil, fmt.Errorf("%w: %s returned nil", ErrInvalidComponent, name)
	}
	return render, nil
}

// hostRender is the render function of a host-tag node: it rebuilds the
// node from whatever props and children it is given.
func hostRender(tag string) RenderFunc {
	return func(props Props, children []any) Node {
		n := make(Node, 0, len(children)+2)
		n = append(n, tag)
		if props != nil {
			n = append(n, props)
		}
		return append(n, children...)
	}
}

// componentName derives a readable name for logs and errors from the
// function's symbol, e.g. "demo.Stateful".
func componentName(tag any) string {
	v := reflect.ValueOf(tag)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", tag)
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return "component"
	}
	return path.Base(fn.Name())
}
