// Package demo holds the sample components used by the CLI, the server and
// the renderer tests.
package demo

import (
	"fmt"
	"sort"
	"time"

	"github.com/pthm/rigor"
)

// GodspeedYou greets props["who"]. It needs no capabilities.
func GodspeedYou(_ rigor.Props, _ *rigor.Capabilities) rigor.RenderFunc {
	return func(props rigor.Props, _ []any) rigor.Node {
		return rigor.Node{"b", fmt.Sprintf("Godspeed you, %v!", props["who"])}
	}
}

// Stateful renders a button inside a fragment. It seeds local state during
// setup but renders from its props.
func Stateful(_ rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
	caps.State(map[string]any{"count": 0})
	return func(props rigor.Props, _ []any) rigor.Node {
		return rigor.Frag(
			rigor.H("button", rigor.Props{
				"class":    "btn",
				"data":     rigor.Props{"bla": "blubb"},
				"disabled": false,
			}, "Click Me! (", props["count"], ",", 42, ")"),
		)
	}
}

// CounterProps are the props Counter understands.
type CounterProps struct {
	Start int    `prop:"start"`
	Label string `prop:"label"`
}

// Counter is a button counting its clicks in local state.
func Counter(props rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
	var p CounterProps
	if err := rigor.DecodeProps(props, &p); err != nil {
		caps.Log("counter: ", err)
	}
	if p.Label == "" {
		p.Label = "Clicked"
	}
	st := caps.State(map[string]any{"count": p.Start})
	return func(_ rigor.Props, _ []any) rigor.Node {
		return rigor.H("button", rigor.Props{
			"class": "counter",
			"onclick": func() {
				st.Set("count", rigor.StateValue[int](st, "count")+1)
				caps.Log("counter clicked")
			},
		}, p.Label, " ", st.Get("count"))
	}
}

// Greeter renders the last name received on the "greet" topic. It needs
// the pub/sub capabilities. Messages only update state; the greeting shows
// up after the next click.
func Greeter(_ rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
	st := caps.State(map[string]any{"who": "nobody"})
	caps.On("greet", func(data any) {
		st.Set("who", data)
	})
	return func(_ rigor.Props, _ []any) rigor.Node {
		return rigor.H("p", rigor.Props{
			"class":   "greeter",
			"onclick": func() {},
		}, "Hello, ", st.Get("who"))
	}
}

// Clock shows the time of its setup and schedules a timeout that is
// cleared straight away; it exists to exercise the timer capabilities.
func Clock(_ rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
	started := time.Now().UTC().Format(time.RFC3339)
	id := caps.SetTimeout(func() {}, time.Hour)
	caps.ClearTimeout(id)
	return func(_ rigor.Props, _ []any) rigor.Node {
		return rigor.H("time", rigor.Props{"datetime": started}, started)
	}
}

// Page composes the other components into a small document body.
func Page(_ rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
	return func(props rigor.Props, children []any) rigor.Node {
		body := rigor.Frag(
			rigor.H("h1", props["title"]),
			rigor.H(GodspeedYou, rigor.Props{"who": "Black Emperor"}),
			rigor.H(Stateful, rigor.Props{"count": 23}),
			rigor.H(Counter, rigor.Props{"start": 0}),
		)
		body = append(body, children...)
		return rigor.H("main", rigor.Props{"class": "page"}, body)
	}
}

var registry = map[string]rigor.Component{
	"GodspeedYou": GodspeedYou,
	"Stateful":    Stateful,
	"Counter":     Counter,
	"Greeter":     Greeter,
	"Clock":       Clock,
	"Page":        Page,
}

// Lookup returns the component registered under name.
func Lookup(name string) (rigor.Component, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered component names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
