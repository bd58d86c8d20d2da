package rigor

import (
	"net/http"
	"reflect"
	"sort"
	"time"
)

// Capability names understood by the typed accessors of Capabilities.
const (
	CapFragment      = "fragment"
	CapState         = "state"
	CapLog           = "log"
	CapSetTimeout    = "setTimeout"
	CapClearTimeout  = "clearTimeout"
	CapSetInterval   = "setInterval"
	CapClearInterval = "clearInterval"
	CapFetch         = "fetch"
	CapEmit          = "emit"
	CapOn            = "on"
)

// Trigger asks the renderer to repeat the render phase of the mount point
// that owns the capabilities. The string renderer hands out a no-op.
type Trigger func() error

// Provides is the partial capability mapping returned by one plugin.
type Provides map[string]any

// Plugin is a capability factory. It is called once per component
// invocation with the re-render trigger of that invocation.
//
//	func ClockPlugin(rerender rigor.Trigger) rigor.Provides {
//	    return rigor.Provides{"now": time.Now}
//	}
type Plugin func(rerender Trigger) Provides

// Capability function shapes.
type (
	StateFunc      func(init map[string]any) *State
	LogFunc        func(args ...any)
	TimerID        int
	SetTimerFunc   func(fn func(), d time.Duration) TimerID
	ClearTimerFunc func(id TimerID)
	FetchFunc      func(req *http.Request) (*http.Response, error)
	EmitFunc       func(topic string, data any)
	OnFunc         func(topic string, fn func(data any)) (dispose func())
)

// Capabilities is the frozen set of host capabilities handed to a
// component's setup call. It has no mutators; a component can only use
// what the renderer's plugins granted.
type Capabilities struct {
	values map[string]any
}

func noopTrigger() error { return nil }

// Compose folds plugins left to right into a capability set. When two
// plugins provide the same name, the later one wins.
func Compose(plugins []Plugin, rerender Trigger) *Capabilities {
	if rerender == nil {
		rerender = noopTrigger
	}
	values := make(map[string]any)
	for _, plugin := range plugins {
		if plugin == nil {
			continue
		}
		for name, v := range plugin(rerender) {
			values[name] = v
		}
	}
	return &Capabilities{values: values}
}

// Lookup returns the raw capability registered under name.
func (c *Capabilities) Lookup(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether name was provided.
func (c *Capabilities) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Names returns the provided capability names, sorted.
func (c *Capabilities) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup resolves name as a T. Values of an unnamed type with the same
// underlying type (a func literal instead of LogFunc, say) are converted.
// A missing or mistyped capability panics with *CapabilityError, which
// the render entry points turn back into an error.
func lookup[T any](c *Capabilities, name string) T {
	v, ok := c.values[name]
	if !ok {
		panic(&CapabilityError{Name: name})
	}
	if t, ok := v.(T); ok {
		return t
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == want.Kind() && rv.Type().ConvertibleTo(want) {
		return rv.Convert(want).Interface().(T)
	}
	panic(&CapabilityError{Name: name, Got: v})
}

// Fragment returns the fragment marker.
func (c *Capabilities) Fragment() string {
	return lookup[string](c, CapFragment)
}

// State creates a local state record seeded with init.
func (c *Capabilities) State(init map[string]any) *State {
	return lookup[StateFunc](c, CapState)(init)
}

// Log writes through the log capability.
func (c *Capabilities) Log(args ...any) {
	lookup[LogFunc](c, CapLog)(args...)
}

// SetTimeout schedules fn once after d.
func (c *Capabilities) SetTimeout(fn func(), d time.Duration) TimerID {
	return lookup[SetTimerFunc](c, CapSetTimeout)(fn, d)
}

// ClearTimeout cancels a pending timeout.
func (c *Capabilities) ClearTimeout(id TimerID) {
	lookup[ClearTimerFunc](c, CapClearTimeout)(id)
}

// SetInterval schedules fn every d until cleared.
func (c *Capabilities) SetInterval(fn func(), d time.Duration) TimerID {
	return lookup[SetTimerFunc](c, CapSetInterval)(fn, d)
}

// ClearInterval stops an interval.
func (c *Capabilities) ClearInterval(id TimerID) {
	lookup[ClearTimerFunc](c, CapClearInterval)(id)
}

// Fetch performs an HTTP round trip through the fetch capability.
func (c *Capabilities) Fetch(req *http.Request) (*http.Response, error) {
	return lookup[FetchFunc](c, CapFetch)(req)
}

// Emit broadcasts data to the subscribers of topic.
func (c *Capabilities) Emit(topic string, data any) {
	lookup[EmitFunc](c, CapEmit)(topic, data)
}

// On subscribes fn to topic and returns the disposer.
func (c *Capabilities) On(topic string, fn func(data any)) (dispose func()) {
	return lookup[OnFunc](c, CapOn)(topic, fn)
}
