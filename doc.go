// Package rigor is a small view engine that renders one component model
// two ways: as live mutations of a host tree, or as a markup string.
//
// # Nodes
//
// Views are plain data. A Node is a slice whose first element is the tag,
// optionally followed by props, followed by children:
//
//	rigor.Node{"button", rigor.Props{"class": "btn", "disabled": false}, "Click me"}
//
// A string tag names a host element. Fragment renders its children with no
// wrapping element. A function tag is a component.
//
// # Components
//
// Components run in two phases. Setup receives the props and the
// capability set and returns a render function; the render function turns
// props and children into a node:
//
//	func Greeting(props rigor.Props, caps *rigor.Capabilities) rigor.RenderFunc {
//	    return func(props rigor.Props, children []any) rigor.Node {
//	        return rigor.Node{"b", "Hello, " + props["who"].(string) + "!"}
//	    }
//	}
//
// Setup runs once per mount. The render function is kept and run again on
// every update, so anything set up in the closure (local state, timers,
// subscriptions) persists across renders.
//
// # Capabilities
//
// Components have no ambient access to the host. Everything they can do,
// from state and timers to logging, fetch and pub/sub, comes from plugins
// listed when the renderer is built:
//
//	r := rigor.New(rigor.WithFlavor(rigor.SafeFlavor.With(rigor.PubsubPlugin(bus))))
//
// Plugins are folded left to right into a frozen Capabilities value; a
// later plugin overrides an earlier one that provides the same name.
//
// # Rendering
//
// Mount creates elements in a host tree (see lib/dom) and registers the
// on<Event> props as listeners. When a listener fires, the handler runs and
// the mount point renders again, synchronously, before the dispatcher
// regains control. New children are appended; WithClearOnUpdate replaces
// them instead.
//
// RenderToString produces markup and ignores event props. Values are not
// escaped unless the renderer is built WithEscaping.
//
// There is no diffing, no batching and no asynchronous rendering.
package rigor
