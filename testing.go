package rigor

import (
	"fmt"
	"strings"

	"github.com/pthm/rigor/lib/dom/memdom"
)

// TestResult holds the outcome of rendering a node for testing.
//
// For string renders only HTML is set. For live renders Document and
// Container expose the in-memory host tree, and HTML is the container's
// inner markup at the time of the last Refresh.
type TestResult struct {
	HTML      string
	Document  *memdom.Document
	Container *memdom.Element
}

// HTMLContains reports whether the rendered markup contains s.
func (r *TestResult) HTMLContains(s string) bool {
	return strings.Contains(r.HTML, s)
}

// HTMLContainsAll reports whether the markup contains every substring.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny reports whether the markup contains at least one substring.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// Refresh re-reads HTML from the live container.
func (r *TestResult) Refresh() {
	if r.Container != nil {
		r.HTML = r.Container.InnerHTML()
	}
}

// Find returns the first element with tag in the live container.
func (r *TestResult) Find(tag string) *memdom.Element {
	if r.Container == nil {
		return nil
	}
	return r.Container.Find(tag)
}

// Click dispatches a click on the first element with tag and refreshes
// HTML. It fails when no such element exists.
func (r *TestResult) Click(tag string) error {
	el := r.Find(tag)
	if el == nil {
		return fmt.Errorf("rigor: no <%s> to click", tag)
	}
	err := el.Click()
	r.Refresh()
	return err
}

// TestRenderString renders node with a renderer built from opts.
//
//	result, err := rigor.TestRenderString(rigor.H(Greeting, rigor.Props{"who": "you"}))
//	if !result.HTMLContains("you") {
//	    t.Fatal("missing greeting")
//	}
func TestRenderString(node any, opts ...Option) (*TestResult, error) {
	html, err := New(opts...).RenderToString(node)
	if err != nil {
		return nil, err
	}
	return &TestResult{HTML: html}, nil
}

// TestMount mounts node into the body of a fresh in-memory document with a
// renderer built from opts.
//
//	result, err := rigor.TestMount(rigor.H(Counter, nil))
//	_ = result.Click("button")
//	t.Log(result.HTML)
func TestMount(node any, opts ...Option) (*TestResult, error) {
	doc := memdom.NewDocument()
	if err := New(opts...).Mount(node, doc.Body()); err != nil {
		return nil, err
	}
	result := &TestResult{Document: doc, Container: doc.Body()}
	result.Refresh()
	return result, nil
}

// TestCapabilities builds the capabilities a component would receive from
// SafeFlavor, with overrides applied last. Use it to unit test a setup
// call directly:
//
//	var seeded []map[string]any
//	caps := rigor.TestCapabilities(rigor.Provides{
//	    rigor.CapState: rigor.StateFunc(func(init map[string]any) *rigor.State {
//	        seeded = append(seeded, init)
//	        return rigor.NewState(init)
//	    }),
//	})
//	render := Stateful(nil, caps)
func TestCapabilities(overrides Provides) *Capabilities {
	plugins := append([]Plugin(nil), SafeFlavor.Plugins...)
	plugins = append(plugins, func(Trigger) Provides { return overrides })
	return Compose(plugins, nil)
}
