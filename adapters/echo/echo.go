// Package rigorecho provides Echo framework integration for rigor components.
//
// Mount serves components by name on an Echo instance or group; query
// parameters become props:
//
//	e := echo.New()
//	rigorecho.Mount(e, demo.Lookup)
//	// GET /_c/Counter?start=3
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	rigorecho.MountGroup(g, demo.Lookup)
package rigorecho

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pthm/rigor"
)

// LookupFunc resolves a component by name.
type LookupFunc func(name string) (rigor.Component, bool)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	renderer *rigor.Renderer
	path     string
}

// WithRenderer sets the renderer used for components.
// Defaults to a SafeFlavor renderer with escaping enabled.
func WithRenderer(r *rigor.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithPath sets the URL path prefix for component routes.
// Defaults to "/_c/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

func newOptions(opts []Option) *options {
	o := &options{path: "/_c/"}
	for _, opt := range opts {
		opt(o)
	}
	if o.renderer == nil {
		o.renderer = rigor.New(rigor.WithEscaping())
	}
	return o
}

// Mount registers the component route on an Echo instance.
//
//	e := echo.New()
//	rigorecho.Mount(e, demo.Lookup)
//
//	// With options:
//	rigorecho.Mount(e, demo.Lookup, rigorecho.WithPath("/components/"))
func Mount(e *echo.Echo, lookup LookupFunc, opts ...Option) {
	o := newOptions(opts)
	e.GET(o.path+":component", handler(o.renderer, lookup))
}

// MountGroup registers the component route on an Echo group.
// This allows components to share middleware with the group (auth, logging, etc.).
func MountGroup(g *echo.Group, lookup LookupFunc, opts ...Option) {
	o := newOptions(opts)
	g.GET(o.path+":component", handler(o.renderer, lookup))
}

func handler(r *rigor.Renderer, lookup LookupFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("component")
		comp, ok := lookup(name)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown component %q", name))
		}

		props := make(rigor.Props)
		for k, v := range c.QueryParams() {
			if len(v) > 0 {
				props[k] = v[0]
			}
		}
		return Render(c, r, rigor.H(comp, props))
	}
}

// Render writes the markup of node to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return rigorecho.Render(c, renderer, rigor.H(Greeting, rigor.Props{"who": "you"}))
//	}
//
// Missing capabilities map to 422 and other render errors to 500. Nothing
// is written when rendering fails.
func Render(c echo.Context, r *rigor.Renderer, node any) error {
	html, err := r.RenderToString(node)
	if err != nil {
		status := http.StatusInternalServerError
		if rigor.IsMissingCapability(err) {
			status = http.StatusUnprocessableEntity
		}
		return echo.NewHTTPError(status, err.Error()).SetInternal(err)
	}
	return c.HTML(http.StatusOK, html)
}

// IsRenderError reports whether err came from Render failing on a node.
func IsRenderError(err error) bool {
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Internal == nil {
		return false
	}
	return rigor.IsMissingCapability(he.Internal) ||
		rigor.IsInvalidComponent(he.Internal) ||
		errors.Is(he.Internal, rigor.ErrInvalidNode)
}
