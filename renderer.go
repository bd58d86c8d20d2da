package rigor

import (
	"go.uber.org/zap"
)

// Renderer renders nodes with a fixed plugin configuration. One renderer
// provides both backends: Mount for live host trees and RenderToString for
// markup.
//
// RenderToString is safe for concurrent use. Mount may be called from
// several goroutines as long as each call targets its own host tree.
type Renderer struct {
	plugins       []Plugin
	logger        *zap.Logger
	metrics       *Metrics
	escape        bool
	clearOnUpdate bool
	mounts        *arena
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPlugins replaces the plugin list. Order matters: later plugins
// override capabilities of the same name from earlier ones.
func WithPlugins(plugins ...Plugin) Option {
	return func(r *Renderer) {
		r.plugins = append([]Plugin(nil), plugins...)
	}
}

// WithFlavor uses the plugin list of a named bundle.
func WithFlavor(f Flavor) Option {
	return WithPlugins(f.Plugins...)
}

// WithLogger sets the logger used for render tracing at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records setups, renders, events and mount points.
func WithMetrics(m *Metrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithEscaping makes the string renderer HTML-escape attribute values and
// text. Without it values are interpolated verbatim and callers must escape
// untrusted data themselves.
func WithEscaping() Option {
	return func(r *Renderer) {
		r.escape = true
	}
}

// WithClearOnUpdate makes an event-triggered re-render remove the element's
// existing children before appending the new ones. The default appends.
func WithClearOnUpdate() Option {
	return func(r *Renderer) {
		r.clearOnUpdate = true
	}
}

// New creates a renderer. Without WithPlugins or WithFlavor it uses
// SafeFlavor.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		plugins: append([]Plugin(nil), SafeFlavor.Plugins...),
		logger:  zap.NewNop(),
		mounts:  newArena(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plugins returns a copy of the configured plugin list.
func (r *Renderer) Plugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}

// MountPoints returns how many live mount points this renderer holds.
func (r *Renderer) MountPoints() int {
	return r.mounts.len()
}

var defaultRenderer = New()

// Mount renders node into container using a renderer configured with
// SafeFlavor.
func Mount(node any, container Element) error {
	return defaultRenderer.Mount(node, container)
}

// RenderToString renders node to markup using a renderer configured with
// SafeFlavor.
func RenderToString(node any) (string, error) {
	return defaultRenderer.RenderToString(node)
}
