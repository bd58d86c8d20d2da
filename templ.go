package rigor

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Component returns node as a templ component so a rigor tree can be
// placed inside a templ layout:
//
//	@renderer.Component(rigor.H(demo.Stateful, rigor.Props{"count": 1}))
//
// The node is rendered on every Render call.
func (r *Renderer) Component(node any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.Render(w, node)
	})
}
