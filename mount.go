package rigor

import (
	"fmt"

	"github.com/pthm/rigor/lib/dom"
	"go.uber.org/zap"
)

// Mount renders node into container and keeps it live.
//
// A component node is set up once; its render function is retained for
// the mount point and re-run whenever an event handler declared on the
// rendered element fires. A fragment mounts its children straight into
// container. Any other node creates one element, appends it to container
// and renders its children into it.
//
// Errors from setup (ErrInvalidComponent), from malformed nodes
// (ErrInvalidNode) and from absent capabilities (ErrMissingCapability) are
// returned to the caller. Elements created before the failure stay in the
// tree.
func (r *Renderer) Mount(node any, container Element) (err error) {
	defer recoverCapability(&err)
	return r.mount(node, container, nil)
}

// mount creates the mount point for v. It joins the arena, and the kids of
// owner, only once setup succeeded.
func (r *Renderer) mount(v any, container dom.Element, owner *mountPoint) error {
	n, ok := asNode(v)
	if !ok || len(n) == 0 {
		return fmt.Errorf("%w: cannot mount %T", ErrInvalidNode, v)
	}
	tag, props, children := split(n)

	id := r.mounts.reserve()
	mp := &mountPoint{id: id, container: container, props: props, children: children}

	if comp, ok := componentOf(tag); ok {
		mp.name = componentName(tag)
		caps := Compose(r.plugins, r.trigger(id))
		render, err := instantiate(comp, mp.name, props, caps)
		if err != nil {
			return err
		}
		r.metrics.setupDone()
		r.logger.Debug("component set up",
			zap.String("component", mp.name),
			zap.Uint64("mount_point", id))
		mp.render = render
	} else if s, ok := tag.(string); ok {
		mp.name = s
		mp.render = hostRender(s)
	} else {
		return fmt.Errorf("%w: unsupported tag type %T", ErrInvalidNode, tag)
	}

	r.mounts.add(mp)
	r.metrics.mountPointAdded()
	if owner != nil {
		owner.kids = append(owner.kids, id)
	}
	return r.renderPhase(mp, true)
}

// trigger is the re-render callback handed to plugins for mount point id.
// It is a no-op until the first render phase has finished, while a render
// phase of the same mount point is running and after the mount point was
// dropped.
func (r *Renderer) trigger(id uint64) Trigger {
	return func() error {
		mp, ok := r.mounts.get(id)
		if !ok || mp.render == nil || mp.rendering {
			return nil
		}
		return r.update(mp)
	}
}

// update repeats the render phase of an already mounted mount point.
func (r *Renderer) update(mp *mountPoint) (err error) {
	defer recoverCapability(&err)
	r.logger.Debug("re-render",
		zap.String("component", mp.name),
		zap.Uint64("mount_point", mp.id))
	return r.renderPhase(mp, false)
}

// renderPhase calls the retained render function and applies the
// expression. On the first pass it creates the host element and registers
// listeners; later passes re-apply the other props and append (or, with
// WithClearOnUpdate, replace) the children.
func (r *Renderer) renderPhase(mp *mountPoint, first bool) error {
	mp.rendering = true
	defer func() { mp.rendering = false }()

	expr, ok := asNode(mp.render(mp.props, mp.children))
	r.metrics.rendered("dom")
	if !ok || len(expr) == 0 {
		return fmt.Errorf("%w: %s rendered an empty node", ErrInvalidNode, mp.name)
	}
	tag, props, children := split(expr)

	if isFragment(tag) {
		return r.mountChildren(children, mp.container, mp)
	}
	if _, ok := componentOf(tag); ok {
		return r.mount(expr, mp.container, mp)
	}
	name, ok := tag.(string)
	if !ok {
		return fmt.Errorf("%w: unsupported tag type %T", ErrInvalidNode, tag)
	}

	if mp.element == nil {
		el := mp.container.OwnerDocument().CreateElement(name)
		mp.container.AppendChild(el)
		mp.element = el
	} else if r.clearOnUpdate {
		mp.element.RemoveChildren()
		r.release(mp)
	}

	if err := r.applyProps(mp, classify(props), first); err != nil {
		return err
	}
	return r.mountChildren(children, mp.element, mp)
}

// release drops the mount points rendered inside mp's element after the
// element was cleared.
func (r *Renderer) release(mp *mountPoint) {
	n := r.mounts.drop(mp.kids)
	mp.kids = nil
	r.metrics.mountPointsRemoved(n)
	if n > 0 {
		r.logger.Debug("mount points released",
			zap.String("component", mp.name),
			zap.Uint64("mount_point", mp.id),
			zap.Int("count", n))
	}
}

func (r *Renderer) mountChildren(children []any, into dom.Element, owner *mountPoint) error {
	for _, c := range children {
		if _, ok := asNode(c); ok {
			if err := r.mount(c, into, owner); err != nil {
				return err
			}
			continue
		}
		into.AppendText(stringify(c))
	}
	return nil
}

// applyProps applies classified props to the mount point's element. Every
// rule a prop matched is applied; a prop that matched none becomes a plain
// attribute.
func (r *Renderer) applyProps(mp *mountPoint, props []prop, first bool) error {
	el := mp.element
	for _, p := range props {
		if p.kind.has(propClass) {
			el.AddClass(stringify(p.value))
		}
		if p.kind.has(propData) {
			for _, d := range p.data {
				el.SetDataset(d.key, stringify(d.value))
			}
		}
		if p.kind.has(propBool) {
			if p.value.(bool) {
				el.SetProperty(p.name, true)
			} else {
				el.DeleteProperty(p.name)
				el.SetProperty("x-"+p.name, false)
			}
		}
		if p.kind.has(propEvent) && first {
			handler, ok := handlerOf(p.value)
			if !ok {
				if p.kind.has(propBool) {
					continue
				}
				return fmt.Errorf("%w: %s handler has type %T", ErrInvalidNode, p.name, p.value)
			}
			el.AddEventListener(p.event, r.listener(mp, handler))
		}
		if p.kind == 0 {
			el.SetAttribute(p.name, stringify(p.value))
		}
	}
	return nil
}

// listener wraps a component's event handler: the handler runs first, then
// the mount point renders again before control returns to the dispatcher.
// A capability missing inside the handler is returned as an error. Once
// the mount point was dropped the handler still runs but nothing renders.
func (r *Renderer) listener(mp *mountPoint, handler func(Event) error) dom.Listener {
	return func(ev dom.Event) (err error) {
		defer recoverCapability(&err)
		r.metrics.eventHandled(ev.Type())
		if err := handler(ev); err != nil {
			return err
		}
		if _, ok := r.mounts.get(mp.id); !ok {
			return nil
		}
		return r.update(mp)
	}
}
