package rigor

import (
	"sync"

	"github.com/pthm/rigor/lib/dom"
)

// mountPoint ties a host container to the render function retained for
// it. Host-tag nodes get one too, with a render function that rebuilds the
// node verbatim.
type mountPoint struct {
	id        uint64
	name      string
	container dom.Element
	element   dom.Element // nil while the expression is a fragment
	render    RenderFunc
	props     Props
	children  []any
	rendering bool
	kids      []uint64 // mount points created by this one's render phases
}

// arena owns the live mount points of a renderer. Mount points leave it
// only when a cleared re-render detaches the elements they rendered into.
type arena struct {
	mu     sync.RWMutex
	next   uint64
	points map[uint64]*mountPoint
}

func newArena() *arena {
	return &arena{points: make(map[uint64]*mountPoint)}
}

// reserve hands out the next id. The mount point is not reachable by id
// until add.
func (a *arena) reserve() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return a.next
}

func (a *arena) add(mp *mountPoint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.points[mp.id] = mp
}

// drop removes the mount points in ids and everything they created, and
// returns how many were removed.
func (a *arena) drop(ids []uint64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	stack := append([]uint64(nil), ids...)
	n := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		mp, ok := a.points[id]
		if !ok {
			continue
		}
		delete(a.points, id)
		n++
		stack = append(stack, mp.kids...)
	}
	return n
}

func (a *arena) get(id uint64) (*mountPoint, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	mp, ok := a.points[id]
	return mp, ok
}

func (a *arena) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.points)
}
