package rigor

import "sync"

// Bus is an in-process topic broadcaster backing the emit/on capabilities.
//
// Delivery is synchronous: Emit returns after every subscriber ran, in
// subscription order. Subscribers added or removed during an Emit take
// effect from the next Emit.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscription
}

type subscription struct {
	id uint64
	fn func(data any)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Emit broadcasts data to the current subscribers of topic.
func (b *Bus) Emit(topic string, data any) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(data)
	}
}

// On subscribes fn to topic. The returned disposer removes the
// subscription; calling it more than once is harmless.
func (b *Bus) On(topic string, fn func(data any)) (dispose func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

// Subscribers returns the number of active subscriptions on topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

func (b *Bus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}
