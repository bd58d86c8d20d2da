package rigor

import (
	"sort"
	"sync"
)

// State is the local state record created by the state capability.
//
// Reads return the current value and writes replace it. A write does not
// re-render anything by itself: the new value shows up the next time the
// render function runs, which happens after an event handler returns.
//
// State is safe for concurrent use so timer callbacks may write to it.
type State struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]any
}

// NewState creates a state record holding the fields of init.
func NewState(init map[string]any) *State {
	s := &State{values: make(map[string]any, len(init))}
	for k := range init {
		s.keys = append(s.keys, k)
	}
	sort.Strings(s.keys)
	for _, k := range s.keys {
		s.values[k] = init[k]
	}
	return s
}

// Get returns the current value of key, or nil when the field is unknown.
func (s *State) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Lookup returns the current value of key and whether the field exists.
func (s *State) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set replaces the value of key. Unknown keys are added as new fields.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Keys returns the field names: the initial fields sorted, followed by
// fields added later in the order they were first set.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...)
}

// Snapshot returns a copy of all fields.
func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// StateValue returns key as a T, or the zero T when the field is unset or
// holds another type.
func StateValue[T any](s *State, key string) T {
	v, _ := s.Get(key).(T)
	return v
}
