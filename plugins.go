package rigor

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FragmentPlugin provides the fragment marker.
func FragmentPlugin(Trigger) Provides {
	return Provides{CapFragment: Fragment}
}

// ReactiveStatePlugin provides the state constructor. Writes to the state
// it creates do not call the re-render trigger.
func ReactiveStatePlugin(Trigger) Provides {
	return Provides{CapState: StateFunc(NewState)}
}

// NullLoggerPlugin provides a log capability that discards everything.
func NullLoggerPlugin(Trigger) Provides {
	return Provides{CapLog: LogFunc(func(...any) {})}
}

// ConsoleLoggerPlugin routes the log capability to logger at info level.
// A nil logger resolves to zap.L() when the capability is created, so the
// process-wide logger installed with zap.ReplaceGlobals is picked up.
func ConsoleLoggerPlugin(logger *zap.Logger) Plugin {
	return func(Trigger) Provides {
		l := logger
		if l == nil {
			l = zap.L()
		}
		sugar := l.Sugar()
		return Provides{CapLog: LogFunc(func(args ...any) {
			sugar.Info(args...)
		})}
	}
}

// FetchPlugin provides fetch backed by client, or http.DefaultClient when
// client is nil.
func FetchPlugin(client *http.Client) Plugin {
	if client == nil {
		client = http.DefaultClient
	}
	return func(Trigger) Provides {
		return Provides{CapFetch: FetchFunc(client.Do)}
	}
}

// PubsubPlugin provides emit and on backed by bus.
func PubsubPlugin(bus *Bus) Plugin {
	return func(Trigger) Provides {
		return Provides{
			CapEmit: EmitFunc(bus.Emit),
			CapOn:   OnFunc(bus.On),
		}
	}
}

// TimersPlugin provides setTimeout, clearTimeout, setInterval and
// clearInterval. Every component invocation gets its own timer table.
//
// Callbacks run on their own goroutine. A callback that touches a host
// tree must synchronise with whoever dispatches events on it.
func TimersPlugin(Trigger) Provides {
	t := &timers{stops: make(map[TimerID]func())}
	return Provides{
		CapSetTimeout:    SetTimerFunc(t.setTimeout),
		CapClearTimeout:  ClearTimerFunc(t.clear),
		CapSetInterval:   SetTimerFunc(t.setInterval),
		CapClearInterval: ClearTimerFunc(t.clear),
	}
}

// minInterval bounds setInterval periods; time.NewTicker rejects zero.
const minInterval = time.Millisecond

type timers struct {
	mu    sync.Mutex
	next  TimerID
	stops map[TimerID]func()
}

func (t *timers) register(stop func()) TimerID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.stops[t.next] = stop
	return t.next
}

func (t *timers) forget(id TimerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.stops, id)
}

func (t *timers) setTimeout(fn func(), d time.Duration) TimerID {
	var id TimerID
	ready := make(chan struct{})
	timer := time.AfterFunc(d, func() {
		<-ready
		t.forget(id)
		fn()
	})
	id = t.register(func() { timer.Stop() })
	close(ready)
	return id
}

func (t *timers) setInterval(fn func(), d time.Duration) TimerID {
	if d < minInterval {
		d = minInterval
	}
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return t.register(func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	})
}

func (t *timers) clear(id TimerID) {
	t.mu.Lock()
	stop, ok := t.stops[id]
	delete(t.stops, id)
	t.mu.Unlock()
	if ok {
		stop()
	}
}

// active returns the number of pending timers.
func (t *timers) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stops)
}
