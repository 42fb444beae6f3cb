package connectivity

import (
	"sync"
)

type Event string

const (
	EventOnline  Event = "online"
	EventOffline Event = "offline"
)

// Signal reports whether the network is reachable and announces transitions.
type Signal interface {
	Online() bool
	// Subscribe registers handler for event. The returned func detaches it and
	// is safe to call more than once.
	Subscribe(event Event, handler func()) (unsubscribe func())
}

type subscription struct {
	id      uint64
	handler func()
}

type broadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Event][]subscription
}

func (b *broadcaster) subscribe(event Event, handler func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[Event][]subscription)
	}
	b.nextID++
	id := b.nextID
	b.subs[event] = append(b.subs[event], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(event, id) })
	}
}

func (b *broadcaster) remove(event Event, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[event]
	for i, s := range subs {
		if s.id == id {
			b.subs[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (b *broadcaster) count(event Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

// emit runs handlers in registration order outside the lock so a handler may
// unsubscribe itself.
func (b *broadcaster) emit(event Event) {
	b.mu.Lock()
	handlers := make([]func(), 0, len(b.subs[event]))
	for _, s := range b.subs[event] {
		handlers = append(handlers, s.handler)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// Manual is a Signal driven by SetOnline. It backs the static mode and the
// other signal sources.
type Manual struct {
	broadcaster

	stateMu sync.Mutex
	online  bool
}

var _ Signal = (*Manual)(nil)

func NewManual(online bool) *Manual {
	return &Manual{online: online}
}

func (m *Manual) Online() bool {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.online
}

func (m *Manual) Subscribe(event Event, handler func()) func() {
	return m.subscribe(event, handler)
}

// Subscribers reports how many handlers are registered for event.
func (m *Manual) Subscribers(event Event) int {
	return m.count(event)
}

// SetOnline records the new state and fires an event only on an actual edge.
func (m *Manual) SetOnline(online bool) {
	m.stateMu.Lock()
	if m.online == online {
		m.stateMu.Unlock()
		return
	}
	m.online = online
	m.stateMu.Unlock()

	if online {
		m.emit(EventOnline)
	} else {
		m.emit(EventOffline)
	}
}
