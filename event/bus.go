package event

import (
	"sync"

	"github.com/hupe1980/npclink/core"
	"github.com/hupe1980/npclink/logging"
)

// Listener receives notifications from the Bus. All callbacks are optional;
// a nil callback is skipped. OnMessage and OnCommand report whether the
// listener consumed the event, which stops delivery to later listeners.
type Listener struct {
	// OnConnection is called for every connection state change.
	OnConnection func(ev core.ConnectionEvent)
	// OnMessage is called for NPC text messages. Return true to consume.
	OnMessage func(ev core.MessageEvent) bool
	// OnCommand is called for NPC function invocations. Return true to
	// consume.
	OnCommand func(ev core.CommandEvent) bool
	// OnError is called for classified failures.
	OnError func(ev core.ErrorEvent)
}

// Subscription identifies a registered listener for later removal.
type Subscription int64

type entry struct {
	sub      Subscription
	listener Listener
}

// BusOptions configure a Bus.
type BusOptions struct {
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Bus is a core.Publisher that fans notifications out to registered
// listeners. Listeners are invoked synchronously on the publishing
// goroutine, in registration order, so callbacks must not block. Safe for
// concurrent use.
type Bus struct {
	mu      sync.RWMutex
	entries []entry
	nextSub Subscription
	logger  logging.Logger
}

// NewBus creates an empty bus.
func NewBus(optFns ...func(o *BusOptions)) *Bus {
	opts := BusOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Bus{logger: opts.Logger}
}

// Add registers a listener and returns its subscription handle.
func (b *Bus) Add(l Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSub++
	b.entries = append(b.entries, entry{sub: b.nextSub, listener: l})
	return b.nextSub
}

// Remove unregisters the listener for the given subscription. Unknown
// subscriptions are a no-op.
func (b *Bus) Remove(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.sub == sub {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Clear removes all listeners.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *Bus) snapshot() []entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]entry(nil), b.entries...)
}

// ConnectionChanged implements core.Publisher. Every listener with an
// OnConnection callback is notified.
func (b *Bus) ConnectionChanged(ev core.ConnectionEvent) {
	for _, e := range b.snapshot() {
		if e.listener.OnConnection != nil {
			e.listener.OnConnection(ev)
		}
	}
}

// NPCMessage implements core.Publisher. Delivery stops at the first
// listener that consumes the message; the return value reports whether any
// listener did.
func (b *Bus) NPCMessage(ev core.MessageEvent) bool {
	for _, e := range b.snapshot() {
		if e.listener.OnMessage != nil && e.listener.OnMessage(ev) {
			return true
		}
	}
	b.logger.Debug("npc message not consumed by any listener", "npc_id", ev.NpcID, "key", ev.Key)
	return false
}

// NPCCommand implements core.Publisher. Delivery stops at the first
// listener that consumes the command; the return value reports whether any
// listener did.
func (b *Bus) NPCCommand(ev core.CommandEvent) bool {
	for _, e := range b.snapshot() {
		if e.listener.OnCommand != nil && e.listener.OnCommand(ev) {
			return true
		}
	}
	b.logger.Debug("npc command not consumed by any listener", "npc_id", ev.NpcID, "key", ev.Key, "command", ev.Name())
	return false
}

// StreamError implements core.Publisher. Every listener with an OnError
// callback is notified.
func (b *Bus) StreamError(ev core.ErrorEvent) {
	for _, e := range b.snapshot() {
		if e.listener.OnError != nil {
			e.listener.OnError(ev)
		}
	}
}
