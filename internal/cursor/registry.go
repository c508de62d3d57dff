package cursor

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/logging"
)

// DefaultMaxLasting is the number of lasting signals retained per key.
const DefaultMaxLasting = 16

// Listener is a function that receives cursor events.
type Listener func(Event)

// ListenerID identifies a registration so it can be removed later.
type ListenerID uint64

// listener represents a registered callback.
type listener struct {
	id ListenerID
	fn Listener
}

// Registry is a synchronous cursor bus keyed by (table ID, state).
// It is constructed explicitly and shared by reference; there is no
// package-level instance.
//
// Callbacks are never invoked while the registry's lock is held, so a
// listener may register, unregister or emit from inside its callback.
type Registry struct {
	mu         sync.RWMutex
	listeners  map[Key][]listener
	observers  []listener
	lasting    map[Key][]Signal
	maxLasting int
	nextID     atomic.Uint64
	logger     *logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for panic reports and debug traces.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMaxLasting sets how many lasting signals are retained per key.
// Values below 1 are ignored.
func WithMaxLasting(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxLasting = n
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		listeners:  make(map[Key][]listener),
		lasting:    make(map[Key][]Signal),
		maxLasting: DefaultMaxLasting,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)
	return r
}

// AddListener appends fn to the listener list for (tableID, state).
// Registering the same function twice keeps both registrations.
func (r *Registry) AddListener(tableID, state string, fn Listener) ListenerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ListenerID(r.nextID.Add(1))
	key := Key{TableID: tableID, State: state}
	r.listeners[key] = append(r.listeners[key], listener{id: id, fn: fn})
	return id
}

// RemoveListener removes a registration. It is a no-op if id is not
// registered on (tableID, state).
func (r *Registry) RemoveListener(tableID, state string, id ListenerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key{TableID: tableID, State: state}
	subs := r.listeners[key]
	for i, l := range subs {
		if l.id != id {
			continue
		}
		// Build a fresh slice so snapshots taken by in-flight emissions
		// keep their view.
		next := make([]listener, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(r.listeners, key)
		} else {
			r.listeners[key] = next
		}
		return
	}
}

// Observe registers fn to receive every emission on every key, after the
// key's own listeners. Intended for tracing.
func (r *Registry) Observe(fn Listener) ListenerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ListenerID(r.nextID.Add(1))
	r.observers = append(r.observers, listener{id: id, fn: fn})
	return id
}

// Unobserve removes an observer registered with Observe.
func (r *Registry) Unobserve(id ListenerID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.observers {
		if l.id == id {
			next := make([]listener, 0, len(r.observers)-1)
			next = append(next, r.observers[:i]...)
			r.observers = append(next, r.observers[i+1:]...)
			return
		}
	}
}

// EmitCursor dispatches signal to every listener on (table.ID(),
// signal.StateName()) in registration order, then to observers. When
// lasting is true the signal is retained before anyone is notified.
// Emitting to a key without listeners notifies nobody. The registry is
// returned so emissions can be chained.
func (r *Registry) EmitCursor(table Table, signal Signal, source *SourceEvent, lasting bool) *Registry {
	key := Key{TableID: table.ID(), State: signal.StateName()}

	r.mu.Lock()
	if lasting {
		records := append(r.lasting[key], signal)
		if over := len(records) - r.maxLasting; over > 0 {
			records = append([]Signal(nil), records[over:]...)
		}
		r.lasting[key] = records
	}
	// Listener slices are replaced, never mutated in place, on removal;
	// appends may share the backing array so the snapshot is copied.
	specific := make([]listener, len(r.listeners[key]))
	copy(specific, r.listeners[key])
	observers := make([]listener, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	ev := Event{Signal: signal, Table: table, Source: source}
	for _, l := range specific {
		r.safeCall(key, l.fn, ev)
	}
	for _, l := range observers {
		r.safeCall(key, l.fn, ev)
	}
	return r
}

// RemitCursor retracts the most recent lasting signal retained for
// (tableID, signal.StateName()). No listener is notified. It is a no-op
// when nothing is retained.
func (r *Registry) RemitCursor(tableID string, signal Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key{TableID: tableID, State: signal.StateName()}
	records := r.lasting[key]
	switch len(records) {
	case 0:
		return
	case 1:
		delete(r.lasting, key)
	default:
		r.lasting[key] = records[: len(records)-1 : len(records)-1]
	}
}

// Lasting returns a copy of the signals retained for (tableID, state),
// oldest first.
func (r *Registry) Lasting(tableID, state string) []Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.lasting[Key{TableID: tableID, State: state}]
	if len(records) == 0 {
		return nil
	}
	out := make([]Signal, len(records))
	copy(out, records)
	return out
}

// LatestLasting returns the most recent retained signal for
// (tableID, state).
func (r *Registry) LatestLasting(tableID, state string) (Signal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.lasting[Key{TableID: tableID, State: state}]
	if len(records) == 0 {
		return nil, false
	}
	return records[len(records)-1], true
}

// ListenerCount returns the number of listeners on (tableID, state).
func (r *Registry) ListenerCount(tableID, state string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[Key{TableID: tableID, State: state}])
}

// TotalListeners returns the number of listeners across all keys,
// observers excluded.
func (r *Registry) TotalListeners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, subs := range r.listeners {
		count += len(subs)
	}
	return count
}

// DropTable forgets every listener and lasting record for tableID.
// Call it when the shared table is destroyed.
func (r *Registry) DropTable(tableID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.listeners {
		if key.TableID == tableID {
			delete(r.listeners, key)
		}
	}
	for key := range r.lasting {
		if key.TableID == tableID {
			delete(r.lasting, key)
		}
	}
}

// safeCall invokes a listener and recovers from any panic so one
// misbehaving component cannot break delivery to the others.
func (r *Registry) safeCall(key Key, fn Listener, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("cursor listener panicked",
				"error", errors.ErrListenerPanic.Error(),
				"key", key.String(),
				"panic", rec,
				"stack", string(debug.Stack()))
		}
	}()
	fn(ev)
}
