package memchart

import "github.com/Iron-Ham/boardsync/internal/builtin"

type hookEntry[T any] struct {
	id int
	fn func(T)
}

// hooks is a native event listener list. Firing iterates a snapshot so
// listeners may detach themselves or others while it runs.
type hooks[T any] struct {
	nextID  int
	entries []hookEntry[T]
}

func (h *hooks[T]) add(fn func(T)) builtin.Off {
	h.nextID++
	id := h.nextID
	h.entries = append(h.entries, hookEntry[T]{id: id, fn: fn})
	return func() {
		for i, e := range h.entries {
			if e.id == id {
				next := make([]hookEntry[T], 0, len(h.entries)-1)
				next = append(next, h.entries[:i]...)
				h.entries = append(next, h.entries[i+1:]...)
				return
			}
		}
	}
}

func (h *hooks[T]) fire(v T) {
	snapshot := h.entries
	for _, e := range snapshot {
		e.fn(v)
	}
}

func (h *hooks[T]) len() int { return len(h.entries) }

// signal adapts a no-argument callback to hooks[struct{}].
func signal(fn func()) func(struct{}) {
	return func(struct{}) { fn() }
}
