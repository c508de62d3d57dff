package sharedstate

import (
	"maps"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/logging"
)

// ColumnVisibilityKey is the state key holding the column visibility map.
const ColumnVisibilityKey = "columnVisibility"

// State is a group's record of named values.
type State map[string]any

// ColumnVisibility returns the column visibility map stored in s, or nil.
func (s State) ColumnVisibility() map[string]bool {
	vis, _ := s[ColumnVisibilityKey].(map[string]bool)
	return vis
}

// clone copies s, including nested visibility maps, so callers cannot
// mutate the hub's record.
func (s State) clone() State {
	out := make(State, len(s))
	for k, v := range s {
		if m, ok := v.(map[string]bool); ok {
			v = maps.Clone(m)
		}
		out[k] = v
	}
	return out
}

// Meta describes who wrote a change.
type Meta struct {
	Sender string
}

// Change is delivered to group members after a write.
type Change struct {
	GroupID string
	Patch   State // the values written
	State   State // the merged record after the write
	Meta    Meta
}

// Listener receives changes for a group.
type Listener func(Change)

type member struct {
	id string
	fn Listener
}

type group struct {
	state   State
	members []member
}

// Hub keeps shared state for any number of groups.
// It is safe for concurrent use; listeners run without the lock held.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]*group
	logger *logging.Logger
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		groups: make(map[string]*group),
		logger: logging.OrNop(logger),
	}
}

func (h *Hub) groupLocked(groupID string) *group {
	g, ok := h.groups[groupID]
	if !ok {
		g = &group{state: make(State)}
		h.groups[groupID] = g
	}
	return g
}

// Join subscribes memberID to groupID. Joining again replaces the
// member's listener while keeping its position.
func (h *Hub) Join(groupID, memberID string, fn Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g := h.groupLocked(groupID)
	for i, m := range g.members {
		if m.id == memberID {
			g.members[i].fn = fn
			return
		}
	}
	g.members = append(g.members, member{id: memberID, fn: fn})
}

// Leave unsubscribes memberID from groupID. A group left without members
// is dropped with its state, including one that only ever received
// SetState. Leaving a group one is not part of is otherwise a no-op.
func (h *Hub) Leave(groupID, memberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[groupID]
	if !ok {
		return
	}
	g.members = slices.DeleteFunc(slices.Clone(g.members), func(m member) bool { return m.id == memberID })
	if len(g.members) == 0 {
		delete(h.groups, groupID)
	}
}

// Members returns the member IDs of groupID in join order.
func (h *Hub) Members(groupID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	g, ok := h.groups[groupID]
	if !ok {
		return nil
	}
	ids := make([]string, len(g.members))
	for i, m := range g.members {
		ids[i] = m.id
	}
	return ids
}

// SetState shallow-merges patch into groupID's record and notifies every
// member except meta.Sender, in join order.
func (h *Hub) SetState(groupID string, patch State, meta Meta) {
	h.mu.Lock()
	g := h.groupLocked(groupID)
	for k, v := range patch {
		g.state[k] = v
	}
	merged := g.state.clone()
	recipients := make([]member, 0, len(g.members))
	for _, m := range g.members {
		if m.id != meta.Sender {
			recipients = append(recipients, m)
		}
	}
	h.mu.Unlock()

	h.logger.Debug("shared state set",
		"group", groupID,
		"sender", meta.Sender,
		"keys", slices.Sorted(maps.Keys(patch)),
		"recipients", len(recipients))

	change := Change{GroupID: groupID, Patch: patch.clone(), State: merged, Meta: meta}
	for _, m := range recipients {
		h.safeCall(m, change)
	}
}

// GetState returns a snapshot of groupID's record. The snapshot is a copy;
// modifying it does not affect the hub.
func (h *Hub) GetState(groupID string) State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	g, ok := h.groups[groupID]
	if !ok {
		return State{}
	}
	return g.state.clone()
}

// SetColumnVisibility merges vis into the group's column visibility map
// and broadcasts the merged map.
func (h *Hub) SetColumnVisibility(groupID string, vis map[string]bool, meta Meta) {
	h.mu.RLock()
	var merged map[string]bool
	if g, ok := h.groups[groupID]; ok {
		merged = maps.Clone(g.state.ColumnVisibility())
	}
	h.mu.RUnlock()

	if merged == nil {
		merged = make(map[string]bool, len(vis))
	}
	maps.Copy(merged, vis)

	h.SetState(groupID, State{ColumnVisibilityKey: merged}, meta)
}

// ColumnVisibility returns a copy of the group's column visibility map.
func (h *Hub) ColumnVisibility(groupID string) map[string]bool {
	return h.GetState(groupID).ColumnVisibility()
}

func (h *Hub) safeCall(m member, change Change) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("shared state listener panicked",
				"group", change.GroupID,
				"member", m.id,
				"error", errors.ErrListenerPanic.Error(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	m.fn(change)
}
