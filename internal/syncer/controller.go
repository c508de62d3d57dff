package syncer

import (
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/logging"
)

// TeardownHandle owns the teardowns of one running sync on one component.
// Run executes them at most once; later calls are no-ops.
type TeardownHandle struct {
	componentID string
	name        string
	teardowns   []Teardown // emitter first, handler second
	done        bool
}

// ComponentID returns the component the handle belongs to.
func (h *TeardownHandle) ComponentID() string { return h.componentID }

// Name returns the sync name.
func (h *TeardownHandle) Name() string { return h.name }

// Done reports whether the handle has already run.
func (h *TeardownHandle) Done() bool { return h.done }

// arenaKey addresses a handle in the controller's arena.
type arenaKey struct {
	componentID string
	name        string
}

// Controller starts and stops synchronizations per component.
// It is safe for concurrent use, but teardowns, emitters and handlers are
// always invoked without the controller's lock held.
type Controller struct {
	mu      sync.Mutex
	defs    Definitions
	arena   map[arenaKey]*TeardownHandle
	started map[string][]string // componentID -> names in start order
	logger  *logging.Logger
}

// NewController creates a controller over the given definition table.
// A nil logger discards output.
func NewController(defs Definitions, logger *logging.Logger) *Controller {
	return &Controller{
		defs:    defs,
		arena:   make(map[arenaKey]*TeardownHandle),
		started: make(map[string][]string),
		logger:  logging.OrNop(logger),
	}
}

// Definitions returns the controller's definition table.
func (c *Controller) Definitions() Definitions {
	return c.defs
}

// Start runs the emitter and then the handler of every named definition on
// comp, storing whatever teardowns they return. Unknown names and names
// already running on comp are skipped.
func (c *Controller) Start(comp Component, names ...string) {
	id := comp.ID()
	log := c.logger.WithComponent(id)

	for _, name := range names {
		c.mu.Lock()
		def, known := c.defs[name]
		_, running := c.arena[arenaKey{id, name}]
		c.mu.Unlock()

		if !known {
			log.Debug("sync skipped",
				"error", errors.NewSyncError("no definition", errors.ErrUnknownSyncName).WithSync(name).Error())
			continue
		}
		if running {
			log.Debug("sync already running", "sync", name)
			continue
		}

		handle := &TeardownHandle{componentID: id, name: name}
		if def.Emitter != nil {
			if td := c.invokeStart(log, name, "emitter", func() Teardown { return def.Emitter(comp) }); td != nil {
				handle.teardowns = append(handle.teardowns, td)
			}
		}
		if def.Handler != nil {
			if td := c.invokeStart(log, name, "handler", func() Teardown { return def.Handler(comp) }); td != nil {
				handle.teardowns = append(handle.teardowns, td)
			}
		}

		if len(handle.teardowns) == 0 {
			log.Debug("sync attached nothing", "sync", name)
			continue
		}

		c.mu.Lock()
		c.arena[arenaKey{id, name}] = handle
		c.started[id] = append(c.started[id], name)
		c.mu.Unlock()

		log.Debug("sync started", "sync", name, "teardowns", len(handle.teardowns))
	}
}

// Stop runs and discards the teardowns stored for each name on comp.
// Stopping a sync that is not running is a no-op.
func (c *Controller) Stop(comp Component, names ...string) {
	c.stop(comp.ID(), names)
}

// StopAll stops every sync running on comp, most recently started first.
// Components call it on their destruction path.
func (c *Controller) StopAll(comp Component) {
	id := comp.ID()

	c.mu.Lock()
	names := slices.Clone(c.started[id])
	c.mu.Unlock()

	slices.Reverse(names)
	c.stop(id, names)
}

func (c *Controller) stop(id string, names []string) {
	log := c.logger.WithComponent(id)

	for _, name := range names {
		key := arenaKey{id, name}

		c.mu.Lock()
		handle, ok := c.arena[key]
		if ok {
			delete(c.arena, key)
			c.started[id] = slices.DeleteFunc(c.started[id], func(n string) bool { return n == name })
			if len(c.started[id]) == 0 {
				delete(c.started, id)
			}
		}
		c.mu.Unlock()

		if !ok {
			log.Debug("sync stop ignored",
				"error", errors.NewSyncError("not running", errors.ErrDoubleTeardown).WithSync(name).Error())
			continue
		}

		c.run(log, handle)
		log.Debug("sync stopped", "sync", name)
	}
}

// run executes a handle's teardowns in reverse attach order.
func (c *Controller) run(log *logging.Logger, h *TeardownHandle) {
	if h.done {
		return
	}
	h.done = true
	for i := len(h.teardowns) - 1; i >= 0; i-- {
		c.safeTeardown(log, h.name, h.teardowns[i])
	}
}

// Active returns the syncs running on componentID in start order.
func (c *Controller) Active(componentID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.started[componentID])
}

// IsActive reports whether name is running on componentID.
func (c *Controller) IsActive(componentID, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.arena[arenaKey{componentID, name}]
	return ok
}

// Handle returns the stored handle for (componentID, name), if any.
func (c *Controller) Handle(componentID, name string) (*TeardownHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.arena[arenaKey{componentID, name}]
	return h, ok
}

// CheckLeaks returns an error naming every component that still holds
// running syncs, or nil. Call it after all components are destroyed.
func (c *Controller) CheckLeaks() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.started) == 0 {
		return nil
	}

	ids := make([]string, 0, len(c.started))
	for id := range c.started {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s(%s)", id, strings.Join(c.started[id], ",")))
	}

	return errors.NewSyncError(strings.Join(parts, " "), errors.ErrTeardownLeak).
		WithSeverity(errors.SeverityWarning)
}

// invokeStart calls an emitter or handler, turning a panic into "attached
// nothing". Anything attached before the panic has no teardown and is
// reported as a possible partial attach.
func (c *Controller) invokeStart(log *logging.Logger, name, role string, fn func() Teardown) (td Teardown) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("sync start panicked; attach may be partial and untracked",
				"sync", name,
				"role", role,
				"partial_attach", true,
				"error", errors.ErrListenerPanic.Error(),
				"panic", r,
				"stack", string(debug.Stack()))
			td = nil
		}
	}()
	return fn()
}

func (c *Controller) safeTeardown(log *logging.Logger, name string, td Teardown) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("sync teardown panicked",
				"sync", name,
				"error", errors.ErrListenerPanic.Error(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	td()
}
