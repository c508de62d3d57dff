// Package board wires the synchronization engine together: one cursor
// registry, one shared-state hub and one sync controller over the
// built-in definitions, configured from [config.Config].
//
// A Board is what a dashboard owns. Components are mounted when they are
// created and unmounted on their destruction path; Close unmounts anything
// left and reports leaked teardowns.
package board

import (
	"maps"
	"slices"
	"sync"

	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/config"
	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/logging"
	"github.com/Iron-Ham/boardsync/internal/sharedstate"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

// Board owns the engine for one dashboard.
type Board struct {
	cfg    *config.Config
	logger *logging.Logger

	registry   *cursor.Registry
	hub        *sharedstate.Hub
	controller *syncer.Controller

	mu      sync.Mutex
	mounted map[string]syncer.Component
	order   []string
}

// New creates a board. A nil cfg uses config.Default(); a nil logger
// discards output.
func New(cfg *config.Config, logger *logging.Logger) *Board {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrNop(logger)

	registry := cursor.NewRegistry(
		cursor.WithLogger(logger),
		cursor.WithMaxLasting(cfg.Cursor.MaxLasting),
	)
	hub := sharedstate.NewHub(logger)
	defs := builtin.Definitions(builtin.Deps{
		Cursor: registry,
		Groups: hub,
		Logger: logger,
	})

	return &Board{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		hub:        hub,
		controller: syncer.NewController(defs, logger),
		mounted:    make(map[string]syncer.Component),
	}
}

// Registry returns the board's cursor registry.
func (b *Board) Registry() *cursor.Registry { return b.registry }

// Hub returns the board's shared-state hub.
func (b *Board) Hub() *sharedstate.Hub { return b.hub }

// Controller returns the board's sync controller.
func (b *Board) Controller() *syncer.Controller { return b.controller }

// Mount starts the syncs enabled for c: the configured defaults overlaid
// by opts. Mounting c again stops the syncs the new options no longer
// enable. Names without a definition are logged and ignored. It returns
// the syncs running on c afterwards.
func (b *Board) Mount(c syncer.Component, opts syncer.Options) ([]string, error) {
	if c == nil || c.ID() == "" {
		return nil, errors.NewSyncError("mount requires a component with an ID", errors.ErrInvalidInput)
	}
	id := c.ID()

	merged := maps.Clone(b.cfg.Sync)
	if merged == nil {
		merged = make(syncer.Options)
	}
	maps.Copy(merged, opts)

	defs := b.controller.Definitions()
	if unknown := syncer.Unknown(defs, merged); len(unknown) > 0 {
		b.logger.WithComponent(id).Warn("ignoring unknown syncs", "names", unknown)
	}
	names := syncer.Resolve(defs, merged)

	b.mu.Lock()
	if _, ok := b.mounted[id]; !ok {
		b.order = append(b.order, id)
	}
	b.mounted[id] = c
	b.mu.Unlock()

	var disabled []string
	for _, name := range b.controller.Active(id) {
		if !slices.Contains(names, name) {
			disabled = append(disabled, name)
		}
	}
	if len(disabled) > 0 {
		b.controller.Stop(c, disabled...)
	}

	b.controller.Start(c, names...)
	active := b.controller.Active(id)
	b.logger.WithComponent(id).Debug("component mounted", "requested", names, "stopped", disabled, "active", active)
	return active, nil
}

// Unmount stops every sync running on c. Unmounting an unknown component
// is a no-op.
func (b *Board) Unmount(c syncer.Component) {
	id := c.ID()

	b.mu.Lock()
	_, ok := b.mounted[id]
	if ok {
		delete(b.mounted, id)
		b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == id })
	}
	b.mu.Unlock()

	if !ok {
		return
	}
	b.controller.StopAll(c)
	b.logger.WithComponent(id).Debug("component unmounted")
}

// Mounted returns the IDs of mounted components in mount order.
func (b *Board) Mounted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.order)
}

// Component returns the mounted component with the given ID.
func (b *Board) Component(id string) (syncer.Component, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.mounted[id]
	return c, ok
}

// Close unmounts every component, most recently mounted first, and
// returns any teardown leak the controller still reports.
func (b *Board) Close() error {
	b.mu.Lock()
	order := slices.Clone(b.order)
	b.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		if c, ok := b.Component(order[i]); ok {
			b.Unmount(c)
		}
	}

	if err := b.controller.CheckLeaks(); err != nil {
		b.logger.Warn("teardown leak", "error", err.Error())
		return err
	}
	return nil
}
