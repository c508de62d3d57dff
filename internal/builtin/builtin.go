// Package builtin provides the stock synchronization definitions for chart
// components: highlight, extremes and visibility.
//
// The definitions depend only on the [Chart] capability interface. Any
// chart binding that implements it can take part; components that do not
// (grids, text panels) are skipped by the chart definitions.
package builtin

import (
	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/logging"
	"github.com/Iron-Ham/boardsync/internal/sharedstate"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

// Sync names
const (
	Highlight  = "highlight"
	Extremes   = "extremes"
	Visibility = "visibility"
)

// Deps are the shared collaborators the built-in definitions close over.
type Deps struct {
	Cursor *cursor.Registry
	Groups *sharedstate.Hub
	Logger *logging.Logger
}

// Definitions returns the built-in definition table bound to deps.
func Definitions(deps Deps) syncer.Definitions {
	deps.Logger = logging.OrNop(deps.Logger)
	return syncer.NewDefinitions(
		highlightDefinition(deps),
		extremesDefinition(deps),
		visibilityDefinition(deps),
	)
}

// Names returns the built-in sync names.
func Names() []string {
	return []string{Extremes, Highlight, Visibility}
}

// chartWithTable narrows c to a Chart bound to a table, logging why not
// when it is not one.
func chartWithTable(deps Deps, c syncer.Component, sync, role string) (Chart, cursor.Table, bool) {
	chart, ok := c.(Chart)
	if !ok {
		deps.Logger.Debug("component is not a chart",
			"component", c.ID(), "sync", sync, "role", role)
		return nil, nil, false
	}
	table := chart.Table()
	if table == nil || deps.Cursor == nil {
		declined(deps, chart, sync, role, "no shared table")
		return nil, nil, false
	}
	return chart, table, true
}

func declined(deps Deps, c syncer.Component, sync, role, why string) {
	err := errors.NewSyncError(role+" declined to attach: "+why, errors.ErrMissingCollaborator).
		WithComponent(c.ID()).
		WithSync(sync)
	deps.Logger.Debug("sync declined", "error", err.Error())
}

// offs bundles detach functions into a single Off.
func offs(list ...Off) Off {
	return func() {
		for i := len(list) - 1; i >= 0; i-- {
			if list[i] != nil {
				list[i]()
			}
		}
	}
}
