package builtin

import (
	"github.com/Iron-Ham/boardsync/internal/sharedstate"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

func visibilityDefinition(deps Deps) syncer.Definition {
	return syncer.Definition{
		Name:    Visibility,
		Emitter: func(c syncer.Component) syncer.Teardown { return visibilityEmitter(deps, c) },
		Handler: func(c syncer.Component) syncer.Teardown { return visibilityHandler(deps, c) },
	}
}

// groupChart narrows c to a chart that belongs to a shared-state group.
func groupChart(deps Deps, c syncer.Component, role string) (Chart, string, bool) {
	chart, ok := c.(Chart)
	if !ok {
		deps.Logger.Debug("component is not a chart",
			"component", c.ID(), "sync", Visibility, "role", role)
		return nil, "", false
	}
	if deps.Groups == nil || chart.GroupID() == "" {
		declined(deps, chart, Visibility, role, "no shared-state group")
		return nil, "", false
	}
	if chart.Table() == nil {
		declined(deps, chart, Visibility, role, "no shared table")
		return nil, "", false
	}
	return chart, chart.GroupID(), true
}

// visibilityEmitter publishes the chart's series visibility to its group
// after every redraw.
func visibilityEmitter(deps Deps, c syncer.Component) syncer.Teardown {
	chart, groupID, ok := groupChart(deps, c, "emitter")
	if !ok {
		return nil
	}

	off := chart.OnRedraw(func() {
		if !chart.Rendered() {
			return
		}
		vis := make(map[string]bool)
		for _, s := range chart.Series() {
			if id := s.ID(); id != "" {
				vis[id] = s.Visible()
			}
		}
		if len(vis) == 0 {
			return
		}
		deps.Groups.SetColumnVisibility(groupID, vis, sharedstate.Meta{Sender: chart.ID()})
	})
	return syncer.Teardown(off)
}

// visibilityHandler applies group visibility changes to series with a
// matching ID. Series absent from the map are left alone.
func visibilityHandler(deps Deps, c syncer.Component) syncer.Teardown {
	chart, groupID, ok := groupChart(deps, c, "handler")
	if !ok {
		return nil
	}

	deps.Groups.Join(groupID, chart.ID(), func(change sharedstate.Change) {
		vis := change.State.ColumnVisibility()
		if vis == nil {
			return
		}
		for _, s := range chart.Series() {
			visible, ok := vis[s.ID()]
			if !ok || s.ID() == "" || s.Visible() == visible {
				continue
			}
			s.SetVisible(visible)
		}
	})

	return func() {
		deps.Groups.Leave(groupID, chart.ID())
	}
}
