package builtin

import (
	"fmt"

	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

// ExtremesMinState returns the lasting state carrying coll's minimum.
func ExtremesMinState(coll string) string { return fmt.Sprintf(extremesStateMinTmpl, coll) }

// ExtremesMaxState returns the lasting state carrying coll's maximum.
func ExtremesMaxState(coll string) string { return fmt.Sprintf(extremesStateMaxTmpl, coll) }

func extremesDefinition(deps Deps) syncer.Definition {
	return syncer.Definition{
		Name:    Extremes,
		Emitter: func(c syncer.Component) syncer.Teardown { return extremesEmitter(deps, c) },
		Handler: func(c syncer.Component) syncer.Teardown { return extremesHandler(deps, c) },
	}
}

// extremesEmitter broadcasts axis range changes as lasting min/max
// positions, and selection resets and reset-zoom display as transient
// chart states.
func extremesEmitter(deps Deps, c syncer.Component) syncer.Teardown {
	chart, table, ok := chartWithTable(deps, c, Extremes, "emitter")
	if !ok {
		return nil
	}

	var axisHooks Off
	hook := func() {
		if axisHooks != nil {
			axisHooks()
		}
		var list []Off
		for _, axis := range chart.Axes() {
			axis := axis
			list = append(list, axis.OnAfterSetExtremes(func(ev ExtremesEvent) {
				if ev.ResetSelection {
					return
				}
				emitAxisExtremes(deps, table, axis)
			}))
		}
		axisHooks = offs(list...)
	}

	chartSource := &cursor.SourceEvent{Target: chart}
	offSelection := chart.OnSelection(func(ev SelectionEvent) {
		if ev.Reset {
			src := &cursor.SourceEvent{Target: chart, Reset: true}
			deps.Cursor.EmitCursor(table, cursor.StatePosition(StateResetSelection), src, false)
		}
	})
	offResetZoom := chart.OnShowResetZoom(func() {
		deps.Cursor.EmitCursor(table, cursor.StatePosition(StateShowResetZoom), chartSource, false)
	})
	offRender := chart.OnRender(hook)
	if chart.Rendered() {
		hook()
	}

	return func() {
		offRender()
		offSelection()
		offResetZoom()
		if axisHooks != nil {
			axisHooks()
			axisHooks = nil
		}
	}
}

// emitAxisExtremes emits the lasting min/max pair for axis. On the x axis
// the positions address the first and last points inside the plot area.
func emitAxisExtremes(deps Deps, table cursor.Table, axis Axis) {
	series := axis.Series()
	if len(series) == 0 {
		return
	}
	first := series[0]

	minPos := cursor.StatePosition(ExtremesMinState(axis.Coll()))
	maxPos := cursor.StatePosition(ExtremesMaxState(axis.Coll()))

	if axis.Coll() == CollX {
		var inside []Point
		for _, p := range first.Points() {
			if p.Inside() {
				inside = append(inside, p)
			}
		}
		if len(inside) > 0 {
			column := first.Name()
			if axis.DateTime() {
				column = "x"
			}
			minRow, maxRow := inside[0].Index(), inside[len(inside)-1].Index()
			minPos.Row, minPos.Column = &minRow, column
			maxPos.Row, maxPos.Column = &maxRow, column
		}
	}

	source := &cursor.SourceEvent{Target: axis}
	deps.Cursor.
		EmitCursor(table, minPos, source, true).
		EmitCursor(table, maxPos, source, true)
}

// extremesHandler mirrors other charts' axis ranges onto this chart's axes
// of the same collection. Updates happen only when the incoming range
// differs from the current one, which ends feedback between charts.
func extremesHandler(deps Deps, c syncer.Component) syncer.Teardown {
	chart, table, ok := chartWithTable(deps, c, Extremes, "handler")
	if !ok {
		return nil
	}
	tableID := table.ID()

	type registration struct {
		state string
		id    cursor.ListenerID
	}
	var regs []registration
	add := func(state string, fn cursor.Listener) {
		regs = append(regs, registration{state, deps.Cursor.AddListener(tableID, state, fn)})
	}

	for _, coll := range []string{CollX, CollY} {
		coll := coll
		onExtremes := func(e cursor.Event) {
			if _, ok := e.Signal.(cursor.Position); !ok || e.Source == nil {
				return
			}
			source, ok := e.Source.Target.(Axis)
			if !ok {
				return
			}
			applyExtremes(chart, coll, source)
		}
		add(ExtremesMinState(coll), onExtremes)
		add(ExtremesMaxState(coll), onExtremes)
	}

	add(StateResetSelection, func(e cursor.Event) {
		if e.Source.TargetIs(chart) {
			return
		}
		chart.ZoomOut()
	})
	add(StateShowResetZoom, func(e cursor.Event) {
		if e.Source.TargetIs(chart) {
			return
		}
		chart.ShowResetZoom()
	})

	return func() {
		for _, r := range regs {
			deps.Cursor.RemoveListener(tableID, r.state, r.id)
		}
		deps.Cursor.RemitCursor(tableID, cursor.StatePosition(ExtremesMinState(CollX)))
		deps.Cursor.RemitCursor(tableID, cursor.StatePosition(ExtremesMaxState(CollX)))
	}
}

// applyExtremes copies source's range onto chart's axes of collection coll,
// skipping source itself and axes already showing that range.
func applyExtremes(chart Chart, coll string, source Axis) {
	if source.Coll() != coll {
		return
	}
	srcMin, srcMax := source.Extremes()
	if srcMin == nil || srcMax == nil {
		return
	}
	for _, axis := range chart.Axes() {
		if axis.Coll() != coll || axis == source {
			continue
		}
		curMin, curMax := axis.Extremes()
		if sameExtreme(curMin, *srcMin) && sameExtreme(curMax, *srcMax) {
			continue
		}
		axis.SetExtremes(*srcMin, *srcMax)
	}
}

func sameExtreme(cur *float64, v float64) bool {
	return cur != nil && *cur == v
}
