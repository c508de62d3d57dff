package builtin

import (
	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

func highlightDefinition(deps Deps) syncer.Definition {
	return syncer.Definition{
		Name:    Highlight,
		Emitter: func(c syncer.Component) syncer.Teardown { return highlightEmitter(deps, c) },
		Handler: func(c syncer.Component) syncer.Teardown { return highlightHandler(deps, c) },
	}
}

// highlightEmitter broadcasts point hover as table positions. Hover hooks
// are reinstalled after every render since renders may replace series.
func highlightEmitter(deps Deps, c syncer.Component) syncer.Teardown {
	chart, table, ok := chartWithTable(deps, c, Highlight, "emitter")
	if !ok {
		return nil
	}

	source := &cursor.SourceEvent{Target: chart}
	emit := func(state string, series Series, p Point) {
		row := cursor.Offset(table) + p.Index()
		deps.Cursor.EmitCursor(table, cursor.NewPosition(state, row, series.Name()), source, false)
	}

	var hooks Off
	hook := func() {
		if hooks != nil {
			hooks()
		}
		var list []Off
		for _, s := range chart.Series() {
			s := s
			list = append(list, s.OnPointHover(
				func(p Point) { emit(StatePointMouseOver, s, p) },
				func(p Point) { emit(StatePointMouseOut, s, p) },
			))
		}
		hooks = offs(list...)
	}

	offRender := chart.OnRender(hook)
	if chart.Rendered() {
		hook()
	}

	return func() {
		offRender()
		if hooks != nil {
			hooks()
			hooks = nil
		}
	}
}

// highlightHandler moves the chart's tooltip to positions hovered in other
// components, translating table rows through the live offset.
func highlightHandler(deps Deps, c syncer.Component) syncer.Teardown {
	chart, table, ok := chartWithTable(deps, c, Highlight, "handler")
	if !ok {
		return nil
	}
	tableID := table.ID()

	onCursor := func(e cursor.Event) {
		if e.Source.TargetIs(chart) {
			return
		}
		pos, ok := e.Signal.(cursor.Position)
		if !ok || !pos.HasRow() {
			return
		}
		tooltip := chart.Tooltip()
		if tooltip == nil {
			return
		}
		series := pickSeries(chart.Series(), pos.Column)
		if series == nil || !series.Visible() {
			return
		}
		points := series.Points()
		idx := *pos.Row - cursor.Offset(table)
		if idx < 0 || idx >= len(points) {
			return
		}
		tooltip.Refresh(points[idx])
	}

	onCursorOut := func(e cursor.Event) {
		if e.Source.TargetIs(chart) {
			return
		}
		if tooltip := chart.Tooltip(); tooltip != nil && len(chart.Series()) > 0 {
			tooltip.Hide()
		}
	}

	ids := []struct {
		state string
		id    cursor.ListenerID
	}{
		{StatePointMouseOver, deps.Cursor.AddListener(tableID, StatePointMouseOver, onCursor)},
		{StateGridHoverRow, deps.Cursor.AddListener(tableID, StateGridHoverRow, onCursor)},
		{StatePointMouseOut, deps.Cursor.AddListener(tableID, StatePointMouseOut, onCursorOut)},
		{StateGridHoverOut, deps.Cursor.AddListener(tableID, StateGridHoverOut, onCursorOut)},
	}

	return func() {
		for _, l := range ids {
			deps.Cursor.RemoveListener(tableID, l.state, l.id)
		}
	}
}

// pickSeries selects the series named column when the chart plots more
// than one, otherwise the first series.
func pickSeries(series []Series, column string) Series {
	if len(series) == 0 {
		return nil
	}
	if len(series) > 1 && column != "" {
		for _, s := range series {
			if s.Name() == column {
				return s
			}
		}
		return nil
	}
	return series[0]
}
