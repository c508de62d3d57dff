// Package memchart is an in-memory chart binding implementing
// builtin.Chart. It renders nothing; it keeps series, axes and tooltip
// state and fires native events the way a real chart library would, which
// makes it the reference binding for tests and scenario replay.
//
// memchart is not safe for concurrent use, matching the single-threaded
// event model of the charts it stands in for.
package memchart

import (
	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/cursor"
)

// SeriesConfig describes one series.
type SeriesConfig struct {
	ID     string
	Name   string
	Values []float64
	Hidden bool
}

// Config describes a chart.
type Config struct {
	ID        string
	GroupID   string
	Table     cursor.Table
	Series    []SeriesConfig
	XDateTime bool
	NoTooltip bool
}

// Chart is an in-memory chart.
type Chart struct {
	id      string
	groupID string
	table   cursor.Table

	series  []*Series
	axes    []*Axis
	tooltip *Tooltip

	rendered      bool
	resetZoomShow bool

	// Counters of handler-driven mutations, for assertions.
	ZoomOuts       int
	ResetZoomShows int

	onRender    hooks[struct{}]
	onRedraw    hooks[struct{}]
	onSelection hooks[builtin.SelectionEvent]
	onResetZoom hooks[struct{}]
}

// New builds a chart from cfg with one x axis and one y axis.
func New(cfg Config) *Chart {
	c := &Chart{
		id:      cfg.ID,
		groupID: cfg.GroupID,
		table:   cfg.Table,
	}
	if !cfg.NoTooltip {
		c.tooltip = &Tooltip{}
	}
	for _, sc := range cfg.Series {
		s := &Series{chart: c, id: sc.ID, name: sc.Name, visible: !sc.Hidden}
		for i, v := range sc.Values {
			s.points = append(s.points, &Point{series: s, index: i, x: float64(i), y: v})
		}
		c.series = append(c.series, s)
	}
	c.axes = []*Axis{
		{chart: c, coll: builtin.CollX, dateTime: cfg.XDateTime},
		{chart: c, coll: builtin.CollY},
	}
	return c
}

// ID implements syncer.Component.
func (c *Chart) ID() string { return c.id }

// Table implements builtin.Chart.
func (c *Chart) Table() cursor.Table { return c.table }

// GroupID implements builtin.Chart.
func (c *Chart) GroupID() string { return c.groupID }

// Rendered implements builtin.Chart.
func (c *Chart) Rendered() bool { return c.rendered }

// Series implements builtin.Chart.
func (c *Chart) Series() []builtin.Series {
	out := make([]builtin.Series, len(c.series))
	for i, s := range c.series {
		out[i] = s
	}
	return out
}

// Axes implements builtin.Chart.
func (c *Chart) Axes() []builtin.Axis {
	out := make([]builtin.Axis, len(c.axes))
	for i, a := range c.axes {
		out[i] = a
	}
	return out
}

// Tooltip implements builtin.Chart.
func (c *Chart) Tooltip() builtin.Tooltip {
	if c.tooltip == nil {
		return nil
	}
	return c.tooltip
}

// ChartTooltip returns the concrete tooltip, or nil.
func (c *Chart) ChartTooltip() *Tooltip { return c.tooltip }

// SeriesByName returns the series plotting column name.
func (c *Chart) SeriesByName(name string) *Series {
	for _, s := range c.series {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Axis returns the axis of collection coll.
func (c *Chart) Axis(coll string) *Axis {
	for _, a := range c.axes {
		if a.coll == coll {
			return a
		}
	}
	return nil
}

// ZoomOut implements builtin.Chart. It clears every axis range and fires a
// reset selection. A chart that is not zoomed does nothing.
func (c *Chart) ZoomOut() {
	zoomed := false
	for _, a := range c.axes {
		if a.min != nil || a.max != nil {
			zoomed = true
		}
	}
	if !zoomed {
		return
	}
	c.ZoomOuts++
	c.resetZoomShow = false
	for _, a := range c.axes {
		a.reset()
	}
	c.onSelection.fire(builtin.SelectionEvent{Reset: true})
}

// ShowResetZoom implements builtin.Chart. It is a no-op while the button
// is already shown.
func (c *Chart) ShowResetZoom() {
	if c.resetZoomShow {
		return
	}
	c.resetZoomShow = true
	c.ResetZoomShows++
	c.onResetZoom.fire(struct{}{})
}

// ResetZoomShown reports whether the reset-zoom button is visible.
func (c *Chart) ResetZoomShown() bool { return c.resetZoomShow }

// OnRender implements builtin.Chart.
func (c *Chart) OnRender(fn func()) builtin.Off { return c.onRender.add(signal(fn)) }

// OnRedraw implements builtin.Chart.
func (c *Chart) OnRedraw(fn func()) builtin.Off { return c.onRedraw.add(signal(fn)) }

// OnSelection implements builtin.Chart.
func (c *Chart) OnSelection(fn func(builtin.SelectionEvent)) builtin.Off {
	return c.onSelection.add(fn)
}

// OnShowResetZoom implements builtin.Chart.
func (c *Chart) OnShowResetZoom(fn func()) builtin.Off { return c.onResetZoom.add(signal(fn)) }

// NativeListeners returns how many native listeners are attached to the
// chart and everything it owns.
func (c *Chart) NativeListeners() int {
	n := c.onRender.len() + c.onRedraw.len() + c.onSelection.len() + c.onResetZoom.len()
	for _, s := range c.series {
		n += s.onOver.len() + s.onOut.len()
	}
	for _, a := range c.axes {
		n += a.onSetExtremes.len()
	}
	return n
}

// Render marks the chart rendered and fires render listeners.
func (c *Chart) Render() {
	c.rendered = true
	c.onRender.fire(struct{}{})
}

// Redraw fires redraw listeners.
func (c *Chart) Redraw() {
	c.onRedraw.fire(struct{}{})
}

// Hover simulates the pointer entering point index of series name.
// It reports whether the point exists.
func (c *Chart) Hover(series string, index int) bool {
	s := c.SeriesByName(series)
	if s == nil || index < 0 || index >= len(s.points) {
		return false
	}
	s.onOver.fire(s.points[index])
	return true
}

// Leave simulates the pointer leaving point index of series name.
func (c *Chart) Leave(series string, index int) bool {
	s := c.SeriesByName(series)
	if s == nil || index < 0 || index >= len(s.points) {
		return false
	}
	s.onOut.fire(s.points[index])
	return true
}

// Zoom simulates a user selection on axis coll and shows the reset button.
func (c *Chart) Zoom(coll string, min, max float64) bool {
	a := c.Axis(coll)
	if a == nil {
		return false
	}
	a.SetExtremes(min, max)
	c.ShowResetZoom()
	return true
}

// Toggle simulates a legend click on series name.
func (c *Chart) Toggle(series string) bool {
	s := c.SeriesByName(series)
	if s == nil {
		return false
	}
	s.SetVisible(!s.visible)
	return true
}
