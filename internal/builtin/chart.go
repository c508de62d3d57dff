package builtin

import (
	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

// Cursor state names used by the built-in definitions.
const (
	StatePointMouseOver  = "point.mouseOver"
	StatePointMouseOut   = "point.mouseOut"
	StateGridHoverRow    = "dataGrid.hoverRow"
	StateGridHoverOut    = "dataGrid.hoverOut"
	StateResetSelection  = "chart.resetSelection"
	StateShowResetZoom   = "chart.showResetZoom"
	extremesStateMinTmpl = "%s.extremes.min"
	extremesStateMaxTmpl = "%s.extremes.max"
)

// Axis collections synchronized by the extremes definition.
const (
	CollX = "xAxis"
	CollY = "yAxis"
)

// Off detaches a native event listener.
type Off func()

// Chart is the capability set a chart binding exposes to the built-in
// definitions. Event registration methods return an Off that detaches the
// listener they installed.
type Chart interface {
	syncer.Component

	// Table returns the shared table the chart is bound to, or nil.
	Table() cursor.Table
	// GroupID returns the shared-state group the chart belongs to, or "".
	GroupID() string
	// Rendered reports whether the chart has completed a first render.
	Rendered() bool

	Series() []Series
	Axes() []Axis
	// Tooltip returns the chart's tooltip, or nil when it has none.
	Tooltip() Tooltip

	ZoomOut()
	ShowResetZoom()

	// OnRender fires after every render.
	OnRender(fn func()) Off
	// OnRedraw fires after every redraw, including visibility changes.
	OnRedraw(fn func()) Off
	// OnSelection fires when a selection is made or reset.
	OnSelection(fn func(SelectionEvent)) Off
	// OnShowResetZoom fires after the reset-zoom button is shown.
	OnShowResetZoom(fn func()) Off
}

// SelectionEvent describes a native selection change.
type SelectionEvent struct {
	Reset bool
}

// Series is one plotted column.
type Series interface {
	// ID returns the series' configured identity, or "" when unset.
	ID() string
	// Name returns the column name the series plots.
	Name() string
	Visible() bool
	// SetVisible changes visibility; bindings fire a redraw only when the
	// value actually changes.
	SetVisible(visible bool)
	Points() []Point
	// OnPointHover installs mouse-over and mouse-out callbacks for every
	// point of the series.
	OnPointHover(over, out func(Point)) Off
}

// Point is one plotted row.
type Point interface {
	// Index is the point's position within its series.
	Index() int
	Visible() bool
	// Inside reports whether the point is inside the plot area.
	Inside() bool
}

// Axis is one chart axis.
type Axis interface {
	// Coll returns the axis collection, CollX or CollY.
	Coll() string
	// Extremes returns the current min and max, nil when unset.
	Extremes() (min, max *float64)
	SetExtremes(min, max float64)
	DateTime() bool
	// Series returns the series plotted against the axis.
	Series() []Series
	// OnAfterSetExtremes fires after the axis range changes.
	OnAfterSetExtremes(fn func(ExtremesEvent)) Off
}

// ExtremesEvent describes a native axis range change.
type ExtremesEvent struct {
	// ResetSelection marks changes caused by a selection reset, which are
	// broadcast as chart.resetSelection instead.
	ResetSelection bool
}

// Tooltip is a chart's hover tooltip.
type Tooltip interface {
	Refresh(p Point)
	Hide()
}
