package memchart

import "github.com/Iron-Ham/boardsync/internal/builtin"

// Series is one in-memory series.
type Series struct {
	chart   *Chart
	id      string
	name    string
	visible bool
	points  []*Point

	onOver hooks[*Point]
	onOut  hooks[*Point]
}

// ID implements builtin.Series.
func (s *Series) ID() string { return s.id }

// Name implements builtin.Series.
func (s *Series) Name() string { return s.name }

// Visible implements builtin.Series.
func (s *Series) Visible() bool { return s.visible }

// SetVisible implements builtin.Series. The chart redraws only when the
// value changes.
func (s *Series) SetVisible(visible bool) {
	if s.visible == visible {
		return
	}
	s.visible = visible
	s.chart.Redraw()
}

// Points implements builtin.Series.
func (s *Series) Points() []builtin.Point {
	out := make([]builtin.Point, len(s.points))
	for i, p := range s.points {
		out[i] = p
	}
	return out
}

// OnPointHover implements builtin.Series.
func (s *Series) OnPointHover(over, out func(builtin.Point)) builtin.Off {
	offOver := s.onOver.add(func(p *Point) { over(p) })
	offOut := s.onOut.add(func(p *Point) { out(p) })
	return func() {
		offOver()
		offOut()
	}
}

// Point is one in-memory point. Its x value is its index.
type Point struct {
	series *Series
	index  int
	x, y   float64
}

// Index implements builtin.Point.
func (p *Point) Index() int { return p.index }

// Y returns the point's value.
func (p *Point) Y() float64 { return p.y }

// SeriesName returns the name of the series the point belongs to.
func (p *Point) SeriesName() string { return p.series.name }

// Visible implements builtin.Point.
func (p *Point) Visible() bool { return p.series.visible }

// Inside implements builtin.Point: the point lies within the x axis range.
func (p *Point) Inside() bool {
	x := p.series.chart.Axis(builtin.CollX)
	if x == nil {
		return true
	}
	if x.min != nil && p.x < *x.min {
		return false
	}
	if x.max != nil && p.x > *x.max {
		return false
	}
	return true
}

// Axis is one in-memory axis.
type Axis struct {
	chart    *Chart
	coll     string
	dateTime bool
	min, max *float64

	// SetCalls counts SetExtremes calls.
	SetCalls int

	onSetExtremes hooks[builtin.ExtremesEvent]
}

// ChartID returns the ID of the chart owning the axis.
func (a *Axis) ChartID() string { return a.chart.id }

// Coll implements builtin.Axis.
func (a *Axis) Coll() string { return a.coll }

// Extremes implements builtin.Axis.
func (a *Axis) Extremes() (min, max *float64) { return a.min, a.max }

// SetExtremes implements builtin.Axis.
func (a *Axis) SetExtremes(min, max float64) {
	a.min, a.max = &min, &max
	a.SetCalls++
	a.onSetExtremes.fire(builtin.ExtremesEvent{})
}

func (a *Axis) reset() {
	if a.min == nil && a.max == nil {
		return
	}
	a.min, a.max = nil, nil
	a.onSetExtremes.fire(builtin.ExtremesEvent{ResetSelection: true})
}

// DateTime implements builtin.Axis.
func (a *Axis) DateTime() bool { return a.dateTime }

// Series implements builtin.Axis. Every series is plotted against both
// axes.
func (a *Axis) Series() []builtin.Series { return a.chart.Series() }

// OnAfterSetExtremes implements builtin.Axis.
func (a *Axis) OnAfterSetExtremes(fn func(builtin.ExtremesEvent)) builtin.Off {
	return a.onSetExtremes.add(fn)
}

// Tooltip records what it was asked to show.
type Tooltip struct {
	point     *Point
	shown     bool
	Refreshes int
	Hides     int
}

// Refresh implements builtin.Tooltip.
func (t *Tooltip) Refresh(p builtin.Point) {
	mp, _ := p.(*Point)
	t.point = mp
	t.shown = true
	t.Refreshes++
}

// Hide implements builtin.Tooltip.
func (t *Tooltip) Hide() {
	t.shown = false
	t.Hides++
}

// Shown reports whether the tooltip is visible.
func (t *Tooltip) Shown() bool { return t.shown }

// Point returns the last refreshed point, or nil.
func (t *Tooltip) Point() *Point { return t.point }
