// Package internal contains integration tests that drive the board, the
// built-in syncs and the reference chart binding together.
package internal

import (
	"context"
	"testing"

	"github.com/Iron-Ham/boardsync/internal/board"
	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/config"
	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/datatable"
	"github.com/Iron-Ham/boardsync/internal/memchart"
	"github.com/Iron-Ham/boardsync/internal/replay"
	"github.com/Iron-Ham/boardsync/internal/syncer"
)

func newDashboardChart(id string, table *datatable.Table) *memchart.Chart {
	return memchart.New(memchart.Config{
		ID:      id,
		GroupID: "dashboard",
		Table:   table,
		Series: []memchart.SeriesConfig{
			{ID: "revenue", Name: "revenue", Values: []float64{10, 12, 9, 15, 14, 18}},
			{ID: "cost", Name: "cost", Values: []float64{7, 8, 8, 9, 10, 11}},
		},
	})
}

// TestBoardIntegration mounts three charts on one board and checks that
// every interaction converges across all of them and that Close leaves
// nothing registered.
func TestBoardIntegration(t *testing.T) {
	b := board.New(config.Default(), nil)
	table := datatable.New("sales")

	charts := []*memchart.Chart{
		newDashboardChart("A", table),
		newDashboardChart("B", table),
		newDashboardChart("C", table),
	}
	for _, ch := range charts {
		active, err := b.Mount(ch, nil)
		if err != nil {
			t.Fatalf("Mount(%s) error = %v", ch.ID(), err)
		}
		if len(active) != len(builtin.Names()) {
			t.Fatalf("Mount(%s) active = %v, want all built-ins", ch.ID(), active)
		}
		ch.Render()
	}
	a, bc, c := charts[0], charts[1], charts[2]

	t.Run("hover", func(t *testing.T) {
		a.Hover("cost", 2)
		for _, ch := range []*memchart.Chart{bc, c} {
			p := ch.ChartTooltip().Point()
			if p == nil || p.SeriesName() != "cost" || p.Index() != 2 {
				t.Errorf("%s tooltip not on cost[2]", ch.ID())
			}
		}
		if a.ChartTooltip().Refreshes != 0 {
			t.Error("hovered chart refreshed its own tooltip")
		}

		a.Leave("cost", 2)
		for _, ch := range []*memchart.Chart{bc, c} {
			if ch.ChartTooltip().Shown() {
				t.Errorf("%s tooltip still shown after leave", ch.ID())
			}
		}
	})

	t.Run("zoom", func(t *testing.T) {
		a.Zoom(builtin.CollX, 1, 4)
		for _, ch := range charts {
			min, max := ch.Axis(builtin.CollX).Extremes()
			if min == nil || max == nil || *min != 1 || *max != 4 {
				t.Errorf("%s x extremes = %v %v, want 1 4", ch.ID(), min, max)
			}
			if ch.Axis(builtin.CollX).SetCalls != 1 {
				t.Errorf("%s SetExtremes calls = %d, want 1", ch.ID(), ch.Axis(builtin.CollX).SetCalls)
			}
			if !ch.ResetZoomShown() {
				t.Errorf("%s reset zoom not shown", ch.ID())
			}
		}

		bc.ZoomOut()
		for _, ch := range charts {
			if min, max := ch.Axis(builtin.CollX).Extremes(); min != nil || max != nil {
				t.Errorf("%s still zoomed after reset", ch.ID())
			}
			if ch.ZoomOuts != 1 {
				t.Errorf("%s zoom outs = %d, want 1", ch.ID(), ch.ZoomOuts)
			}
		}
	})

	t.Run("visibility", func(t *testing.T) {
		c.Toggle("revenue")
		for _, ch := range charts {
			if ch.SeriesByName("revenue").Visible() {
				t.Errorf("%s revenue still visible", ch.ID())
			}
			if !ch.SeriesByName("cost").Visible() {
				t.Errorf("%s cost hidden", ch.ID())
			}
		}

		// Hidden series no longer receive highlight.
		before := bc.ChartTooltip().Refreshes
		a.Hover("revenue", 1)
		if bc.ChartTooltip().Refreshes != before {
			t.Error("tooltip moved to a hidden series")
		}
	})

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n := b.Registry().TotalListeners(); n != 0 {
		t.Errorf("listeners after Close = %d, want 0", n)
	}
	if members := b.Hub().Members("dashboard"); len(members) != 0 {
		t.Errorf("group members after Close = %v", members)
	}
	for _, ch := range charts {
		if n := ch.NativeListeners(); n != 0 {
			t.Errorf("%s native listeners after Close = %d, want 0", ch.ID(), n)
		}
	}
}

// TestBoardIntegration_PartialSyncs checks that charts running different
// sync sets only exchange what both sides subscribe to.
func TestBoardIntegration_PartialSyncs(t *testing.T) {
	b := board.New(config.Default(), nil)
	table := datatable.New("sales")
	table.SetModifier(&datatable.RangeModifier{Start: 2, End: 5})

	a := newDashboardChart("A", table)
	other := newDashboardChart("B", table)

	if _, err := b.Mount(a, nil); err != nil {
		t.Fatal(err)
	}
	active, err := b.Mount(other, syncer.Options{
		builtin.Extremes:   {Enabled: false},
		builtin.Visibility: {Enabled: false},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0] != builtin.Highlight {
		t.Fatalf("B active = %v, want [highlight]", active)
	}
	a.Render()
	other.Render()

	overs := 0
	b.Registry().Observe(func(e cursor.Event) {
		if e.Signal.StateName() == builtin.StatePointMouseOver {
			overs++
		}
	})

	// A emits table row 1+2; B maps it back through the same offset.
	a.Hover("cost", 1)
	if overs != 1 {
		t.Fatalf("mouseOver emissions = %d, want 1", overs)
	}
	if p := other.ChartTooltip().Point(); p == nil || p.Index() != 1 {
		t.Errorf("B tooltip not on point 1")
	}

	a.Zoom(builtin.CollX, 0, 2)
	if min, _ := other.Axis(builtin.CollX).Extremes(); min != nil {
		t.Error("extremes reached a chart without the extremes sync")
	}
	a.Toggle("cost")
	if !other.SeriesByName("cost").Visible() {
		t.Error("visibility reached a chart without the visibility sync")
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

// TestReplayIntegration plays the bundled dashboard scenario end to end.
func TestReplayIntegration(t *testing.T) {
	s, err := replay.LoadFile("replay/testdata/dashboard.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	runner, err := replay.NewRunner(config.Default())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	res, err := runner.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Leak != nil {
		t.Errorf("Leak = %v", res.Leak)
	}
	if len(res.Entries) == 0 {
		t.Error("no emissions traced")
	}
	if len(res.Charts) != len(s.Charts) {
		t.Errorf("chart states = %d, want %d", len(res.Charts), len(s.Charts))
	}
}
