package replay

import (
	"context"
	"strings"
	"testing"

	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/errors"
)

func loadDashboard(t *testing.T) *Scenario {
	t.Helper()
	s, err := LoadFile("testdata/dashboard.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return s
}

func TestLoadFile(t *testing.T) {
	s := loadDashboard(t)

	if s.Name != "sales dashboard" {
		t.Errorf("Name = %q", s.Name)
	}
	if len(s.Tables) != 1 || len(s.Charts) != 3 || len(s.Steps) != 10 {
		t.Fatalf("tables=%d charts=%d steps=%d, want 1 3 10", len(s.Tables), len(s.Charts), len(s.Steps))
	}
	if r := s.Tables[0].Range; r == nil || r.Start != 2 || r.End != 8 {
		t.Errorf("range = %+v, want 2..8", r)
	}
	summary := s.Charts[2]
	if opt, ok := summary.Sync[builtin.Highlight]; !ok || opt.Enabled {
		t.Errorf("summary highlight option = %+v, %v", opt, ok)
	}
	if row := s.Steps[5].Row; row == nil || *row != 5 {
		t.Errorf("emit step row = %v, want 5", row)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("testdata/does-not-exist.yaml"); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantInvalid bool
		wantMsg     string
	}{
		{
			name:        "empty document",
			yaml:        "",
			wantInvalid: true,
			wantMsg:     "empty scenario",
		},
		{
			name:    "unknown field",
			yaml:    "name: x\ncolour: red\n",
			wantMsg: "colour",
		},
		{
			name:        "chart on unknown table",
			yaml:        "charts:\n  - {id: a, table: nope}\n",
			wantInvalid: true,
			wantMsg:     `unknown table "nope"`,
		},
		{
			name:        "duplicate chart",
			yaml:        "charts:\n  - {id: a}\n  - {id: a}\n",
			wantInvalid: true,
			wantMsg:     "duplicate id",
		},
		{
			name:        "unknown column",
			yaml:        "tables:\n  - {id: t, columns: {v: [1]}}\ncharts:\n  - id: a\n    table: t\n    series: [{name: s, column: w}]\n",
			wantInvalid: true,
			wantMsg:     `unknown column "w"`,
		},
		{
			name:        "step on unknown chart",
			yaml:        "steps:\n  - {action: render, chart: ghost}\n",
			wantInvalid: true,
			wantMsg:     `unknown chart "ghost"`,
		},
		{
			name:        "unknown action",
			yaml:        "steps:\n  - {action: dance}\n",
			wantInvalid: true,
			wantMsg:     `unknown action "dance"`,
		},
		{
			name:        "zoom without axis",
			yaml:        "charts:\n  - {id: a}\nsteps:\n  - {action: zoom, chart: a}\n",
			wantInvalid: true,
			wantMsg:     "axis must be x or y",
		},
		{
			name:        "emit without state",
			yaml:        "tables:\n  - {id: t}\nsteps:\n  - {action: emit, table: t}\n",
			wantInvalid: true,
			wantMsg:     "emit needs a state",
		},
		{
			name:        "bad range",
			yaml:        "tables:\n  - id: t\n    range: {start: 5, end: 2}\n",
			wantInvalid: true,
			wantMsg:     "invalid range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if got := errors.Is(err, errors.ErrInvalidInput); got != tt.wantInvalid {
				t.Errorf("errors.Is(err, ErrInvalidInput) = %v, want %v (err: %v)", got, tt.wantInvalid, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRun_Dashboard(t *testing.T) {
	s := loadDashboard(t)
	r, err := NewRunner(nil)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	res, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Leak != nil {
		t.Errorf("Leak = %v", res.Leak)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if len(res.Charts) != 3 {
		t.Fatalf("chart states = %d, want 3", len(res.Charts))
	}

	byID := make(map[string]ChartState)
	for _, cs := range res.Charts {
		byID[cs.ID] = cs
	}

	for _, id := range []string{"revenue", "margin"} {
		cs := byID[id]
		if cs.Tooltip != "cost[3]" {
			t.Errorf("%s tooltip = %q, want cost[3]", id, cs.Tooltip)
		}
		if len(cs.Active) != 3 {
			t.Errorf("%s active = %v, want all three", id, cs.Active)
		}
	}
	for id, cs := range byID {
		if cs.XRange != "auto" || cs.ResetZoom {
			t.Errorf("%s x=%s resetZoom=%v after reset, want auto false", id, cs.XRange, cs.ResetZoom)
		}
		if len(cs.Hidden) != 1 || cs.Hidden[0] != "cost" {
			t.Errorf("%s hidden = %v, want [cost]", id, cs.Hidden)
		}
	}
	if cs := byID["summary"]; len(cs.Active) != 0 || cs.Tooltip != "none" {
		t.Errorf("summary active=%v tooltip=%q, want none none", cs.Active, cs.Tooltip)
	}

	var over *Entry
	for i := range res.Entries {
		if res.Entries[i].State == builtin.StatePointMouseOver {
			over = &res.Entries[i]
			break
		}
	}
	if over == nil {
		t.Fatal("no point.mouseOver in trace")
	}
	if over.Signal != "point.mouseOver[row=3 col=revenue]" {
		t.Errorf("mouseOver signal = %q, want offset row 3", over.Signal)
	}
	if over.Source != "revenue" || over.Step != 3 || over.Action != ActionHover {
		t.Errorf("mouseOver entry = %+v", *over)
	}
}

func TestRun_Filter(t *testing.T) {
	s := loadDashboard(t)
	r, err := NewRunner(nil, WithFilter("point.*"))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	res, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2: %+v", len(res.Entries), res.Entries)
	}
	for _, e := range res.Entries {
		if !strings.HasPrefix(e.State, "point.") {
			t.Errorf("entry state %q passed filter", e.State)
		}
	}
	if res.Filtered == 0 {
		t.Error("Filtered = 0, want extremes and grid emissions counted")
	}
}

func TestNewRunner_BadFilter(t *testing.T) {
	if _, err := NewRunner(nil, WithFilter("point.[")); err == nil {
		t.Error("NewRunner() should reject an invalid glob")
	}
}

func TestRun_RangeStepChangesOffset(t *testing.T) {
	s, err := Parse([]byte(`
tables:
  - id: t
    columns:
      v: [1, 2, 3, 4, 5, 6, 7, 8]
charts:
  - id: a
    table: t
    series: [{name: v, values: [1, 2, 3, 4]}]
  - id: b
    table: t
    series: [{name: v, values: [1, 2, 3, 4]}]
steps:
  - {action: render, chart: a}
  - {action: hover, chart: a, series: v, index: 1}
  - {action: range, table: t, range: {start: 3}}
  - {action: hover, chart: a, series: v, index: 1}
  - {action: range, table: t}
  - {action: hover, chart: a, series: v, index: 2}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r, err := NewRunner(nil, WithFilter("point.mouseOver"))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	res, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"point.mouseOver[row=1 col=v]",
		"point.mouseOver[row=4 col=v]",
		"point.mouseOver[row=2 col=v]",
	}
	if len(res.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(res.Entries), len(want))
	}
	for i, w := range want {
		if res.Entries[i].Signal != w {
			t.Errorf("entry %d = %q, want %q", i, res.Entries[i].Signal, w)
		}
	}
}

func TestRun_MissingPoint(t *testing.T) {
	s, err := Parse([]byte(`
charts:
  - id: a
    series: [{name: v, values: [1]}]
steps:
  - {action: hover, chart: a, series: v, index: 4}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r, _ := NewRunner(nil)
	_, err = r.Run(context.Background(), s)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Run() error = %v, want ErrNotFound", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	s := loadDashboard(t)
	r, _ := NewRunner(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, s)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res == nil || len(res.Entries) != 0 {
		t.Errorf("partial result = %+v, want no entries", res)
	}
}

func TestRun_UniqueRunIDs(t *testing.T) {
	s := loadDashboard(t)
	r, _ := NewRunner(nil)
	a, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	b, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.RunID == b.RunID {
		t.Errorf("run IDs collide: %s", a.RunID)
	}
}
