package replay

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/Iron-Ham/boardsync/internal/board"
	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/config"
	"github.com/Iron-Ham/boardsync/internal/cursor"
	"github.com/Iron-Ham/boardsync/internal/datatable"
	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/logging"
	"github.com/Iron-Ham/boardsync/internal/memchart"
	"github.com/Iron-Ham/boardsync/internal/syncer"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// DefaultSource is the source target of emit steps that name none.
const DefaultSource = "replay"

// Entry is one traced cursor emission.
type Entry struct {
	Seq    int    // emission number, counting filtered ones
	Step   int    // index of the step that caused it
	Action string // action of that step
	Table  string
	State  string
	Signal string
	Source string
}

// ChartState summarizes a chart after the last step.
type ChartState struct {
	ID        string
	Active    []string
	Tooltip   string
	XRange    string
	YRange    string
	Hidden    []string
	ResetZoom bool
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Scenario string
	Entries  []Entry
	Filtered int
	Charts   []ChartState
	// Leak is the teardown leak reported when the board closed, if any.
	Leak error
}

// Option configures a Runner.
type Option func(*Runner)

// WithFilter keeps only emissions whose state matches the glob pattern.
func WithFilter(pattern string) Option {
	return func(r *Runner) { r.pattern = pattern }
}

// WithLogger sets the logger handed to the board.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// Runner plays scenarios.
type Runner struct {
	cfg     *config.Config
	logger  *logging.Logger
	pattern string
	filter  glob.Glob
}

// NewRunner creates a runner. A nil cfg uses config.Default().
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)

	if r.pattern != "" && r.pattern != "*" {
		g, err := glob.Compile(r.pattern)
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", r.pattern, err)
		}
		r.filter = g
	}
	return r, nil
}

// run holds the state of one scenario execution.
type run struct {
	board  *board.Board
	tables map[string]*datatable.Table
	charts map[string]*memchart.Chart
	order  []string
	log    *logging.Logger
}

// Run plays s on a fresh board. The context is checked between steps; a
// cancelled run returns the partial result alongside the context error.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	runID := uuid.NewString()
	log := r.logger.With("run", runID, "scenario", s.Name)

	st := &run{
		board:  board.New(r.cfg, log),
		tables: make(map[string]*datatable.Table),
		charts: make(map[string]*memchart.Chart),
		log:    log,
	}
	res := &Result{RunID: runID, Scenario: s.Name}
	closed := false
	defer func() {
		if !closed {
			_ = st.board.Close()
		}
	}()

	for _, ts := range s.Tables {
		st.tables[ts.ID] = buildTable(ts)
	}
	for _, cs := range s.Charts {
		st.charts[cs.ID] = st.buildChart(cs)
		st.order = append(st.order, cs.ID)
	}

	seq, stepIdx, action := 0, -1, ""
	reg := st.board.Registry()
	obs := reg.Observe(func(e cursor.Event) {
		seq++
		state := e.Signal.StateName()
		if r.filter != nil && !r.filter.Match(state) {
			res.Filtered++
			return
		}
		res.Entries = append(res.Entries, Entry{
			Seq:    seq,
			Step:   stepIdx,
			Action: action,
			Table:  e.Table.ID(),
			State:  state,
			Signal: describeSignal(e.Signal),
			Source: describeSource(e.Source),
		})
	})
	defer reg.Unobserve(obs)

	for _, cs := range s.Charts {
		if _, err := st.board.Mount(st.charts[cs.ID], cs.Sync); err != nil {
			return res, fmt.Errorf("mount %s: %w", cs.ID, err)
		}
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		stepIdx, action = i, step.Action
		if err := st.apply(step); err != nil {
			return res, fmt.Errorf("steps[%d] %s: %w", i, step.Action, err)
		}
	}

	for _, id := range st.order {
		res.Charts = append(res.Charts, st.chartState(id))
	}
	res.Leak = st.board.Close()
	closed = true

	log.Info("scenario replayed",
		"steps", len(s.Steps),
		"emissions", seq,
		"traced", len(res.Entries))
	return res, nil
}

func buildTable(ts TableSpec) *datatable.Table {
	t := datatable.New(ts.ID)
	names := make([]string, 0, len(ts.Columns))
	for name := range ts.Columns {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t.SetColumn(name, ts.Columns[name])
	}
	if ts.Range != nil {
		t.SetModifier(&datatable.RangeModifier{Start: ts.Range.Start, End: ts.Range.End})
	}
	return t
}

func (st *run) buildChart(cs ChartSpec) *memchart.Chart {
	cfg := memchart.Config{
		ID:        cs.ID,
		GroupID:   cs.Group,
		XDateTime: cs.DateTime,
		NoTooltip: cs.NoTooltip,
	}
	table, hasTable := st.tables[cs.Table]
	if hasTable {
		cfg.Table = table
	}
	for _, sr := range cs.Series {
		values := sr.Values
		if sr.Column != "" && hasTable {
			values = columnValues(table, sr.Column)
		}
		cfg.Series = append(cfg.Series, memchart.SeriesConfig{
			ID:     sr.ID,
			Name:   sr.Name,
			Values: values,
			Hidden: sr.Hidden,
		})
	}
	return memchart.New(cfg)
}

// columnValues returns the numeric values of column inside the table's row
// window. Non-numeric cells become NaN so indices stay aligned with rows.
func columnValues(t *datatable.Table, column string) []float64 {
	start, end := 0, t.RowCount()
	if m, ok := t.Modifier().(*datatable.RangeModifier); ok && m != nil {
		start = max(min(m.Start, end), 0)
		if m.End != 0 && m.End < end {
			end = max(m.End, start)
		}
	}
	var out []float64
	for row := start; row < end; row++ {
		v, _ := t.Cell(column, row)
		out = append(out, toFloat(v))
	}
	return out
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func (st *run) apply(step Step) error {
	ch := st.charts[step.Chart]

	switch step.Action {
	case ActionRender:
		ch.Render()
	case ActionRedraw:
		ch.Redraw()
	case ActionHover:
		if !ch.Hover(step.Series, step.Index) {
			return fmt.Errorf("no point %s[%d] on %s: %w", step.Series, step.Index, step.Chart, errors.ErrNotFound)
		}
	case ActionLeave:
		if !ch.Leave(step.Series, step.Index) {
			return fmt.Errorf("no point %s[%d] on %s: %w", step.Series, step.Index, step.Chart, errors.ErrNotFound)
		}
	case ActionZoom:
		ch.Zoom(axisColl(step.Axis), step.Min, step.Max)
	case ActionReset:
		ch.ZoomOut()
	case ActionToggle:
		if !ch.Toggle(step.Series) {
			return fmt.Errorf("no series %s on %s: %w", step.Series, step.Chart, errors.ErrNotFound)
		}
	case ActionEmit:
		source := step.Source
		if source == "" {
			source = DefaultSource
		}
		pos := cursor.Position{State: step.State, Row: step.Row, Column: step.Column}
		st.board.Registry().EmitCursor(st.tables[step.Table], pos, &cursor.SourceEvent{Target: source}, false)
	case ActionRange:
		t := st.tables[step.Table]
		if step.Range == nil {
			t.SetModifier(nil)
		} else {
			t.SetModifier(&datatable.RangeModifier{Start: step.Range.Start, End: step.Range.End})
		}
	case ActionUnmount:
		st.board.Unmount(ch)
	default:
		return fmt.Errorf("unknown action: %w", errors.ErrInvalidInput)
	}

	st.log.Debug("step applied", "action", step.Action, "chart", step.Chart)
	return nil
}

func (st *run) chartState(id string) ChartState {
	ch := st.charts[id]
	cs := ChartState{
		ID:        id,
		Active:    st.board.Controller().Active(id),
		Tooltip:   "none",
		XRange:    describeRange(ch.Axis(builtin.CollX)),
		YRange:    describeRange(ch.Axis(builtin.CollY)),
		ResetZoom: ch.ResetZoomShown(),
	}
	if tt := ch.ChartTooltip(); tt != nil {
		switch p := tt.Point(); {
		case !tt.Shown() && tt.Hides > 0:
			cs.Tooltip = "hidden"
		case p != nil:
			cs.Tooltip = fmt.Sprintf("%s[%d]", p.SeriesName(), p.Index())
		}
	}
	for _, s := range ch.Series() {
		if !s.Visible() {
			cs.Hidden = append(cs.Hidden, s.Name())
		}
	}
	return cs
}

func describeRange(a *memchart.Axis) string {
	lo, hi := a.Extremes()
	if lo == nil || hi == nil {
		return "auto"
	}
	return strconv.FormatFloat(*lo, 'g', -1, 64) + ".." + strconv.FormatFloat(*hi, 'g', -1, 64)
}

func describeSignal(s cursor.Signal) string {
	if p, ok := s.(cursor.Position); ok {
		return p.String()
	}
	return s.Type() + ":" + s.StateName()
}

func describeSource(src *cursor.SourceEvent) string {
	if src == nil {
		return "-"
	}
	var out string
	switch t := src.Target.(type) {
	case *memchart.Axis:
		out = t.ChartID() + "." + t.Coll()
	case syncer.Component:
		out = t.ID()
	case string:
		out = t
	case nil:
		out = "-"
	default:
		out = fmt.Sprintf("%T", t)
	}
	if src.Reset {
		out += " (reset)"
	}
	return out
}
