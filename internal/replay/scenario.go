// Package replay runs dashboard scenarios through the synchronization
// engine and records what was broadcast.
//
// A scenario is a YAML document describing shared tables, charts bound to
// them and a list of user actions. Running it mounts every chart on a
// fresh board, plays the actions in order and traces each cursor emission.
package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/errors"
	"github.com/Iron-Ham/boardsync/internal/syncer"
	"gopkg.in/yaml.v3"
)

// Step actions
const (
	ActionRender  = "render"
	ActionRedraw  = "redraw"
	ActionHover   = "hover"
	ActionLeave   = "leave"
	ActionZoom    = "zoom"
	ActionReset   = "reset"
	ActionToggle  = "toggle"
	ActionEmit    = "emit"
	ActionRange   = "range"
	ActionUnmount = "unmount"
)

// Actions returns every supported step action.
func Actions() []string {
	return []string{
		ActionRender, ActionRedraw, ActionHover, ActionLeave, ActionZoom,
		ActionReset, ActionToggle, ActionEmit, ActionRange, ActionUnmount,
	}
}

// Scenario is a replayable dashboard session.
type Scenario struct {
	Name   string      `yaml:"name"`
	Tables []TableSpec `yaml:"tables"`
	Charts []ChartSpec `yaml:"charts"`
	Steps  []Step      `yaml:"steps"`
}

// TableSpec declares a shared table.
type TableSpec struct {
	ID      string           `yaml:"id"`
	Columns map[string][]any `yaml:"columns"`
	Range   *RangeSpec       `yaml:"range,omitempty"`
}

// RangeSpec declares a row window over a table. End is exclusive; 0
// leaves the window open-ended.
type RangeSpec struct {
	Start int `yaml:"start"`
	End   int `yaml:"end,omitempty"`
}

// ChartSpec declares a chart.
type ChartSpec struct {
	ID        string         `yaml:"id"`
	Table     string         `yaml:"table,omitempty"`
	Group     string         `yaml:"group,omitempty"`
	DateTime  bool           `yaml:"datetime,omitempty"`
	NoTooltip bool           `yaml:"no_tooltip,omitempty"`
	Series    []SeriesSpec   `yaml:"series"`
	Sync      syncer.Options `yaml:"sync,omitempty"`
}

// SeriesSpec declares a series. Values come from Column of the chart's
// table when set, restricted to the table's row window, else from Values.
type SeriesSpec struct {
	ID     string    `yaml:"id,omitempty"`
	Name   string    `yaml:"name"`
	Column string    `yaml:"column,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
	Hidden bool      `yaml:"hidden,omitempty"`
}

// Step is one user action.
type Step struct {
	Action string `yaml:"action"`
	Chart  string `yaml:"chart,omitempty"`

	// hover, leave, toggle
	Series string `yaml:"series,omitempty"`
	Index  int    `yaml:"index,omitempty"`

	// zoom
	Axis string  `yaml:"axis,omitempty"`
	Min  float64 `yaml:"min,omitempty"`
	Max  float64 `yaml:"max,omitempty"`

	// emit, range
	Table  string     `yaml:"table,omitempty"`
	State  string     `yaml:"state,omitempty"`
	Row    *int       `yaml:"row,omitempty"`
	Column string     `yaml:"column,omitempty"`
	Source string     `yaml:"source,omitempty"`
	Range  *RangeSpec `yaml:"range,omitempty"`
}

// Parse decodes a scenario and validates it. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scenario: %w", errors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every reference in the scenario resolves.
func (s *Scenario) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errors.ErrInvalidInput))
	}

	tables := make(map[string]TableSpec)
	for i, t := range s.Tables {
		if t.ID == "" {
			invalid("tables[%d]: missing id", i)
			continue
		}
		if _, dup := tables[t.ID]; dup {
			invalid("tables[%d]: duplicate id %q", i, t.ID)
		}
		if t.Range != nil && (t.Range.Start < 0 || (t.Range.End != 0 && t.Range.End < t.Range.Start)) {
			invalid("tables[%d]: invalid range %d..%d", i, t.Range.Start, t.Range.End)
		}
		tables[t.ID] = t
	}

	charts := make(map[string]bool)
	for i, c := range s.Charts {
		if c.ID == "" {
			invalid("charts[%d]: missing id", i)
			continue
		}
		if charts[c.ID] {
			invalid("charts[%d]: duplicate id %q", i, c.ID)
		}
		charts[c.ID] = true

		table, hasTable := tables[c.Table]
		if c.Table != "" && !hasTable {
			invalid("charts[%d]: unknown table %q", i, c.Table)
		}
		for j, sr := range c.Series {
			if sr.Name == "" {
				invalid("charts[%d].series[%d]: missing name", i, j)
			}
			if sr.Column == "" {
				continue
			}
			if !hasTable {
				invalid("charts[%d].series[%d]: column %q needs a table", i, j, sr.Column)
			} else if _, ok := table.Columns[sr.Column]; !ok {
				invalid("charts[%d].series[%d]: unknown column %q", i, j, sr.Column)
			}
		}
	}

	for i, st := range s.Steps {
		if !slices.Contains(Actions(), st.Action) {
			invalid("steps[%d]: unknown action %q", i, st.Action)
			continue
		}
		switch st.Action {
		case ActionEmit:
			if _, ok := tables[st.Table]; !ok {
				invalid("steps[%d]: unknown table %q", i, st.Table)
			}
			if st.State == "" {
				invalid("steps[%d]: emit needs a state", i)
			}
		case ActionRange:
			if _, ok := tables[st.Table]; !ok {
				invalid("steps[%d]: unknown table %q", i, st.Table)
			}
		default:
			if !charts[st.Chart] {
				invalid("steps[%d]: unknown chart %q", i, st.Chart)
			}
		}
		if st.Action == ActionZoom && st.Axis != "x" && st.Axis != "y" {
			invalid("steps[%d]: axis must be x or y", i)
		}
	}

	return errors.Join(errs...)
}

// axisColl maps a step's short axis name to its collection.
func axisColl(axis string) string {
	if axis == "y" {
		return builtin.CollY
	}
	return builtin.CollX
}
