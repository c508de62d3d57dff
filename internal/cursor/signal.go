package cursor

import "fmt"

// Signal type identifiers
const (
	TypePosition = "position"
)

// Signal is a cursor emission. Position is the only shape shipped; new
// shapes implement this interface and are routed identically.
type Signal interface {
	// Type returns the signal shape, e.g. "position".
	Type() string

	// StateName returns the state component of the signal's Key.
	StateName() string
}

// Position addresses a cell or cell range in table-logical coordinates.
// A nil Row means the signal carries no row; an empty Column means it
// carries no column.
type Position struct {
	Row    *int
	Column string
	State  string
}

// NewPosition creates a Position addressing row/column under state.
func NewPosition(state string, row int, column string) Position {
	return Position{Row: &row, Column: column, State: state}
}

// StatePosition creates a Position that carries only a state name.
func StatePosition(state string) Position {
	return Position{State: state}
}

func (p Position) Type() string      { return TypePosition }
func (p Position) StateName() string { return p.State }

// HasRow reports whether the position carries a row.
func (p Position) HasRow() bool { return p.Row != nil }

// RowOr returns the row, or def when none is set.
func (p Position) RowOr(def int) int {
	if p.Row == nil {
		return def
	}
	return *p.Row
}

// String renders the position for logs and traces.
func (p Position) String() string {
	row := "-"
	if p.Row != nil {
		row = fmt.Sprint(*p.Row)
	}
	col := p.Column
	if col == "" {
		col = "-"
	}
	return fmt.Sprintf("%s[row=%s col=%s]", p.State, row, col)
}

// SourceEvent is the native event an emission originated from. The
// registry passes it through untouched; listeners use Target for identity
// comparison only, so Target should be a pointer or other comparable value.
type SourceEvent struct {
	// Target is the native object that raised the event (an axis, a chart,
	// a series).
	Target any

	// Reset marks selection-reset events.
	Reset bool
}

// TargetIs reports whether the event originated from target.
// A nil event matches nothing.
func (e *SourceEvent) TargetIs(target any) bool {
	if e == nil || e.Target == nil {
		return false
	}
	return e.Target == target
}

// Event is what a listener receives.
type Event struct {
	Signal Signal
	Table  Table
	Source *SourceEvent
}

// Key identifies one logical channel.
type Key struct {
	TableID string
	State   string
}

// String renders the key as "table/state".
func (k Key) String() string {
	return k.TableID + "/" + k.State
}
