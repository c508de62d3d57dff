// Package datatable provides an in-memory shared table and a range
// modifier satisfying the cursor package's table contract. Real
// deployments bind their own data layer; this implementation backs tests
// and scenario replay.
package datatable

import (
	"sync"

	"github.com/Iron-Ham/boardsync/internal/cursor"
)

// Table is a column-oriented in-memory table with a stable ID.
// It is safe for concurrent use.
type Table struct {
	id string

	mu       sync.RWMutex
	columns  map[string][]any
	order    []string
	modifier cursor.Modifier
}

// New creates an empty table.
func New(id string) *Table {
	return &Table{
		id:      id,
		columns: make(map[string][]any),
	}
}

// ID returns the table's stable identity.
func (t *Table) ID() string { return t.id }

// Modifier returns the active modifier, or nil.
func (t *Table) Modifier() cursor.Modifier {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modifier
}

// SetModifier replaces the active modifier. Pass nil to clear it.
func (t *Table) SetModifier(m cursor.Modifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modifier = m
}

// SetColumn stores values under name, replacing any previous column.
func (t *Table) SetColumn(name string, values []any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.columns[name]; !exists {
		t.order = append(t.order, name)
	}
	t.columns[name] = append([]any(nil), values...)
}

// ColumnNames returns column names in insertion order.
func (t *Table) ColumnNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.order...)
}

// RowCount returns the length of the longest column.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, col := range t.columns {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// Cell returns the value at (column, row) and whether it exists.
func (t *Table) Cell(column string, row int) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	col, ok := t.columns[column]
	if !ok || row < 0 || row >= len(col) {
		return nil, false
	}
	return col[row], true
}

// RangeModifier exposes a window of rows starting at Start.
type RangeModifier struct {
	Start int
	End   int // exclusive; 0 means open-ended
}

// Kind implements cursor.Modifier.
func (m *RangeModifier) Kind() string { return "range" }

// ModifiedTableOffset implements cursor.OffsetModifier.
func (m *RangeModifier) ModifiedTableOffset(cursor.Table) int {
	if m == nil || m.Start < 0 {
		return 0
	}
	return m.Start
}

// Contains reports whether logical row is inside the window.
func (m *RangeModifier) Contains(row int) bool {
	if row < m.Start {
		return false
	}
	return m.End == 0 || row < m.End
}
