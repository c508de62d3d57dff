package cursor

// Table is the shared tabular data source components are bound to.
// Only its identity and its current modifier are consumed here.
type Table interface {
	// ID returns the table's stable identity.
	ID() string

	// Modifier returns the transforming view currently applied to the
	// table, or nil when rows are addressed directly.
	Modifier() Modifier
}

// Modifier is a transforming view (filter, range) applied to a table.
type Modifier interface {
	// Kind names the modifier, e.g. "range".
	Kind() string
}

// OffsetModifier is a Modifier that shifts logical row addressing.
type OffsetModifier interface {
	Modifier

	// ModifiedTableOffset returns how many logical rows precede the first
	// row visible through the modifier.
	ModifiedTableOffset(t Table) int
}

// Offset asks the table's current modifier for its row offset.
// A missing modifier, or one without offset support, yields 0.
// The result must not be cached across emissions.
func Offset(t Table) int {
	if t == nil {
		return 0
	}
	m, ok := t.Modifier().(OffsetModifier)
	if !ok || m == nil {
		return 0
	}
	return m.ModifiedTableOffset(t)
}
