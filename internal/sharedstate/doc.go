// Package sharedstate broadcasts group-scoped state between components
// that share one data table.
//
// Unlike cursor signals, shared state is not positional: it is a record of
// named values (for example which columns are visible) kept per group.
// Writes are shallow-merged into the record and delivered to every member
// of the group except the sender, so a component never receives its own
// write back.
//
// # Basic Usage
//
//	hub := sharedstate.NewHub(logger)
//
//	hub.Join("g1", "chart-b", func(c sharedstate.Change) {
//	    vis := c.State.ColumnVisibility()
//	    ...
//	})
//
//	hub.SetColumnVisibility("g1", map[string]bool{"s1": false}, sharedstate.Meta{Sender: "chart-a"})
package sharedstate
