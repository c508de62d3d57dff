// Package cursor provides the addressable pub/sub bus that lets visual
// components bound to the same table exchange positional state without
// holding references to one another.
//
// A channel is identified by a [Key]: the table's stable ID plus a
// dot-namespaced state name such as "point.mouseOver" or
// "xAxis.extremes.min". Listeners registered on a key are invoked
// synchronously, in registration order, every time a [Signal] is emitted
// for that key.
//
// # Lasting Signals
//
// An emission marked lasting is also retained, up to a bounded number per
// key, so that late joiners can ask what the current state is. Retained
// signals are retracted with [Registry.RemitCursor], which removes the most
// recent record and notifies nobody.
//
// # Self-Echo
//
// The registry never inspects [SourceEvent]. Listeners that must ignore
// their own emissions compare SourceEvent.Target against their own
// identity and return early.
//
// # Basic Usage
//
//	reg := cursor.NewRegistry(cursor.WithLogger(logger))
//
//	id := reg.AddListener("t1", "point.mouseOver", func(e cursor.Event) {
//	    pos := e.Signal.(cursor.Position)
//	    fmt.Println(pos.Column, *pos.Row)
//	})
//
//	reg.EmitCursor(table, cursor.NewPosition("point.mouseOver", 3, "series1"), nil, false)
//	reg.RemoveListener("t1", "point.mouseOver", id)
package cursor
