// Package syncer starts and stops named cross-component synchronizations.
//
// A [Definition] pairs an emitter, which translates a component's native
// events into cursor emissions, with a handler, which subscribes to cursor
// states and mutates the component in response. Both run once when a sync
// starts and may return a [Teardown] that undoes everything they attached.
//
// The [Controller] owns those teardowns. It keeps exactly one
// [TeardownHandle] per (component, sync name), runs it once on stop, and
// treats repeated stops and unknown names as no-ops. Components must call
// [Controller.StopAll] on their destruction path; anything left behind is
// reported by [Controller.CheckLeaks].
package syncer
