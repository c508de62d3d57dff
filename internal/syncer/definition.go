package syncer

import "slices"

// Component is anything a synchronization can be started on.
// Concrete bindings extend it with the capabilities their emitters and
// handlers need.
type Component interface {
	// ID returns the component's stable identity.
	ID() string
}

// Teardown undoes everything an emitter or handler attached.
type Teardown func()

// EmitterFunc attaches to a component's native events. It returns nil when
// it attached nothing, for example because the component has no table.
//
// An EmitterFunc must not panic once it has attached anything: the
// controller recovers the panic but has no teardown for what was attached,
// and CheckLeaks cannot see it.
type EmitterFunc func(c Component) Teardown

// HandlerFunc subscribes a component to cursor states. It returns nil when
// it attached nothing. The no-panic rule of EmitterFunc applies.
type HandlerFunc func(c Component) Teardown

// Definition is one named cross-component behavior.
type Definition struct {
	Name    string
	Emitter EmitterFunc
	Handler HandlerFunc
}

// Definitions is the table of known synchronizations keyed by name.
type Definitions map[string]Definition

// NewDefinitions builds a table from defs. Later entries replace earlier
// ones with the same name.
func NewDefinitions(defs ...Definition) Definitions {
	table := make(Definitions, len(defs))
	for _, d := range defs {
		table[d.Name] = d
	}
	return table
}

// Names returns the defined names in sorted order.
func (d Definitions) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// With returns a copy of d with defs added or replaced.
func (d Definitions) With(defs ...Definition) Definitions {
	out := make(Definitions, len(d)+len(defs))
	for name, def := range d {
		out[name] = def
	}
	for _, def := range defs {
		out[def.Name] = def
	}
	return out
}

// Option is the per-sync configuration a component owner supplies.
type Option struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Options maps sync names to their configuration.
type Options map[string]Option

// Resolve merges opts against defs and returns the enabled names, sorted.
// Names without a definition are ignored so that configurations written
// for newer definitions keep working.
func Resolve(defs Definitions, opts Options) []string {
	var names []string
	for name, opt := range opts {
		if !opt.Enabled {
			continue
		}
		if _, ok := defs[name]; !ok {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Unknown returns the names in opts that have no definition, sorted.
func Unknown(defs Definitions, opts Options) []string {
	var names []string
	for name := range opts {
		if _, ok := defs[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
