package resolver

import "strings"

// Binding is a single key/value pair exported by a resolution run.
type Binding struct {
	Key   string
	Value string
}

// Environ is a mutable snapshot of a process environment. Gates read and
// write it instead of the real environment so a resolution run is a pure
// function of its inputs; only the changed bindings are handed back to the
// calling shell.
type Environ struct {
	values  map[string]string
	changed []string
	written map[string]bool
}

// NewEnviron builds an Environ from "KEY=VALUE" pairs as returned by
// os.Environ().
func NewEnviron(pairs []string) *Environ {
	e := &Environ{
		values:  make(map[string]string, len(pairs)),
		written: make(map[string]bool),
	}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			continue
		}
		e.values[key] = value
	}
	return e
}

// Get returns the value for key and whether it is set.
func (e *Environ) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Set records a new value for key and tracks it as changed.
func (e *Environ) Set(key, value string) {
	e.values[key] = value
	if !e.written[key] {
		e.written[key] = true
		e.changed = append(e.changed, key)
	}
}

// Changed returns the bindings written during resolution, in first-write
// order. A key written twice appears once, with its final value.
func (e *Environ) Changed() []Binding {
	bindings := make([]Binding, 0, len(e.changed))
	for _, key := range e.changed {
		bindings = append(bindings, Binding{Key: key, Value: e.values[key]})
	}
	return bindings
}
