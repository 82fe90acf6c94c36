package lang

import "sort"

// Env maps identifiers to values. The session environment has no parent; a
// call scope's parent is the environment its function was defined in.
type Env struct {
	parent *Env
	values map[string]Value
}

// NewEnv creates an environment with optional parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name to value in current frame, replacing any earlier binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Lookup retrieves a binding, searching parents if necessary.
func (e *Env) Lookup(name string) (Value, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return Value{}, false
}

// Names returns the names bound in the current frame, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parent returns the parent environment.
func (e *Env) Parent() *Env {
	return e.parent
}
