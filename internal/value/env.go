package value

import (
	"maps"
	"slices"
)

// Env is an immutable chain of runtime bindings, the runtime twin of
// types.Scope.
type Env struct {
	parent *Env
	name   string
	val    Value
}

// NewEnv builds an environment from a set of bindings.
func NewEnv(vals map[string]Value) *Env {
	var e *Env
	for _, name := range slices.Sorted(maps.Keys(vals)) {
		e = e.With(name, vals[name])
	}
	return e
}

// With returns e extended by one binding. A nil receiver is the empty
// environment.
func (e *Env) With(name string, v Value) *Env {
	return &Env{parent: e, name: name, val: v}
}

func (e *Env) Lookup(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.val, true
		}
	}
	return nil, false
}
