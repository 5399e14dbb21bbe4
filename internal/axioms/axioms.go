// Package axioms is the environment every program starts in: the Peano
// axioms with their types and realizers.
package axioms

import (
	"context"
	"sync"

	"github.com/mjgrzymek/PeanoScript/internal/resolve"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// Axiom is a built-in proof.
type Axiom struct {
	Name      string
	Signature string
	Realizer  value.Value
	// Alias marks names kept for compatibility; they are not listed.
	Alias bool
}

func eqWitness(arity int) value.Value {
	return value.Curry(arity, func(context.Context, []value.Value) (value.Value, error) {
		return value.EqWitness, nil
	})
}

// returns the argument at index i once all arguments are supplied
func projection(arity, i int) value.Value {
	return value.Curry(arity, func(_ context.Context, args []value.Value) (value.Value, error) {
		return args[i], nil
	})
}

var all = []Axiom{
	{Name: "eqRefl", Signature: "(x: N) => x == x", Realizer: eqWitness(1)},
	{Name: "eqSym", Signature: "(x: N) => (y: N) => (eqXY : x == y) => y == x", Realizer: projection(3, 2)},
	{Name: "eqSymm", Signature: "(x: N) => (y: N) => (eqXY : x == y) => y == x", Realizer: projection(3, 2), Alias: true},
	{Name: "eqTrans", Signature: "(x: N) => (y: N) => (z: N) => (eqXY : x == y) => (eqYZ : y == z) => x == z", Realizer: projection(5, 3)},
	{Name: "succInj", Signature: "(x: N) => (y: N) => (eqSuccXY : succ(x) == succ(y)) => x == y", Realizer: projection(3, 2)},
	{Name: "succNotZero", Signature: "(x: N) => (p: succ(x) == 0) => never", Realizer: value.Curry(2,
		func(context.Context, []value.Value) (value.Value, error) {
			return nil, value.Errorf("runtimeError: succNotZero called")
		})},
	{Name: "addZero", Signature: "(x: N) => x + 0 == x", Realizer: eqWitness(1)},
	{Name: "addSucc", Signature: "(x: N) => (y: N) => x + succ(y) == succ(x + y)", Realizer: eqWitness(2)},
	{Name: "mulZero", Signature: "(x: N) => x * 0 == 0", Realizer: eqWitness(1)},
	{Name: "mulSucc", Signature: "(x: N) => (y: N) => x * succ(y) == x * y + x", Realizer: eqWitness(2)},
}

// All returns the axioms in declaration order, aliases included.
func All() []Axiom { return all }

// Names lists the documented axioms in declaration order.
func Names() []string {
	out := make([]string, 0, len(all))
	for _, a := range all {
		if !a.Alias {
			out = append(out, a.Name)
		}
	}
	return out
}

var (
	typesOnce = sync.OnceValue(func() map[string]types.Type {
		out := make(map[string]types.Type, len(all))
		for _, a := range all {
			out[a.Name] = resolve.MustFromString(a.Signature)
		}
		return out
	})
	scopeOnce = sync.OnceValue(func() *types.Scope {
		entries := map[string]types.Entry{
			"any": {Kind: types.KindTypedef, Type: types.Any{}},
		}
		for name, t := range typesOnce() {
			entries[name] = types.Entry{Kind: types.KindProof, Type: t}
		}
		return types.NewScope(entries)
	})
	envOnce = sync.OnceValue(func() *value.Env {
		vals := make(map[string]value.Value, len(all))
		for _, a := range all {
			vals[a.Name] = a.Realizer
		}
		return value.NewEnv(vals)
	})
)

// Type returns the resolved type of an axiom.
func Type(name string) (types.Type, bool) {
	t, ok := typesOnce()[name]
	return t, ok
}

// Scope is the initial type context: every axiom plus the `any` typedef.
func Scope() *types.Scope { return scopeOnce() }

// Env is the initial runtime environment holding the realizers.
func Env() *value.Env { return envOnce() }
