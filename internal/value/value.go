// Package value is the runtime side of checked programs: the values proofs
// evaluate to, the environments continuations run in, and cancellation.
package value

import (
	"context"

	"github.com/mjgrzymek/PeanoScript/internal/bignum"
)

// Value is a runtime value. The set is closed.
type Value interface {
	isValue()
}

type (
	// Nat is a natural number.
	Nat struct{ N bignum.Nat }

	// Witness is an opaque proof token such as "(eq)".
	Witness string

	// Pair proves a conjunction.
	Pair struct{ Left, Right Value }

	// Left and Right prove a disjunction.
	Left  struct{ X Value }
	Right struct{ X Value }

	// Exists is a dependent pair: a number and a proof about it.
	Exists struct {
		Num  bignum.Nat
		Prop Value
	}

	// Func proves an implication or a universal statement.
	Func func(ctx context.Context, arg Value) (Value, error)
)

const (
	EqWitness    Witness = "(eq)"
	NeverWitness Witness = "(never)"
	SorryWitness Witness = "(sorry)"
)

func (Nat) isValue()     {}
func (Witness) isValue() {}
func (Pair) isValue()    {}
func (Left) isValue()    {}
func (Right) isValue()   {}
func (Exists) isValue()  {}
func (Func) isValue()    {}

// NatOf wraps a small number.
func NatOf(n uint64) Nat { return Nat{N: bignum.NatFromUint64(n)} }

// Impl is a compiled term: it computes the term's value in env.
type Impl func(ctx context.Context, env *Env) (Value, error)

// Const returns an Impl that always yields v.
func Const(v Value) Impl {
	return func(context.Context, *Env) (Value, error) { return v, nil }
}

// Fail returns an Impl that always fails with err.
func Fail(err error) Impl {
	return func(context.Context, *Env) (Value, error) { return nil, err }
}

// Curry builds nested single-argument functions. The innermost call
// receives every argument in order.
func Curry(arity int, fn func(ctx context.Context, args []Value) (Value, error)) Value {
	var build func(args []Value) Value
	build = func(args []Value) Value {
		if len(args) == arity {
			panic("value: Curry called with a complete argument list")
		}
		return Func(func(ctx context.Context, arg Value) (Value, error) {
			next := append(append(make([]Value, 0, len(args)+1), args...), arg)
			if len(next) == arity {
				return fn(ctx, next)
			}
			return build(next), nil
		})
	}
	return build(nil)
}
