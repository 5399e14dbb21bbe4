package sema

import (
	"context"
	"sync"

	"github.com/mjgrzymek/PeanoScript/internal/resolve"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// Lemmas whose proofs recurse through succ chains. Their realizers are
// replaced by direct arithmetic.
var hardcoded = sync.OnceValue(func() map[string]types.Type {
	return map[string]types.Type{
		"eq0Check":  resolve.MustFromString("(x: N) => x == 0 || x != 0"),
		"check0rev": resolve.MustFromString("(x: N) => 0 == x || 0 != x"),
		"eqCheck":   resolve.MustFromString("(x : N) => (y : N) => x == y || x != y"),
		"preving":   resolve.MustFromString("(n: N) => (nonZero: n != 0) => {prevN: N; isPrev: succ(prevN) ==  n}"),
	}
})

func natArg(v value.Value) (value.Nat, error) {
	n, ok := v.(value.Nat)
	if !ok {
		return value.Nat{}, value.Errorf("runtime error: expected a number, got %s", value.Format(v, nil))
	}
	return n, nil
}

var refuted = value.Func(func(context.Context, value.Value) (value.Value, error) {
	return value.NeverWitness, nil
})

func hardcodedImpl(t types.Arrow, fallback value.Impl) value.Impl {
	lemmas := hardcoded()
	switch {
	case types.Equal(t, lemmas["eq0Check"]):
		return value.Const(value.Func(func(_ context.Context, v value.Value) (value.Value, error) {
			x, err := natArg(v)
			if err != nil {
				return nil, err
			}
			if x.N.IsZero() {
				return value.Left{X: value.EqWitness}, nil
			}
			return value.Right{X: refuted}, nil
		}))
	case types.Equal(t, lemmas["check0rev"]):
		return value.Const(value.Func(func(_ context.Context, v value.Value) (value.Value, error) {
			x, err := natArg(v)
			if err != nil {
				return nil, err
			}
			if x.N.IsZero() {
				return value.Left{X: x}, nil
			}
			return value.Right{X: x}, nil
		}))
	case types.Equal(t, lemmas["eqCheck"]):
		return value.Const(value.Curry(2, func(_ context.Context, args []value.Value) (value.Value, error) {
			x, err := natArg(args[0])
			if err != nil {
				return nil, err
			}
			y, err := natArg(args[1])
			if err != nil {
				return nil, err
			}
			if x.N.Cmp(y.N) == 0 {
				return value.Left{X: value.EqWitness}, nil
			}
			return value.Right{X: refuted}, nil
		}))
	case types.Equal(t, lemmas["preving"]):
		return value.Const(value.Curry(2, func(_ context.Context, args []value.Value) (value.Value, error) {
			n, err := natArg(args[0])
			if err != nil {
				return nil, err
			}
			prev, err := n.N.Dec()
			if err != nil {
				return nil, value.Errorf("neverElim should never be called")
			}
			return value.Exists{Num: prev, Prop: value.EqWitness}, nil
		}))
	}

	// Any other chain of arrows ending in an equality proves nothing
	// computationally: skip evaluating the body.
	depth := 0
	var cod types.Type = t
	for {
		a, ok := cod.(types.Arrow)
		if !ok {
			break
		}
		depth++
		cod = a.Cod
	}
	if _, ok := cod.(types.Eq); ok {
		return value.Const(value.Curry(depth, func(context.Context, []value.Value) (value.Value, error) {
			return value.EqWitness, nil
		}))
	}
	return fallback
}
