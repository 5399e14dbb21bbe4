package sema

import (
	"context"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// genericCall handles the built-ins that take a type argument: name<T>.
func (c *checker) genericCall(n *ast.GenericCall, scope *types.Scope) (typed, error) {
	switch name := n.Name.Name; name {
	case "makeLeft", "makeRight":
		or, ok := n.Arg.(*ast.TBinary)
		if !ok || or.Op != ast.TOr {
			return typed{}, errorf(diag.SemaShapeMismatch, "%s type argument must be ||", name)
		}
		side, wrap := or.Left, func(v value.Value) value.Value { return value.Left{X: v} }
		if name == "makeRight" {
			side, wrap = or.Right, func(v value.Value) value.Value { return value.Right{X: v} }
		}
		t := types.Arrow{Name: "_", Dom: c.resolve(side, scope), Cod: c.resolve(n.Arg, scope)}
		return typed{t: t, impl: value.Const(value.Func(func(_ context.Context, v value.Value) (value.Value, error) {
			return wrap(v), nil
		}))}, nil

	case "neverElim":
		t := types.Arrow{Name: "_", Dom: types.Never{}, Cod: c.resolve(n.Arg, scope)}
		return typed{t: t, impl: value.Fail(value.Errorf("neverElim should never be called"))}, nil

	case "replace":
		return c.replace(n, scope)

	case "excludedMiddle":
		prop := c.resolve(n.Arg, scope)
		t := types.Or{L: prop, R: types.Not(prop)}
		return typed{t: t, impl: value.Fail(value.Errorf("excludedMiddle is not constructively valid"))}, nil

	default:
		return typed{}, errorf(diag.SemaUnknownGeneric, "unknown generic %s", name)
	}
}

// replace<G> is Leibniz equality for a one-parameter generic G:
// (L: N) => (R: N) => L == R => G<L> => G<R>.
func (c *checker) replace(n *ast.GenericCall, scope *types.Scope) (typed, error) {
	id, ok := n.Arg.(*ast.Ident)
	if !ok {
		return typed{}, errorf(diag.SemaBuiltinMisuse, "replace needs a generic type argument")
	}
	entry, ok := scope.Lookup(id.Name)
	switch {
	case !ok:
		return typed{}, errorf(diag.SemaUnknownVariable, "unknown variable %s", id.Name)
	case entry.Kind != types.KindGeneric:
		return typed{}, errorf(diag.SemaBuiltinMisuse, "%s is not a generic typedef", id.Name)
	case len(entry.Params) != 1:
		return typed{}, errorf(diag.SemaBuiltinMisuse, "%s must have exactly 1 argument", id.Name)
	case entry.Params[0].Constraint != types.ConstraintN:
		return typed{}, errorf(diag.SemaBuiltinMisuse, "%s's argument must be N", id.Name)
	}
	param, body := entry.Params[0].Name, entry.Type
	l := fresh("L", body)
	r := fresh("R", body, types.Var{Name: l})
	lv, rv := types.Var{Name: l}, types.Var{Name: r}
	t := types.Arrow{Name: l, Dom: types.Nat{}, Cod: types.Arrow{Name: r, Dom: types.Nat{}, Cod: types.Arrow{
		Name: "eqLR", Dom: types.Eq{L: lv, R: rv},
		Cod: types.Arrow{
			Name: "propOfL", Dom: types.Rewrite(body, param, lv),
			Cod: types.Rewrite(body, param, rv),
		},
	}}}
	return typed{t: t, impl: value.Const(value.Curry(4, func(_ context.Context, args []value.Value) (value.Value, error) {
		return args[3], nil
	}))}, nil
}

// fresh returns name unless it occurs free in ts.
func fresh(name string, ts ...types.Type) string {
	for _, t := range ts {
		if types.FreeIn(name, t) {
			return types.Freeify(name, ts...)
		}
	}
	return name
}
