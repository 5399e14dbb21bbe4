package sema

import (
	"context"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

var eqImpl = value.Const(value.EqWitness)

// callee returns the name of an identifier callee, or "".
func callee(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func (c *checker) call(n *ast.Call, scope *types.Scope, require types.Type) (typed, error) {
	if m, ok := n.Fn.(*ast.Member); ok {
		switch m.Name.Name {
		case "symm", "sym":
			return c.symm(n, m, scope, require)
		case "trans":
			return c.trans(n, m, scope, require)
		case "map", "congr":
			if n.Empty() {
				return typed{}, errorf(diag.SemaBuiltinMisuse, "eq.map requires an argument")
			}
			return c.eqMap(n.Arg, m.X, scope)
		}
	}
	if n.Empty() {
		if callee(n.Fn) == "ring" {
			zero := types.Eq{L: types.Zero{}, R: types.Zero{}}
			return typed{t: types.Rung{Eq: zero}, impl: eqImpl}, nil
		}
		return typed{}, errorf(diag.SemaBuiltinMisuse, "no-argument call only works on built-in functions")
	}

	switch callee(n.Fn) {
	case "succ":
		arg := c.check(n.Arg, scope, nil, ast.KindValue)
		if !types.IsArithmetic(arg.t) {
			return typed{}, errorf(diag.SemaShapeMismatch, "succ argument must be an arithmetic type, got %s", types.Unparse(arg.t))
		}
		return typed{t: types.Succ{X: arg.t}, impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
			v, err := arg.impl(ctx, env)
			if err != nil {
				return nil, err
			}
			nv, ok := v.(value.Nat)
			if !ok {
				return nil, value.Errorf("runtime error: succ impl got non-integer")
			}
			return value.Nat{N: nv.N.Inc()}, nil
		}}, nil
	case "makeLeft", "makeRight":
		return c.inject(n, scope, require)
	case "ring":
		arg := c.check(n.Arg, scope, nil, ast.KindValue)
		if types.IsAny(arg.t) {
			return typed{t: types.Any{}, impl: arg.impl}, nil
		}
		eq, ok := arg.t.(types.Eq)
		if !ok {
			return typed{}, errorf(diag.SemaShapeMismatch, "ring argument must be a ==, got %s", types.Unparse(arg.t))
		}
		return typed{t: types.Rung{Eq: eq}, impl: arg.impl}, nil
	case "neverElim":
		if require == nil {
			return typed{}, errorf(diag.SemaUnconstrained, "neverElim needs require or generic argument")
		}
		arg := c.check(n.Arg, scope, types.Never{}, ast.KindValue)
		if !types.Equal(arg.t, types.Never{}) {
			return typed{}, errorf(diag.SemaNotAssignable, "neverElim needs never")
		}
		return typed{t: require, impl: value.Fail(value.Errorf("runtime error: neverElim should never be called"))}, nil
	}

	if inner, ok := n.Fn.(*ast.Call); ok && !inner.Empty() {
		switch callee(inner.Fn) {
		case "eqMap":
			return c.eqMap(inner.Arg, n.Arg, scope)
		case "replaceAll":
			return c.replaceAll(inner.Arg, n.Arg, scope)
		}
	}

	fn := c.check(n.Fn, scope, nil, ast.KindValue)
	if types.IsAny(fn.t) {
		return typed{t: types.Any{}, impl: value.Fail(value.Errorf("can't call any"))}, nil
	}
	arrow, ok := fn.t.(types.Arrow)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "left of call must be a function. Got a %s", types.Unparse(fn.t))
	}
	var argRequire types.Type
	if !isNat(arrow.Dom) {
		argRequire = arrow.Dom
	}
	arg := c.check(n.Arg, scope, argRequire, ast.KindValue)
	t, err := types.Reduce(arrow, arg.t)
	if err != nil {
		return typed{}, errorf(diag.SemaNotAssignable, "%s", err)
	}
	return typed{t: t, impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
		f, err := fn.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		a, err := arg.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		return apply(ctx, f, a)
	}}, nil
}

func (c *checker) symm(n *ast.Call, m *ast.Member, scope *types.Scope, require types.Type) (typed, error) {
	if !n.Empty() {
		return typed{}, errorf(diag.SemaBuiltinMisuse, "symm takes no arguments")
	}
	var flipped types.Type
	if eq, ok := require.(types.Eq); ok {
		flipped = types.Eq{L: eq.R, R: eq.L}
	}
	recv := c.check(m.X, scope, flipped, ast.KindValue)
	eq, ok := recv.t.(types.Eq)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, ".symm can only be called on an equality, got %s", describe(recv.t))
	}
	return typed{t: types.Eq{L: eq.R, R: eq.L}, impl: eqImpl}, nil
}

func (c *checker) trans(n *ast.Call, m *ast.Member, scope *types.Scope, require types.Type) (typed, error) {
	recv := c.check(m.X, scope, nil, ast.KindValue)
	l, ok := recv.t.(types.Eq)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, ".trans can only be called on an equality, got %s", describe(recv.t))
	}
	if n.Empty() {
		return typed{}, errorf(diag.SemaBuiltinMisuse, ".trans required an argument")
	}
	var argRequire types.Type
	if req, ok := require.(types.Eq); ok && types.Equal(req.L, l.L) {
		argRequire = types.Eq{L: l.R, R: req.R}
	}
	arg := c.check(n.Arg, scope, argRequire, ast.KindValue)
	switch r := arg.t.(type) {
	case types.Eq:
		if !types.Equal(l.R, r.L) {
			return typed{}, errorf(diag.SemaNotAssignable,
				"in eq1.trans(eq2), the right side of eq1 must match the left side of eq2. Got eq1=%s and eq2=%s",
				types.Unparse(l), types.Unparse(r))
		}
		return typed{t: types.Eq{L: l.L, R: r.R}, impl: eqImpl}, nil
	case types.Rung:
		if require == nil {
			return typed{}, errorf(diag.SemaUnconstrained,
				`.trans can only be called with a rung value if there is a type expectation. Add a type annotation or "as", or use an equality as the argument.`)
		}
		req, ok := require.(types.Eq)
		if !ok {
			return typed{}, errorf(diag.SemaShapeMismatch,
				"required type is not an equality, eq.trans doesn't make sense here. Required: %s", types.Unparse(require))
		}
		want := types.Eq{L: l.R, R: req.R}
		if !types.Equal(want, r) {
			return typed{}, errorf(diag.SemaNotAssignable, "wrong type, expected %s, got %s", types.Unparse(want), types.Unparse(r))
		}
		return typed{t: require, impl: eqImpl}, nil
	}
	return typed{}, errorf(diag.SemaShapeMismatch, "eq.trans can only be called with another equality, got %s", describe(arg.t))
}

// eqMap is congruence: from x == y conclude f(x) == f(y).
func (c *checker) eqMap(fn, eq ast.Expr, scope *types.Scope) (typed, error) {
	var ft types.Type
	if callee(fn) == "succ" {
		ft = types.Arrow{Name: "x", Dom: types.Nat{}, Cod: types.Succ{X: types.Var{Name: "x"}}}
	} else {
		f := c.check(fn, scope, nil, ast.KindValue)
		arrow, ok := f.t.(types.Arrow)
		if !ok || !types.IsArithmetic(arrow.Cod) {
			return typed{}, errorf(diag.SemaShapeMismatch, "eq.map requires a function from N to N")
		}
		ft = arrow
	}
	e := c.check(eq, scope, nil, ast.KindValue)
	et, ok := e.t.(types.Eq)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "eq.map argument must be a ==")
	}
	l, err := types.Reduce(ft, et.L)
	if err != nil {
		return typed{}, errorf(diag.SemaNotAssignable, "%s", err)
	}
	r, err := types.Reduce(ft, et.R)
	if err != nil {
		return typed{}, errorf(diag.SemaNotAssignable, "%s", err)
	}
	return typed{t: types.Eq{L: l, R: r}, impl: eqImpl}, nil
}

func (c *checker) replaceAll(propExpr, eqExpr ast.Expr, scope *types.Scope) (typed, error) {
	e := c.check(eqExpr, scope, nil, ast.KindValue)
	eq, ok := e.t.(types.Eq)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "the second argument to replaceAll must be an equality")
	}
	v, ok := eq.L.(types.Var)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "replaceAll: left of eq must be a variable")
	}
	prop := c.check(propExpr, scope, nil, ast.KindValue)
	return typed{t: types.Rewrite(prop.t, v.Name, eq.R), impl: prop.impl}, nil
}

// inject is makeLeft(x) / makeRight(x), which need the || from the
// requirement.
func (c *checker) inject(n *ast.Call, scope *types.Scope, require types.Type) (typed, error) {
	name := callee(n.Fn)
	if require == nil {
		return typed{}, errorf(diag.SemaUnconstrained, "%s needs an assertion or a type parameter", name)
	}
	or, ok := require.(types.Or)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "%s needs a || assertion, got %s", name, types.Unparse(require))
	}
	side, wrap := or.L, func(v value.Value) value.Value { return value.Left{X: v} }
	if name == "makeRight" {
		side, wrap = or.R, func(v value.Value) value.Value { return value.Right{X: v} }
	}
	arg := c.check(n.Arg, scope, side, ast.KindValue)
	if !types.Equal(arg.t, side) {
		return typed{}, errorf(diag.SemaNotAssignable, "%s type mismatch", name)
	}
	return typed{t: require, impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
		v, err := arg.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		return wrap(v), nil
	}}, nil
}
