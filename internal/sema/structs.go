package sema

import (
	"context"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// exists checks a dependent pair literal {n: value, p: proof}.
func (c *checker) exists(n *ast.Struct, scope *types.Scope, require types.Type) (typed, error) {
	var want *types.Struct
	if require != nil {
		st, ok := require.(types.Struct)
		if !ok {
			return typed{}, errorf(diag.SemaShapeMismatch, "didnt want a struct, wanted %s", types.Unparse(require))
		}
		want = &st
	}
	numField, propField := n.Fields[0], n.Fields[1]
	numName, propName := numField.Name.Name, propField.Name.Name
	num := c.check(numField.Value, scope, nil, ast.KindValue)

	var assertion types.Type
	if want != nil {
		if want.NumName != numName || want.PropName != propName {
			return typed{}, errorf(diag.SemaShapeMismatch, "struct fields must match assertion. Received: %s %s, expected: %s %s",
				numName, propName, want.NumName, want.PropName)
		}
		assertion = want.Prop
	}
	proofCode := propField.Value
	if as, ok := proofCode.(*ast.As); ok {
		inner := scope.With(numName, types.Entry{Kind: types.KindArithmetic, Type: types.Var{Name: numName}})
		asserted := c.resolve(as.Type, inner)
		if assertion != nil && !types.Equal(asserted, assertion) {
			return typed{}, errorf(diag.SemaNotAssignable, "as inconsistent with outer assertion in estruct")
		}
		assertion = asserted
		proofCode = as.X
	}
	if assertion == nil {
		return typed{}, errorf(diag.SemaUnconstrained, "unimplemented, need proof assertion in estruct")
	}

	proofReq := types.Rewrite(assertion, numName, num.t)
	proof := c.check(proofCode, scope, proofReq, ast.KindValue)
	if !types.Equal(proof.t, proofReq) {
		return typed{}, errorf(diag.SemaNotAssignable, "bad as: %s != %s", types.Unparse(proof.t), types.Unparse(proofReq))
	}

	return typed{
		t: types.Struct{NumName: numName, PropName: propName, Prop: assertion},
		impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
			nv, err := num.impl(ctx, env)
			if err != nil {
				return nil, err
			}
			nat, ok := nv.(value.Nat)
			if !ok {
				return nil, value.Errorf("runtime error: struct number field must be bigint")
			}
			pv, err := proof.impl(ctx, env)
			if err != nil {
				return nil, err
			}
			if _, isNat := pv.(value.Nat); isNat {
				return nil, value.Errorf("runtime error: struct prop field must be prop")
			}
			return value.Exists{Num: nat.N, Prop: pv}, nil
		},
	}, nil
}

// pair checks a conjunction proof {left: a, right: b}.
func (c *checker) pair(n *ast.Pair, scope *types.Scope, require types.Type) (typed, error) {
	var lreq, rreq types.Type
	if require != nil {
		and, ok := require.(types.And)
		if !ok {
			return typed{}, errorf(diag.SemaShapeMismatch, "didnt want a &&")
		}
		lreq, rreq = and.L, and.R
	}
	l := c.check(n.Left, scope, lreq, ast.KindValue)
	r := c.check(n.Right, scope, rreq, ast.KindValue)
	return typed{t: types.And{L: l.t, R: r.t}, impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
		lv, err := l.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		rv, err := r.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		return value.Pair{Left: lv, Right: rv}, nil
	}}, nil
}

func (c *checker) as(n *ast.As, scope *types.Scope, require types.Type) (typed, error) {
	asType := c.resolve(n.Type, scope)
	if require != nil && !types.Equal(require, asType) {
		return typed{}, errorf(diag.SemaNotAssignable, "as inconsistent with require, required: %s, got: %s",
			types.Unparse(require), types.Unparse(asType))
	}
	l := c.check(n.X, scope, asType, ast.KindValue)
	if !types.Equal(l.t, asType) {
		return typed{}, errorf(diag.SemaNotAssignable, "as inconsistent with left")
	}
	return typed{t: asType, impl: l.impl}, nil
}

// member projects a conjunction: x.left or x.right.
func (c *checker) member(n *ast.Member, scope *types.Scope, require types.Type) (typed, error) {
	x := c.check(n.X, scope, nil, ast.KindValue)
	and, ok := x.t.(types.And)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "Only equalities and && object have . , got %s", types.Unparse(x.t))
	}
	var (
		t    types.Type
		pick func(value.Pair) value.Value
	)
	switch n.Name.Name {
	case "left":
		t, pick = and.L, func(p value.Pair) value.Value { return p.Left }
	case "right":
		t, pick = and.R, func(p value.Pair) value.Value { return p.Right }
	default:
		return typed{}, errorf(diag.SemaShapeMismatch, ". must be left or right. For Exists types, use destructuring assignment.")
	}
	if require != nil && !types.Equal(require, t) {
		return typed{}, errorf(diag.SemaNotAssignable, ". inconsistent with require: required: %s returned: %s",
			types.Unparse(require), types.Unparse(t))
	}
	return typed{t: t, impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
		v, err := x.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		p, ok := v.(value.Pair)
		if !ok {
			return nil, value.Errorf("runtime error: . operator on non-&& object")
		}
		return pick(p), nil
	}}, nil
}
