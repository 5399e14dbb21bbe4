package sema

import (
	"context"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

func findCase(cases []*ast.Case, tag string) *ast.Case {
	for _, cs := range cases {
		if cs.Guard != nil && cs.Guard.Tag.Name == tag {
			return cs
		}
	}
	return nil
}

// switchOn is case analysis on a disjunction. Each arm ends with method:
// break for a switch expression, the enclosing block's method otherwise.
func (c *checker) switchOn(n *ast.Switch, scope *types.Scope, require types.Type, method ast.ReturnKind) (typed, error) {
	v := c.check(n.Value, scope, nil, ast.KindValue)
	if types.IsAny(v.t) {
		return typed{t: types.Any{}, impl: value.Fail(value.Errorf("got any in switch"))}, nil
	}
	or, ok := v.t.(types.Or)
	if !ok {
		return typed{}, errorf(diag.SemaShapeMismatch, "switch value must be ||, got %s", types.Unparse(v.t))
	}
	if len(n.Cases) != 2 {
		return typed{}, errorf(diag.SemaShapeMismatch, "switch must have 2 cases")
	}
	leftCase, rightCase := findCase(n.Cases, "left"), findCase(n.Cases, "right")
	if leftCase == nil {
		return typed{}, errorf(diag.SemaShapeMismatch, "switch must have a left case")
	}
	if rightCase == nil {
		return typed{}, errorf(diag.SemaShapeMismatch, "switch must have a right case")
	}

	arm := func(cs *ast.Case, side types.Type, req types.Type) (string, typed, error) {
		name := cs.Guard.Binding.Name
		entry, err := types.Tag(side)
		if err != nil {
			return name, typed{}, err
		}
		c.rec.defined(cs.Body.Meta, name, side)
		c.rec.hover(cs.Guard.Binding.Meta, side)
		return name, c.check(cs.Body, scope.With(name, entry), req, method), nil
	}
	leftName, left, err := arm(leftCase, or.L, require)
	if err != nil {
		return typed{}, err
	}
	rightRequire := require
	if rightRequire == nil {
		rightRequire = left.t
	}
	rightName, right, err := arm(rightCase, or.R, rightRequire)
	if err != nil {
		return typed{}, err
	}
	if !types.Equal(left.t, right.t) || (require != nil && !types.Equal(left.t, require)) {
		return typed{}, errorf(diag.SemaNotAssignable, "switch cases must have same type and also with require")
	}

	return typed{t: left.t, impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
		val, err := v.impl(ctx, env)
		if err != nil {
			return nil, err
		}
		switch x := val.(type) {
		case value.Left:
			return left.impl(ctx, env.With(leftName, x.X))
		case value.Right:
			return right.impl(ctx, env.With(rightName, x.X))
		}
		return nil, value.Errorf("switch impl got neither left nor right")
	}}, nil
}
