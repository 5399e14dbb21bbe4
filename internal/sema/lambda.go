package sema

import (
	"context"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

func isNat(t types.Type) bool {
	_, ok := t.(types.Nat)
	return ok
}

func (c *checker) lambda(n *ast.Lambda, scope *types.Scope, require types.Type) (typed, error) {
	name := n.Param.Name
	var left types.Type
	if n.ParamType != nil {
		left = c.resolve(n.ParamType, scope)
	}

	var rightRequire types.Type
	if require != nil {
		arrow, ok := require.(types.Arrow)
		if !ok {
			return typed{}, errorf(diag.SemaShapeMismatch, "required non-function type %s", types.Unparse(require))
		}
		if left != nil && !types.Equal(left, arrow.Dom) {
			return typed{}, errorf(diag.SemaNotAssignable, "required input type: %s, declared: %s",
				types.Unparse(arrow.Dom), types.Unparse(left))
		}
		if isNat(arrow.Dom) && arrow.Name != name {
			arrow = types.Arrow{Name: name, Dom: arrow.Dom, Cod: types.Rewrite(arrow.Cod, arrow.Name, types.Var{Name: name})}
		}
		rightRequire = arrow.Cod
		if left == nil {
			left = arrow.Dom
		}
	}
	if left == nil {
		return typed{}, errorf(diag.SemaUnconstrained, "unconstrained argument type")
	}

	var param types.Type = left
	if isNat(left) {
		param = types.Var{Name: name}
	}
	entry, err := types.Tag(param)
	if err != nil {
		return typed{}, err
	}
	inner := scope.With(name, entry)

	if n.Assertion != nil {
		asserted := c.resolve(n.Assertion, inner)
		if rightRequire != nil && !types.Equal(asserted, rightRequire) {
			return typed{}, errorf(diag.SemaNotAssignable,
				"return type annotation inconsistent with expected type.\nasserted here: %s\nexpected return type: %s",
				types.Unparse(asserted), types.Unparse(rightRequire))
		}
		rightRequire = asserted
	}

	c.rec.defined(n.Body.Pos(), name, param)
	c.rec.hover(n.Param.Meta, param)

	method := ast.KindValue
	if _, ok := n.Body.(*ast.Block); ok {
		method = ast.KindReturn
	}
	body := c.check(n.Body, inner, rightRequire, method)
	if rightRequire != nil && !types.Equal(body.t, rightRequire) {
		return typed{}, errorf(diag.SemaNotAssignable,
			"return type annotation breaks requirement\ndeclared in function: %s\nrequired: %s",
			types.Unparse(body.t), types.Unparse(rightRequire))
	}

	return typed{
		t: types.Arrow{Name: name, Dom: left, Cod: body.t},
		impl: func(_ context.Context, env *value.Env) (value.Value, error) {
			return value.Func(func(ctx context.Context, arg value.Value) (value.Value, error) {
				return body.impl(ctx, env.With(name, arg))
			}), nil
		},
	}, nil
}
