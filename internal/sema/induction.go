package sema

import (
	"context"
	"runtime"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/bignum"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// induction checks the for loop, the only recursion principle:
//
//	for (let i: N = 0; let p: P<i> = base; i < n; i++) { ... continue step; }
//
// proves P<n> from a proof of P<0> and a step from P<i> to P<i+1>.
func (c *checker) induction(n *ast.For, scope *types.Scope, require types.Type) (typed, error) {
	iter, proof := n.Iter, n.Proof
	iterName, proofName := iter.Name.Name, proof.Name.Name

	if id, ok := iter.Assertion.(*ast.Ident); iter.Assertion != nil && (!ok || id.Name != "N") {
		return typed{}, errorf(diag.SemaBadInduction, "iter must be N")
	}
	start := c.check(iter.Value, scope, types.Zero{}, ast.KindValue)
	if !types.Equal(start.t, types.Zero{}) {
		return typed{}, errorf(diag.SemaBadInduction, "iter must be initialized to 0")
	}
	bound := c.check(n.Cond.Right, scope, nil, ast.KindValue)

	iterVar := types.Var{Name: iterName}
	iterEntry := types.Entry{Kind: types.KindArithmetic, Type: iterVar}
	withIter := scope.With(iterName, iterEntry)

	var prop types.Type
	if proof.Assertion != nil {
		prop = c.resolve(proof.Assertion, withIter)
	}
	if bv, ok := bound.t.(types.Var); ok && require != nil {
		outer := types.Rewrite(require, bv.Name, iterVar)
		if prop != nil && !types.Equal(prop, outer) {
			return typed{}, errorf(diag.SemaBadInduction, "base require mismatch. declared here: %s but required of the loop: %s",
				types.Unparse(prop), types.Unparse(outer))
		}
		prop = outer
	}
	if prop == nil {
		return typed{}, errorf(diag.SemaUnconstrained, "could not constrain the proof variable type. Add a type annotation on %q", proofName)
	}

	baseType := types.Rewrite(prop, iterName, types.Zero{})
	base := c.check(proof.Value, scope, baseType, ast.KindValue)
	if !types.Equal(base.t, baseType) {
		return typed{}, errorf(diag.SemaBadInduction, "base type mismatch. Required type for %q is %s but got %s",
			proofName, types.Unparse(baseType), types.Unparse(base.t))
	}

	if got := n.Cond.Left.Name; got != iterName {
		return typed{}, errorf(diag.SemaBadInduction, "condition left side identifier must be %q, got %q", iterName, got)
	}
	if got := n.Step.Var.Name; got != iterName {
		return typed{}, errorf(diag.SemaBadInduction, "step variable must be the first declared (%q), got %q", iterName, got)
	}

	stepType := types.Rewrite(prop, iterName, types.Succ{X: iterVar})
	propEntry, err := types.Tag(prop)
	if err != nil {
		return typed{}, err
	}
	c.rec.defined(n.Body.Meta, iterName, iterVar)
	c.rec.defined(n.Body.Meta, proofName, prop)
	c.rec.hover(iter.Name.Meta, iterVar)
	c.rec.hover(proof.Name.Meta, prop)
	c.rec.hover(n.Cond.Left.Meta, iterVar)
	c.rec.hover(n.Step.Var.Meta, iterVar)

	body := c.check(n.Body, withIter.With(proofName, propEntry), stepType, ast.KindContinue)
	if !types.Equal(body.t, stepType) {
		return typed{}, errorf(diag.SemaBadInduction, "step type mismatch")
	}

	kill := c.opts.Kill
	return typed{
		t: types.Rewrite(prop, iterName, bound.t),
		impl: func(ctx context.Context, env *value.Env) (value.Value, error) {
			bv, err := bound.impl(ctx, env)
			if err != nil {
				return nil, err
			}
			limit, ok := bv.(value.Nat)
			if !ok {
				return nil, value.Errorf("runtime error: bound must be bigint")
			}
			acc, err := base.impl(ctx, env)
			if err != nil {
				return nil, err
			}
			for i := (bignum.Nat{}); i.Cmp(limit.N) < 0; i = i.Inc() {
				if err := kill.Check(ctx); err != nil {
					return nil, err
				}
				runtime.Gosched()
				acc, err = body.impl(ctx, env.With(iterName, value.Nat{N: i}).With(proofName, acc))
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		},
	}, nil
}
