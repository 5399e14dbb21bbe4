package sema

import (
	"context"
	"sync"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// binding is the runtime effect of one const statement.
type binding struct {
	name string
	// num and prop are set for destructuring statements instead of name.
	num, prop string
	impl      value.Impl
}

func (b binding) bind(ctx context.Context, env *value.Env) (*value.Env, error) {
	v, err := b.impl(ctx, env)
	if err != nil {
		return nil, err
	}
	if b.name != "" {
		return env.With(b.name, v), nil
	}
	ex, ok := v.(value.Exists)
	if !ok {
		return nil, value.Errorf("runtime error: multi const didnt get object")
	}
	return env.With(b.num, value.Nat{N: ex.Num}).With(b.prop, ex.Prop), nil
}

type envThunk func(ctx context.Context) (*value.Env, error)

// after extends a top-level environment by one binding. Each step runs at
// most once however many console.log calls need it.
func (prev envThunk) after(b binding) envThunk {
	var (
		once sync.Once
		env  *value.Env
		err  error
	)
	return func(ctx context.Context) (*value.Env, error) {
		once.Do(func() {
			if env, err = prev(ctx); err == nil {
				env, err = b.bind(ctx, env)
			}
		})
		return env, err
	}
}

func (c *checker) block(n *ast.Block, scope *types.Scope, require types.Type, method ast.ReturnKind) (typed, error) {
	var bindings []binding
	base := c.baseEnv
	topEnv := envThunk(func(context.Context) (*value.Env, error) { return base, nil })
	// bound is where a non-top-level binding stays visible.
	bound := func(st ast.Stmt) ast.Meta {
		return ast.Meta{Start: st.Pos().End, End: n.Meta.End, Valid: st.Pos().Valid && n.Meta.Valid}
	}
	bind := func(b binding) {
		bindings = append(bindings, b)
		if n.TopLevel {
			topEnv = topEnv.after(b)
		}
	}

	for _, st := range n.Stmts {
		var (
			ret    *typed
			err    error
			ignore bool
		)
		switch s := st.(type) {
		case *ast.Empty:
			ignore = true
		case *ast.Const:
			scope, err = c.constStmt(s, scope, n.TopLevel, bound(s), bind)
		case *ast.MultiConst:
			scope, err = c.destructure(s, scope, bound(s), bind)
		case *ast.Return:
			if s.Kind != method {
				c.rec.errorAt(s.KindMeta,
					errorf(diag.SemaWrongReturnKind, "This block should end in a %s statement, got %q", method, s.Kind.String()),
					&Fix{ReplaceWith: method.String()})
			}
			r := c.check(s.Value, scope, require, ast.KindValue)
			ret = &r
		case *ast.Switch:
			// a failed switch does not end the block: later statements are
			// still checked and may supply the return
			var r typed
			if r, err = c.switchOn(s, scope, require, method); err == nil {
				ret = &r
			}
		case *ast.Typedef:
			scope = scope.With(s.Name.Name, types.Entry{Kind: types.KindTypedef, Type: c.resolve(s.Value, scope)})
		case *ast.GenericTypedef:
			scope, err = c.genericTypedef(s, scope)
		case *ast.Log:
			c.log(s, scope, n.TopLevel, topEnv)
		default:
			err = errorf(diag.SemaInternal, "unhandled statement %T", st)
		}
		if err != nil {
			c.rec.errorAt(st.Pos(), err, nil)
		}
		if ret != nil {
			return typed{t: ret.t, impl: runBlock(bindings, ret.impl)}, nil
		}
		if !ignore && n.TopLevel && c.exercise != nil {
			c.checkExercise(scope)
		}
	}
	if n.TopLevel {
		return typed{t: types.Any{}, impl: value.Const(value.NatOf(1337))}, nil
	}
	return typed{}, errorf(diag.SemaMissingReturn, "statement must end in a %s", method)
}

func runBlock(bindings []binding, ret value.Impl) value.Impl {
	return func(ctx context.Context, env *value.Env) (value.Value, error) {
		for _, b := range bindings {
			var err error
			if env, err = b.bind(ctx, env); err != nil {
				return nil, err
			}
		}
		return ret(ctx, env)
	}
}

func (c *checker) checkExercise(scope *types.Scope) {
	entry, ok := scope.Lookup(c.opts.Exercise.VarName)
	c.exercise.VarDefined = ok
	c.exercise.VarCorrectlyTyped = ok && entry.Kind == types.KindProof && types.Equal(entry.Type, c.opts.Exercise.Type)
}

func (c *checker) constStmt(s *ast.Const, scope *types.Scope, top bool, bound ast.Meta, bind func(binding)) (*types.Scope, error) {
	var assertion types.Type
	if s.Assertion != nil {
		assertion = c.resolve(s.Assertion, scope)
	}
	r := c.check(s.Value, scope, assertion, ast.KindValue)
	result := r.t
	if assertion != nil {
		result = assertion
	}
	c.rec.hover(s.Name.Meta, r.t)
	entry, err := types.Tag(result)
	if err != nil {
		return scope, err
	}
	if !top {
		c.rec.defined(bound, s.Name.Name, result)
	}
	bind(binding{name: s.Name.Name, impl: r.impl})
	return scope.With(s.Name.Name, entry), nil
}

func (c *checker) destructure(s *ast.MultiConst, scope *types.Scope, bound ast.Meta, bind func(binding)) (*types.Scope, error) {
	r := c.check(s.Value, scope, nil, ast.KindValue)
	st, ok := r.t.(types.Struct)
	if !ok {
		return scope, errorf(diag.SemaBadDestructuring, "need a struct for destructuring assignment, got %s", types.Unparse(r.t))
	}
	var num, prop string
	type rename struct{ from, to string }
	var renames []rename
	for _, rn := range s.Names {
		from, to := rn.From.Name, rn.Target()
		var t types.Type
		switch from {
		case st.NumName:
			num = to.Name
			t = types.Var{Name: to.Name}
			renames = append(renames, rename{from, to.Name})
		case st.PropName:
			prop = to.Name
			t = st.Prop
			for _, re := range renames {
				t = types.Rewrite(t, re.from, types.Var{Name: re.to})
			}
		default:
			return scope, errorf(diag.SemaBadDestructuring, "destructuring assignment failed, %q not in struct %s", from, types.Unparse(st))
		}
		c.rec.defined(bound, to.Name, t)
		c.rec.hover(to.Meta, t)
		entry, err := types.Tag(t)
		if err != nil {
			return scope, err
		}
		scope = scope.With(to.Name, entry)
	}
	if num == "" || prop == "" {
		return scope, errorf(diag.SemaBadDestructuring, "destructuring assignment must get a number and a proposition")
	}
	bind(binding{num: num, prop: prop, impl: r.impl})
	return scope, nil
}

func (c *checker) genericTypedef(s *ast.GenericTypedef, scope *types.Scope) (*types.Scope, error) {
	params := make([]types.Param, 0, len(s.Params))
	inner := scope
	for _, p := range s.Params {
		var param types.Param
		switch p.Constraint.Name {
		case "N":
			param = types.Param{Name: p.Name.Name, Constraint: types.ConstraintN}
			inner = inner.With(p.Name.Name, types.Entry{Kind: types.KindTypedef, Type: types.Var{Name: p.Name.Name}})
		case "Prop":
			param = types.Param{Name: p.Name.Name, Constraint: types.ConstraintProp}
			inner = inner.With(p.Name.Name, types.Entry{Kind: types.KindTypedef, Type: types.TypeVar{Name: p.Name.Name}})
		default:
			return scope, errorf(diag.SemaBadTypeExpr, "generic typedef parameter must be N or Prop")
		}
		params = append(params, param)
	}
	body := c.resolve(s.Value, inner)
	return scope.With(s.Name.Name, types.Entry{Kind: types.KindGeneric, Type: body, Params: params}), nil
}

func (c *checker) log(s *ast.Log, scope *types.Scope, top bool, topEnv envThunk) {
	for _, arg := range s.Args {
		var slot *LogSlot
		if !top {
			slot = failedLog(value.Errorf("console.log only works at the top level of code"))
		} else {
			r := c.check(arg, scope, nil, ast.KindValue)
			slot = newLogSlot(func(ctx context.Context) (string, error) {
				env, err := topEnv(ctx)
				if err != nil {
					return "", err
				}
				v, err := r.impl(ctx, env)
				if err != nil {
					return "", err
				}
				return value.Format(v, r.t), nil
			})
		}
		c.rec.add(Record{Kind: RecordLog, Meta: arg.Pos(), Log: slot})
	}
}
