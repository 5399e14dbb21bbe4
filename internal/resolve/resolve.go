// Package resolve turns type syntax into type trees. It looks names up in a
// types.Scope, checks arithmetic positions and instantiates generic
// typedefs.
package resolve

import (
	"errors"
	"fmt"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/bignum"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
	"github.com/mjgrzymek/PeanoScript/internal/types"
)

// ErrorSink receives the errors found while resolving. Each error is
// reported at the innermost node that failed.
type ErrorSink interface {
	ReportError(at ast.Meta, err error)
}

// Error is a resolution failure with its diagnostic code.
type Error struct {
	Code diag.Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errorf(code diag.Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ErrMalformedStruct is returned for struct types whose first field is not N.
var ErrMalformedStruct = &Error{
	Code: diag.SemaBadTypeExpr,
	Msg:  "structs must be of the form {name : N, name2: phi<name> }",
}

// Resolve converts t in scope. A node that fails is reported to sink (which
// may be nil) and resolves to types.Any; resolution continues around it.
func Resolve(t ast.Type, scope *types.Scope, sink ErrorSink) types.Type {
	r := resolver{sink: sink}
	return r.resolve(t, scope)
}

// FromString parses and resolves a closed type, failing on the first error.
func FromString(src string) (types.Type, error) {
	t, err := parser.ParseTypeString(src)
	if err != nil {
		return nil, err
	}
	var c collector
	out := Resolve(t, nil, &c)
	if len(c.errs) > 0 {
		return nil, c.errs[0]
	}
	return out, nil
}

// MustFromString is FromString for built-in signatures.
func MustFromString(src string) types.Type {
	t, err := FromString(src)
	if err != nil {
		panic(fmt.Sprintf("resolve %q: %v", src, err))
	}
	return t
}

type collector struct{ errs []error }

func (c *collector) ReportError(_ ast.Meta, err error) { c.errs = append(c.errs, err) }

type resolver struct {
	sink ErrorSink
}

func (r *resolver) resolve(t ast.Type, scope *types.Scope) types.Type {
	out, err := r.node(t, scope)
	if err != nil {
		if r.sink != nil {
			r.sink.ReportError(t.Pos(), err)
		}
		return types.Any{}
	}
	return out
}

func (r *resolver) node(t ast.Type, scope *types.Scope) (types.Type, error) {
	switch n := t.(type) {
	case *ast.Ident:
		return r.ident(n, scope)
	case *ast.Num:
		v, err := bignum.ParseNat(n.Text)
		if err != nil {
			return nil, err
		}
		return types.Numeral(v), nil
	case *ast.TArrow:
		dom := r.resolve(n.Dom, scope)
		name := n.Name.Name
		return types.Arrow{Name: name, Dom: dom, Cod: r.resolve(n.Cod, scope.With(name, binderEntry(name, dom)))}, nil
	case *ast.TBinary:
		return r.binary(n, scope)
	case *ast.TCall:
		if n.Fn.Name != "succ" {
			return nil, errorf(diag.SemaBadTypeExpr, "unhandled call %s", n.Fn.Name)
		}
		inside := r.resolve(n.Arg, scope)
		if !types.IsArithmetic(inside) {
			return nil, errorf(diag.SemaBadTypeExpr, "succ argument must be arithmetic, got %s", types.Unparse(inside))
		}
		return types.Succ{X: inside}, nil
	case *ast.TStruct:
		return r.structType(n, scope)
	case *ast.TNot:
		return types.Not(r.resolve(n.X, scope)), nil
	case *ast.TGeneric:
		return r.instantiate(n, scope)
	}
	return nil, errorf(diag.SemaInternal, "unknown type syntax %T", t)
}

// binderEntry is what an arrow or struct binder means inside its body.
func binderEntry(name string, dom types.Type) types.Entry {
	if _, ok := dom.(types.Nat); ok {
		return types.Entry{Kind: types.KindArithmetic, Type: types.Var{Name: name}}
	}
	return types.Entry{Kind: types.KindProof, Type: dom}
}

func (r *resolver) ident(n *ast.Ident, scope *types.Scope) (types.Type, error) {
	switch n.Name {
	case "N":
		return types.Nat{}, nil
	case "never":
		return types.Never{}, nil
	}
	e, ok := scope.Lookup(n.Name)
	if !ok {
		return nil, errorf(diag.SemaUnknownVariable, "unknown variable %s", n.Name)
	}
	if e.Kind != types.KindArithmetic && e.Kind != types.KindTypedef {
		return nil, errorf(diag.SemaBadTypeExpr, "can't use %q kind in type context (name %s)", e.Kind.String(), n.Name)
	}
	return e.Type, nil
}

func (r *resolver) binary(n *ast.TBinary, scope *types.Scope) (types.Type, error) {
	left := r.resolve(n.Left, scope)
	right := r.resolve(n.Right, scope)
	switch n.Op {
	case ast.TAnd:
		return types.And{L: left, R: right}, nil
	case ast.TOr:
		return types.Or{L: left, R: right}, nil
	}
	if err := arithmetic("left", n.Op, left); err != nil {
		return nil, err
	}
	if err := arithmetic("right", n.Op, right); err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.TEq:
		return types.Eq{L: left, R: right}, nil
	case ast.TNeq:
		return types.Not(types.Eq{L: left, R: right}), nil
	case ast.TAdd:
		return types.Add{L: left, R: right}, nil
	case ast.TMul:
		return types.Mul{L: left, R: right}, nil
	}
	return nil, errorf(diag.SemaInternal, "unknown type operator %s", n.Op)
}

func arithmetic(side string, op ast.TypeOp, t types.Type) error {
	e, err := types.Tag(t)
	if err != nil {
		return &Error{Code: diag.SemaBadTypeExpr, Msg: err.Error()}
	}
	if e.Kind != types.KindArithmetic {
		return errorf(diag.SemaBadTypeExpr, "%s of %s must be arithmetic, got %s", side, op, types.Unparse(t))
	}
	return nil
}

func (r *resolver) structType(n *ast.TStruct, scope *types.Scope) (types.Type, error) {
	if len(n.Fields) != 2 {
		return nil, ErrMalformedStruct
	}
	numField, propField := n.Fields[0], n.Fields[1]
	first := r.resolve(numField.Type, scope)
	inner := scope
	if _, ok := first.(types.Nat); ok {
		inner = scope.With(numField.Name.Name, binderEntry(numField.Name.Name, first))
	}
	prop := r.resolve(propField.Type, inner)
	if numField.Name.Name == "left" && propField.Name.Name == "right" ||
		numField.Name.Name == "right" && propField.Name.Name == "left" {
		return nil, errorf(diag.SemaBadTypeExpr,
			`The names "left" and "right" are reserved for And types. To declare an And type, use the && operator`)
	}
	if _, ok := first.(types.Nat); !ok {
		return nil, ErrMalformedStruct
	}
	return types.Struct{NumName: numField.Name.Name, PropName: propField.Name.Name, Prop: prop}, nil
}

// instantiate substitutes the arguments of a generic typedef into its body
// left to right. When argument i mentions the name of a later parameter j,
// j is first renamed to a fresh type variable so the substitution of i
// cannot be captured by the substitution of j.
func (r *resolver) instantiate(n *ast.TGeneric, scope *types.Scope) (types.Type, error) {
	name := n.Name.Name
	e, ok := scope.Lookup(name)
	if !ok {
		return nil, errorf(diag.SemaUnknownGeneric, "unknown generic %q", name)
	}
	if e.Kind != types.KindGeneric {
		return nil, errorf(diag.SemaUnknownGeneric, "%q is not a generic", name)
	}
	if len(e.Params) != len(n.Args) {
		return nil, errorf(diag.SemaBadTypeExpr, "generic %q requires %d arguments, got %d", name, len(e.Params), len(n.Args))
	}
	ret := e.Type
	renames := make(map[int]string)
	for i, param := range e.Params {
		provided := r.resolve(n.Args[i], scope)
		tagged, err := types.Tag(provided)
		if err != nil {
			return nil, &Error{Code: diag.SemaBadTypeExpr, Msg: err.Error()}
		}
		want := types.KindArithmetic
		if param.Constraint == types.ConstraintProp {
			want = types.KindProof
		}
		if tagged.Kind != want {
			return nil, errorf(diag.SemaBadTypeExpr, "generic %q argument %d must be %s, got %s", name, i, param.Constraint, tagged.Kind)
		}
		for j := i + 1; j < len(e.Params); j++ {
			later := e.Params[j].Name
			if types.FreeIn(later, provided) {
				fresh := types.Freeify(later, provided, ret)
				renames[j] = fresh
				ret = types.Rewrite(ret, later, types.TypeVar{Name: fresh})
			}
		}
		declared := param.Name
		if renamed, ok := renames[i]; ok {
			declared = renamed
		}
		ret = types.Rewrite(ret, declared, provided)
	}
	return ret, nil
}

// Code returns the diagnostic code carried by err, or fallback.
func Code(err error, fallback diag.Code) diag.Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return fallback
}
