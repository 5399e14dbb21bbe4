package types

import (
	"fmt"

	"github.com/mjgrzymek/PeanoScript/internal/bignum"
	"github.com/mjgrzymek/PeanoScript/internal/poly"
)

// Equal reports whether a value of type a can stand where b is expected.
// The relation is symmetric: Any matches everything, a Rung matches any
// equality with the same polynomial content, and binders compare up to
// renaming.
func Equal(a, b Type) bool {
	if IsAny(a) || IsAny(b) {
		return true
	}
	ra, aRung := a.(Rung)
	rb, bRung := b.(Rung)
	if aRung || bRung {
		ea, okA := a.(Eq)
		eb, okB := b.(Eq)
		if aRung {
			ea, okA = ra.Eq, true
		}
		if bRung {
			eb, okB = rb.Eq, true
		}
		return okA && okB && IdentitiesEquivalent(ea, eb)
	}
	if va, ok := a.(Var); ok {
		vb, ok := b.(Var)
		return ok && va.Name == vb.Name
	}
	_, aTV := a.(TypeVar)
	_, bTV := b.(TypeVar)
	if aTV || bTV {
		panic("types: typevar should not be compared")
	}

	switch va := a.(type) {
	case Zero:
		_, ok := b.(Zero)
		return ok
	case Nat:
		_, ok := b.(Nat)
		return ok
	case Never:
		_, ok := b.(Never)
		return ok
	case Succ:
		vb, ok := b.(Succ)
		return ok && Equal(va.X, vb.X)
	case Add:
		vb, ok := b.(Add)
		return ok && Equal(va.L, vb.L) && Equal(va.R, vb.R)
	case Mul:
		vb, ok := b.(Mul)
		return ok && Equal(va.L, vb.L) && Equal(va.R, vb.R)
	case Eq:
		vb, ok := b.(Eq)
		return ok && Equal(va.L, vb.L) && Equal(va.R, vb.R)
	case And:
		vb, ok := b.(And)
		return ok && Equal(va.L, vb.L) && Equal(va.R, vb.R)
	case Or:
		vb, ok := b.(Or)
		return ok && Equal(va.L, vb.L) && Equal(va.R, vb.R)
	case Arrow:
		vb, ok := b.(Arrow)
		if !ok || !Equal(va.Dom, vb.Dom) {
			return false
		}
		return bodiesEqual(va.Name, va.Cod, vb.Name, vb.Cod)
	case Struct:
		vb, ok := b.(Struct)
		if !ok {
			return false
		}
		return bodiesEqual(va.NumName, va.Prop, vb.NumName, vb.Prop)
	}
	panic(fmt.Sprintf("types: Equal of %T", a))
}

// bodiesEqual compares two binder bodies after renaming nb to na in b.
func bodiesEqual(na string, a Type, nb string, b Type) bool {
	if na == nb {
		return Equal(a, b)
	}
	if FreeIn(na, b) {
		return false
	}
	return Equal(a, Rewrite(b, nb, Var{Name: na}))
}

// Reduce computes the result type of applying fn to an argument of type
// arg.
func Reduce(fn, arg Type) (Type, error) {
	arrow, ok := fn.(Arrow)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", Unparse(fn))
	}
	if _, isNat := arrow.Dom.(Nat); isNat {
		if !IsArithmetic(arg) {
			return nil, fmt.Errorf("expected arithmetic, got %s", Unparse(arg))
		}
		return Rewrite(arrow.Cod, arrow.Name, arg), nil
	}
	if !Equal(arrow.Dom, arg) {
		return nil, fmt.Errorf("type mismatch\nrequested: %s\nreceived: %s", Unparse(arrow.Dom), Unparse(arg))
	}
	return arrow.Cod, nil
}

// FromArith converts an arithmetic term to a polynomial. ok is false when t
// contains anything but Var, Zero, Succ, Add and Mul.
func FromArith(t Type) (p poly.Poly, ok bool) {
	switch v := t.(type) {
	case Zero:
		return poly.Poly{}, true
	case Var:
		return poly.Variable(v.Name), true
	case Succ:
		if n, closed := NumeralValue(v); closed {
			return poly.Const(bignum.IntFromNat(n)), true
		}
		inner, ok := FromArith(v.X)
		if !ok {
			return nil, false
		}
		return poly.Add(inner, poly.One()), true
	case Add:
		l, okL := FromArith(v.L)
		r, okR := FromArith(v.R)
		if !okL || !okR {
			return nil, false
		}
		return poly.Add(l, r), true
	case Mul:
		l, okL := FromArith(v.L)
		r, okR := FromArith(v.R)
		if !okL || !okR {
			return nil, false
		}
		return poly.Mul(l, r), true
	}
	return nil, false
}

// IdentitiesEquivalent reports whether a and b state the same polynomial
// identity: left-right of one equals left-right of the other or its
// negation.
func IdentitiesEquivalent(a, b Eq) bool {
	da, ok := difference(a)
	if !ok {
		return false
	}
	db, ok := difference(b)
	if !ok {
		return false
	}
	return poly.Equal(da, db) || poly.Equal(da, poly.Neg(db))
}

func difference(e Eq) (poly.Poly, bool) {
	l, ok := FromArith(e.L)
	if !ok {
		return nil, false
	}
	r, ok := FromArith(e.R)
	if !ok {
		return nil, false
	}
	return poly.Sub(l, r), true
}
