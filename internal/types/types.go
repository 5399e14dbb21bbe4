// Package types holds the elaborated type trees and the operations the
// checker needs on them: printing, capture-avoiding substitution,
// alpha-aware comparison and the arithmetic/proof classification.
package types

import "github.com/mjgrzymek/PeanoScript/internal/bignum"

// Type is a node of a type tree. Arithmetic terms (Var, Zero, Succ, Add,
// Mul) are types too: a term's type is the term itself.
//
// A nil Type means "no requirement" wherever a required type is expected.
type Type interface {
	isType()
}

type (
	// Var is a natural-number variable.
	Var struct{ Name string }

	Zero struct{}

	Succ struct{ X Type }

	Add struct{ L, R Type }

	Mul struct{ L, R Type }

	// Nat is `N`. It only appears as a binder domain or a struct field.
	Nat struct{}

	Eq struct{ L, R Type }

	And struct{ L, R Type }

	Or struct{ L, R Type }

	// Arrow is the dependent function type `(Name: Dom) => Cod`. Name binds
	// in Cod only when Dom is Nat.
	Arrow struct {
		Name string
		Dom  Type
		Cod  Type
	}

	// Struct is the dependent pair `{NumName: N; PropName: Prop}` where
	// NumName binds in Prop.
	Struct struct {
		NumName  string
		PropName string
		Prop     Type
	}

	Never struct{}

	// Any is the error type. It is assignable both ways to everything.
	Any struct{}

	// Rung is an equality that compares up to polynomial identity.
	Rung struct{ Eq Eq }

	// TypeVar is a Prop parameter of a generic typedef body. Instantiation
	// replaces every TypeVar before the body is used.
	TypeVar struct{ Name string }
)

func (Var) isType()     {}
func (Zero) isType()    {}
func (Succ) isType()    {}
func (Add) isType()     {}
func (Mul) isType()     {}
func (Nat) isType()     {}
func (Eq) isType()      {}
func (And) isType()     {}
func (Or) isType()      {}
func (Arrow) isType()   {}
func (Struct) isType()  {}
func (Never) isType()   {}
func (Any) isType()     {}
func (Rung) isType()    {}
func (TypeVar) isType() {}

// Not builds `(_: t) => never`.
func Not(t Type) Arrow {
	return Arrow{Name: "_", Dom: t, Cod: Never{}}
}

// Numeral builds the succ chain for n.
func Numeral(n bignum.Nat) Type {
	var t Type = Zero{}
	for !n.IsZero() {
		t = Succ{X: t}
		n, _ = n.Dec()
	}
	return t
}

// NumeralValue returns the value of a closed succ chain.
func NumeralValue(t Type) (bignum.Nat, bool) {
	depth := uint64(0)
	for {
		switch v := t.(type) {
		case Succ:
			depth++
			t = v.X
		case Zero:
			return bignum.NatFromUint64(depth), true
		default:
			return bignum.Nat{}, false
		}
	}
}

// IsArithmetic reports whether t is a term rather than a proposition.
func IsArithmetic(t Type) bool {
	switch t.(type) {
	case Var, Zero, Succ, Add, Mul:
		return true
	}
	return false
}

// IsAny reports whether t is the error type.
func IsAny(t Type) bool {
	_, ok := t.(Any)
	return ok
}
