// Package poly implements multivariate polynomials with integer
// coefficients. It backs the `ring` built-in: two equalities are
// interchangeable when their sides differ by the same polynomial.
package poly

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mjgrzymek/PeanoScript/internal/bignum"
)

// Monomial is Coeff * prod(name^exp). A variable with exponent zero is never
// stored.
type Monomial struct {
	Coeff bignum.Int
	Vars  map[string]uint64
}

// Poly is a sum of monomials. The zero polynomial is the empty slice.
// Simplified polynomials hold at most one monomial per signature and no zero
// coefficients; everything this package returns is simplified.
type Poly []Monomial

// Const returns the constant polynomial n.
func Const(n bignum.Int) Poly {
	return Simplify(Poly{{Coeff: n}})
}

// Variable returns the polynomial 1*name.
func Variable(name string) Poly {
	return Poly{{Coeff: bignum.IntFromInt64(1), Vars: map[string]uint64{name: 1}}}
}

// One is the constant 1.
func One() Poly {
	return Poly{{Coeff: bignum.IntFromInt64(1)}}
}

// Signature is the canonical key of a monomial's variables, e.g. "x^1*y^2".
// The constant monomial has the empty signature.
func (m Monomial) Signature() string {
	names := lo.Keys(m.Vars)
	slices.Sort(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s^%d", name, m.Vars[name]))
	}
	return strings.Join(parts, "*")
}

func (m Monomial) clone() Monomial {
	vars := make(map[string]uint64, len(m.Vars))
	for k, v := range m.Vars {
		vars[k] = v
	}
	return Monomial{Coeff: m.Coeff, Vars: vars}
}

// Simplify merges monomials with equal signatures and drops zero
// coefficients. The first occurrence of each signature keeps its position.
func Simplify(p Poly) Poly {
	index := make(map[string]int, len(p))
	merged := make(Poly, 0, len(p))
	for _, m := range p {
		key := m.Signature()
		if i, ok := index[key]; ok {
			merged[i].Coeff = bignum.IntAdd(merged[i].Coeff, m.Coeff)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, m.clone())
	}
	return lo.Filter(merged, func(m Monomial, _ int) bool { return !m.Coeff.IsZero() })
}

func Add(a, b Poly) Poly {
	return Simplify(slices.Concat(a, b))
}

func Neg(p Poly) Poly {
	return lo.Map(p, func(m Monomial, _ int) Monomial {
		out := m.clone()
		out.Coeff = m.Coeff.Negated()
		return out
	})
}

func Sub(a, b Poly) Poly {
	return Add(a, Neg(b))
}

// Mul multiplies every pair of monomials by adding exponents.
func Mul(a, b Poly) Poly {
	out := make(Poly, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, mulMonomials(x, y))
		}
	}
	return Simplify(out)
}

func mulMonomials(a, b Monomial) Monomial {
	out := a.clone()
	out.Coeff = bignum.IntMul(a.Coeff, b.Coeff)
	for name, exp := range b.Vars {
		out.Vars[name] += exp
	}
	return out
}

// Equal compares a and b as multisets of monomials after simplification.
func Equal(a, b Poly) bool {
	sa, sb := Simplify(a), Simplify(b)
	if len(sa) != len(sb) {
		return false
	}
	for _, m := range sa {
		if !lo.ContainsBy(sb, func(o Monomial) bool { return monomialsEqual(m, o) }) {
			return false
		}
	}
	return true
}

func monomialsEqual(a, b Monomial) bool {
	if !a.Coeff.Equal(b.Coeff) || len(a.Vars) != len(b.Vars) {
		return false
	}
	for name, exp := range a.Vars {
		if other, ok := b.Vars[name]; !ok || other != exp {
			return false
		}
	}
	return true
}

// IsZero reports whether p simplifies to the zero polynomial.
func IsZero(p Poly) bool {
	return len(Simplify(p)) == 0
}

// String renders p in a stable order (by signature), e.g. "2*x^2 + -3".
func (p Poly) String() string {
	s := Simplify(p)
	if len(s) == 0 {
		return "0"
	}
	slices.SortFunc(s, func(a, b Monomial) int { return strings.Compare(a.Signature(), b.Signature()) })
	terms := lo.Map(s, func(m Monomial, _ int) string {
		sig := m.Signature()
		if sig == "" {
			return m.Coeff.String()
		}
		return m.Coeff.String() + "*" + sig
	})
	return strings.Join(terms, " + ")
}
