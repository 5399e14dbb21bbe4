package types

import (
	"fmt"
	"strings"
)

// FreeIn reports whether name occurs free in t. Arrow binders shadow their
// domain as well as their codomain.
func FreeIn(name string, t Type) bool {
	switch v := t.(type) {
	case Var:
		return v.Name == name
	case TypeVar:
		return v.Name == name
	case Arrow:
		return v.Name != name && (FreeIn(name, v.Dom) || FreeIn(name, v.Cod))
	case Struct:
		return v.NumName != name && FreeIn(name, v.Prop)
	case Succ:
		return FreeIn(name, v.X)
	case Rung:
		return FreeIn(name, v.Eq)
	case Add:
		return FreeIn(name, v.L) || FreeIn(name, v.R)
	case Mul:
		return FreeIn(name, v.L) || FreeIn(name, v.R)
	case Eq:
		return FreeIn(name, v.L) || FreeIn(name, v.R)
	case And:
		return FreeIn(name, v.L) || FreeIn(name, v.R)
	case Or:
		return FreeIn(name, v.L) || FreeIn(name, v.R)
	}
	return false
}

// Freeify returns a variant of s that is free in none of ts: trailing
// digits are stripped and "_2", "_3", ... are tried in turn.
func Freeify(s string, ts ...Type) string {
	base := strings.TrimRight(s, "0123456789")
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		free := true
		for _, t := range ts {
			if FreeIn(candidate, t) {
				free = false
				break
			}
		}
		if free {
			return candidate
		}
	}
}

// Rewrite substitutes to for the free occurrences of from in t. A binder
// named from shadows the substitution; a binder that would capture a free
// variable of to is renamed with Freeify first.
func Rewrite(t Type, from string, to Type) Type {
	switch v := t.(type) {
	case Var:
		if v.Name == from {
			return to
		}
		return v
	case TypeVar:
		if v.Name == from {
			return to
		}
		return v
	case Struct:
		if v.NumName == from {
			return v
		}
		if FreeIn(v.NumName, to) {
			fresh := Freeify(v.NumName, to, v.Prop, Var{Name: v.PropName})
			prop := Rewrite(v.Prop, v.NumName, Var{Name: fresh})
			return Struct{NumName: fresh, PropName: v.PropName, Prop: Rewrite(prop, from, to)}
		}
		return Struct{NumName: v.NumName, PropName: v.PropName, Prop: Rewrite(v.Prop, from, to)}
	case Arrow:
		if _, ok := v.Dom.(Nat); !ok {
			// proof binders are never referenced by types
			return Arrow{Name: v.Name, Dom: Rewrite(v.Dom, from, to), Cod: Rewrite(v.Cod, from, to)}
		}
		if v.Name == from {
			return v
		}
		if FreeIn(v.Name, to) {
			fresh := Freeify(v.Name, to, v.Cod)
			cod := Rewrite(v.Cod, v.Name, Var{Name: fresh})
			return Arrow{Name: fresh, Dom: Nat{}, Cod: Rewrite(cod, from, to)}
		}
		return Arrow{Name: v.Name, Dom: Nat{}, Cod: Rewrite(v.Cod, from, to)}
	case And:
		return And{L: Rewrite(v.L, from, to), R: Rewrite(v.R, from, to)}
	case Or:
		return Or{L: Rewrite(v.L, from, to), R: Rewrite(v.R, from, to)}
	case Add:
		return Add{L: Rewrite(v.L, from, to), R: Rewrite(v.R, from, to)}
	case Mul:
		return Mul{L: Rewrite(v.L, from, to), R: Rewrite(v.R, from, to)}
	case Eq:
		return rewriteEq(v, from, to)
	case Succ:
		return Succ{X: Rewrite(v.X, from, to)}
	case Rung:
		return Rung{Eq: rewriteEq(v.Eq, from, to)}
	}
	return t
}

func rewriteEq(e Eq, from string, to Type) Eq {
	return Eq{L: Rewrite(e.L, from, to), R: Rewrite(e.R, from, to)}
}
