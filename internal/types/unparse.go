package types

import (
	"fmt"
	"strings"
)

// Unparse renders t the way diagnostics and hovers show it. A nil type
// (no requirement) prints as "Any", the error type as "any".
func Unparse(t Type) string {
	var sb strings.Builder
	unparse(&sb, t)
	return sb.String()
}

func unparse(sb *strings.Builder, t Type) {
	switch v := t.(type) {
	case nil:
		sb.WriteString("Any")
	case Any:
		sb.WriteString("any")
	case Arrow:
		if _, ok := v.Cod.(Never); ok {
			if _, isNat := v.Dom.(Nat); !isNat {
				if eq, isEq := v.Dom.(Eq); isEq {
					sb.WriteByte('(')
					unparse(sb, eq.L)
					sb.WriteString(" != ")
					unparse(sb, eq.R)
					sb.WriteByte(')')
					return
				}
				sb.WriteString("!( ")
				unparse(sb, v.Dom)
				sb.WriteString(" )")
				return
			}
		}
		fmt.Fprintf(sb, "(%s: ", v.Name)
		unparse(sb, v.Dom)
		sb.WriteString(") => ")
		unparse(sb, v.Cod)
	case Struct:
		fmt.Fprintf(sb, "{%s: N; %s: ", v.NumName, v.PropName)
		unparse(sb, v.Prop)
		sb.WriteByte('}')
	case Var:
		sb.WriteString(v.Name)
	case TypeVar:
		sb.WriteString(v.Name)
	case Zero:
		sb.WriteByte('0')
	case Succ:
		if n, ok := NumeralValue(v); ok {
			sb.WriteString(n.String())
			return
		}
		sb.WriteString("succ(")
		unparse(sb, v.X)
		sb.WriteByte(')')
	case Nat:
		sb.WriteByte('N')
	case Rung:
		sb.WriteString("rung<")
		unparse(sb, v.Eq)
		sb.WriteByte('>')
	case Never:
		sb.WriteString("never")
	case Add:
		binary(sb, v.L, "+", v.R)
	case Mul:
		binary(sb, v.L, "*", v.R)
	case Eq:
		binary(sb, v.L, "==", v.R)
	case And:
		binary(sb, v.L, "&&", v.R)
	case Or:
		binary(sb, v.L, "||", v.R)
	default:
		panic(fmt.Sprintf("types: unparse of %T", t))
	}
}

func binary(sb *strings.Builder, l Type, op string, r Type) {
	sb.WriteByte('(')
	unparse(sb, l)
	fmt.Fprintf(sb, " %s ", op)
	unparse(sb, r)
	sb.WriteByte(')')
}
