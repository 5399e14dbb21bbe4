package ast

import (
	"fmt"
	"strings"
)

// Unparse prints a node back as source. Compound terms and types are fully
// parenthesized, so the output parses back to the same tree.
func Unparse(n Node) string {
	var b strings.Builder
	unparse(&b, n)
	return b.String()
}

func unparse(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Ident:
		b.WriteString(n.Name)
	case *Num:
		b.WriteString(n.Text)

	case *Binary:
		fmt.Fprintf(b, "(%s %s %s)", Unparse(n.Left), n.Op, Unparse(n.Right))
	case *Lambda:
		b.WriteString("((")
		b.WriteString(n.Param.Name)
		if n.ParamType != nil {
			b.WriteString(": ")
			unparse(b, n.ParamType)
		}
		b.WriteString(")")
		if n.Assertion != nil {
			b.WriteString(": ")
			unparse(b, n.Assertion)
		}
		b.WriteString(" => ")
		unparse(b, n.Body)
		b.WriteString(")")
	case *Call:
		unparse(b, n.Fn)
		b.WriteString("(")
		if !n.Empty() {
			unparse(b, n.Arg)
		}
		b.WriteString(")")
	case *GenericCall:
		fmt.Fprintf(b, "%s<%s>", n.Name.Name, Unparse(n.Arg))
	case *Pair:
		fmt.Fprintf(b, "{left: %s, right: %s}", Unparse(n.Left), Unparse(n.Right))
	case *Struct:
		fmt.Fprintf(b, "{%s: %s, %s: %s}",
			n.Fields[0].Name.Name, Unparse(n.Fields[0].Value),
			n.Fields[1].Name.Name, Unparse(n.Fields[1].Value))
	case *As:
		fmt.Fprintf(b, "(%s as %s)", Unparse(n.X), Unparse(n.Type))
	case *Member:
		fmt.Fprintf(b, "%s.%s", Unparse(n.X), n.Name.Name)
	case *For:
		fmt.Fprintf(b, "for (%s; %s; %s < %s; %s++) ",
			unparseConst(n.Iter), unparseConst(n.Proof),
			n.Cond.Left.Name, Unparse(n.Cond.Right), n.Step.Var.Name)
		unparse(b, n.Body)

	case *TBinary:
		fmt.Fprintf(b, "(%s %s %s)", Unparse(n.Left), n.Op, Unparse(n.Right))
	case *TArrow:
		fmt.Fprintf(b, "((%s: %s) => %s)", n.Name.Name, Unparse(n.Dom), Unparse(n.Cod))
	case *TStruct:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = f.Name.Name + ": " + Unparse(f.Type)
		}
		fmt.Fprintf(b, "{%s}", strings.Join(parts, "; "))
	case *TNot:
		b.WriteString("!")
		unparse(b, n.X)
	case *TCall:
		fmt.Fprintf(b, "%s(%s)", n.Fn.Name, Unparse(n.Arg))
	case *TGeneric:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Unparse(a)
		}
		fmt.Fprintf(b, "%s<%s>", n.Name.Name, strings.Join(args, ", "))

	case *Block:
		if n.TopLevel {
			for i, s := range n.Stmts {
				if i > 0 {
					b.WriteString("\n")
				}
				unparse(b, s)
			}
			return
		}
		b.WriteString("{")
		for _, s := range n.Stmts {
			b.WriteString(" ")
			unparse(b, s)
		}
		b.WriteString(" }")
	case *Const:
		b.WriteString(unparseConst(n))
		b.WriteString(";")
	case *MultiConst:
		names := make([]string, 2)
		for i, r := range n.Names {
			names[i] = r.From.Name
			if r.To != nil {
				names[i] += ": " + r.To.Name
			}
		}
		fmt.Fprintf(b, "const {%s} = %s;", strings.Join(names, ", "), Unparse(n.Value))
	case *Return:
		fmt.Fprintf(b, "%s %s;", n.Kind, Unparse(n.Value))
	case *Typedef:
		fmt.Fprintf(b, "type %s = %s;", n.Name.Name, Unparse(n.Value))
	case *GenericTypedef:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name.Name + " extends " + p.Constraint.Name
		}
		fmt.Fprintf(b, "type %s<%s> = %s;", n.Name.Name, strings.Join(params, ", "), Unparse(n.Value))
	case *Log:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Unparse(a)
		}
		fmt.Fprintf(b, "console.log(%s);", strings.Join(args, ", "))
	case *Empty:
		b.WriteString(";")
	case *Switch:
		fmt.Fprintf(b, "switch (%s) {", Unparse(n.Value))
		for _, c := range n.Cases {
			fmt.Fprintf(b, " case {%s: %s}:", c.Guard.Tag.Name, c.Guard.Binding.Name)
			for _, s := range c.Body.Stmts {
				b.WriteString(" ")
				unparse(b, s)
			}
		}
		b.WriteString(" }")
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

func unparseConst(c *Const) string {
	var b strings.Builder
	b.WriteString("const ")
	b.WriteString(c.Name.Name)
	if c.Assertion != nil {
		b.WriteString(": ")
		unparse(&b, c.Assertion)
	}
	b.WriteString(" = ")
	unparse(&b, c.Value)
	return b.String()
}
