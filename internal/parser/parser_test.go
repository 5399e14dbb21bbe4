package parser

import (
	"errors"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

func parseSource(t *testing.T, start Start, src string) (ast.Node, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.peano", []byte(src))
	return Parse(fs.Get(id), start, Options{})
}

func mustParse(t *testing.T, start Start, src string) ast.Node {
	t.Helper()
	n, err := parseSource(t, start, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return n
}

func TestParseUnparse(t *testing.T) {
	tests := []struct {
		name  string
		start Start
		input string
		want  string
	}{
		{"const", StartCode, "const a: 3 = 3;", "const a: 3 = 3;"},
		{"let is const", StartCode, "let a = x;", "const a = x;"},
		{"empty statement", StartCode, ";", ";"},
		{"arith precedence", StartExpr, "1 + 2 * 3", "(1 + (2 * 3))"},
		{"left assoc", StartExpr, "a + b + c", "((a + b) + c)"},
		{"curried call", StartExpr, "f(a, b)", "f(a)(b)"},
		{"empty call", StartExpr, "eq.symm()", "eq.symm()"},
		{"generic call", StartExpr, "makeLeft<1 == 1>", "makeLeft<(1 == 1)>"},
		{"simple lambda", StartExpr, "x => x", "((x) => x)"},
		{"multiarg lambda", StartExpr, "(a: N, b: N): a == b => c", "((a: N) => ((b: N): (a == b) => c))"},
		{"lambda block", StartExpr, "(x: N) => { return x; }", "((x: N) => { return x; })"},
		{"and intro", StartExpr, "p && q", "{left: p, right: q}"},
		{"pair literal", StartExpr, "{left: p, right: q}", "{left: p, right: q}"},
		{"pair swapped", StartExpr, "{right: q, left: p}", "{left: p, right: q}"},
		{"exists literal", StartExpr, "{n: 3, p: proof}", "{n: 3, p: proof}"},
		{"make left", StartExpr, "{left: p}", "makeLeft(p)"},
		{"make right", StartExpr, "{right: p}", "makeRight(p)"},
		{"as", StartExpr, "x as N", "(x as N)"},
		{"member", StartExpr, "h.left", "h.left"},
		{"type arrow", StartLogic, "(a: N, b: N) => a == b", "((a: N) => ((b: N) => (a == b)))"},
		{"type ops", StartLogic, "a == b || c != d && e == f", "((a == b) || ((c != d) && (e == f)))"},
		{"triple equals", StartLogic, "a === b", "(a == b)"},
		{"type not", StartLogic, "!!(a == b)", "!!(a == b)"},
		{"type struct", StartLogic, "{n: N; p: n == 3}", "{n: N; p: (n == 3)}"},
		{"type struct comma", StartLogic, "{n: N, p: n == 3}", "{n: N; p: (n == 3)}"},
		{"type call", StartLogic, "succ(x) == 1", "(succ(x) == 1)"},
		{"type generic", StartLogic, "Even<x + 1, P>", "Even<(x + 1), P>"},
		{"typedef", StartCode, "type Q = (x: N) => x == x;", "type Q = ((x: N) => (x == x));"},
		{"generic typedef", StartCode, "type G<A extends N, P extends Prop> = P || A == 0;",
			"type G<A extends N, P extends Prop> = (P || (A == 0));"},
		{"multi const", StartCode, "const {n, p: proof} = e;", "const {n, p: proof} = e;"},
		{"print", StartCode, "print(a, b);", "console.log(a, b);"},
		{"console log", StartCode, "console . log(a);", "console.log(a);"},
		{"continue", StartCode, "continue x;", "continue x;"},
		{"function", StartCode, "function f(a: N) { return a; }", "const f = ((a: N) => { return a; });"},
		{"match", StartCode, "match (h) { case {left: l}: return l; case {right: r}: return r; }",
			"switch (h) { case {left: l}: return l; case {right: r}: return r; }"},
		{"for", StartExpr, "for (let i: N = 0; let p: 0 == 0 = eqRefl(0); i < n; i++) { continue p; }",
			"for (const i: N = 0; const p: (0 == 0) = eqRefl(0); i < n; i++) { continue p; }"},
		{"comments", StartCode, "// lead\nconst a = /* inline */ 3; // tail", "const a = 3;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustParse(t, tt.start, tt.input)
			got := ast.Unparse(n)
			if got != tt.want {
				t.Fatalf("unparse mismatch\n got: %s\nwant: %s", got, tt.want)
			}
			again := ast.Unparse(mustParse(t, tt.start, got))
			if again != got {
				t.Fatalf("unparse is not stable\nfirst: %s\nagain: %s", got, again)
			}
		})
	}
}

func TestParseCodeTopLevel(t *testing.T) {
	n := mustParse(t, StartCode, "const a = 1; const b = 2;")
	b, ok := n.(*ast.Block)
	if !ok || !b.TopLevel {
		t.Fatalf("expected a top level block, got %#v", n)
	}
	if len(b.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(b.Stmts))
	}
}

func TestLambdaAssertionOnInnermost(t *testing.T) {
	n := mustParse(t, StartExpr, "(a: N, b: N): a == b => c")
	outer := n.(*ast.Lambda)
	if outer.Assertion != nil {
		t.Fatalf("outer lambda should carry no assertion")
	}
	inner, ok := outer.Body.(*ast.Lambda)
	if !ok || inner.Assertion == nil || inner.Param.Name != "b" {
		t.Fatalf("assertion should sit on the innermost lambda, got %#v", outer.Body)
	}
}

func TestMetaCoversNode(t *testing.T) {
	src := "const a = f(x, y);"
	n := mustParse(t, StartCode, src)
	c := n.(*ast.Block).Stmts[0].(*ast.Const)
	if !c.Meta.Valid || c.Meta.Start != 0 || int(c.Meta.End) != len(src) {
		t.Fatalf("const meta %+v should cover the whole statement", c.Meta)
	}
	call := c.Value.(*ast.Call)
	if got := src[call.Meta.Start:call.Meta.End]; got != "f(x, y)" {
		t.Fatalf("outer call meta covers %q", got)
	}
	if inner := call.Fn.(*ast.Call); src[inner.Meta.Start:inner.Meta.End] != "f(x" {
		t.Fatalf("inner call meta covers %q", src[inner.Meta.Start:inner.Meta.End])
	}
	if got := src[c.Name.Meta.Start:c.Name.Meta.End]; got != "a" {
		t.Fatalf("name meta covers %q", got)
	}
}

func TestEmptyStatementMeta(t *testing.T) {
	n := mustParse(t, StartCode, "  ;")
	e := n.(*ast.Block).Stmts[0].(*ast.Empty)
	if !e.Meta.Valid || e.Meta.Start != 2 || e.Meta.End != 3 {
		t.Fatalf("empty statement meta %+v", e.Meta)
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("unexpected eof", func(t *testing.T) {
		_, err := parseSource(t, StartCode, "const a = 3")
		var eof *UnexpectedEOFError
		if !errors.As(err, &eof) {
			t.Fatalf("expected UnexpectedEOFError, got %v", err)
		}
		if eof.Error() != "Unexpected end of code. Forgot a ; at the end?" {
			t.Fatalf("message %q", eof.Error())
		}
	})
	t.Run("unexpected token", func(t *testing.T) {
		_, err := parseSource(t, StartCode, "const = 3;")
		var ute *UnexpectedTokenError
		if !errors.As(err, &ute) {
			t.Fatalf("expected UnexpectedTokenError, got %v", err)
		}
		if ute.Token.Text != "=" || ute.Token.Span.Start != 6 {
			t.Fatalf("wrong token %+v", ute.Token)
		}
		if ute.Diagnostic().Code != diag.SynUnexpectedToken {
			t.Fatalf("wrong code %v", ute.Diagnostic().Code)
		}
	})
	t.Run("invalid makeOr", func(t *testing.T) {
		_, err := parseSource(t, StartExpr, "{foo: 1}")
		var se *SyntaxError
		if !errors.As(err, &se) || se.Msg != "Invalid property for makeOr" || se.Code != diag.SynInvalidMakeOr {
			t.Fatalf("expected makeOr error, got %v", err)
		}
		if se.Span.Start != 1 || se.Span.End != 4 {
			t.Fatalf("makeOr error should point at the property, got %v", se.Span)
		}
	})
	t.Run("illegal identifier", func(t *testing.T) {
		_, err := parseSource(t, StartCode, "const toString = 3;")
		var se *SyntaxError
		if !errors.As(err, &se) || se.Code != diag.LexIllegalIdent {
			t.Fatalf("expected illegal identifier error, got %v", err)
		}
	})
	t.Run("unknown character", func(t *testing.T) {
		_, err := parseSource(t, StartCode, "const a = 3 # 4;")
		var se *SyntaxError
		if !errors.As(err, &se) || se.Code != diag.LexUnknownChar {
			t.Fatalf("expected lexical error, got %v", err)
		}
	})
}

func TestParseStart(t *testing.T) {
	for _, name := range []string{"code", "expr", "logic"} {
		s, err := ParseStart(name)
		if err != nil || s.String() != name {
			t.Fatalf("ParseStart(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := ParseStart("stmt"); err == nil {
		t.Fatal("expected error for unknown start")
	}
}

func TestParseTypeString(t *testing.T) {
	ty, err := ParseTypeString("(a: N, b: N, p: a == b) => b == a")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ast.Unparse(ty); got != "((a: N) => ((b: N) => ((p: (a == b)) => (b == a))))" {
		t.Fatalf("got %s", got)
	}
}
