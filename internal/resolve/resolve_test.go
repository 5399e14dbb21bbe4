package resolve

import (
	"strings"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
	"github.com/mjgrzymek/PeanoScript/internal/types"
)

type sink struct {
	errs  []error
	metas []ast.Meta
}

func (s *sink) ReportError(at ast.Meta, err error) {
	s.errs = append(s.errs, err)
	s.metas = append(s.metas, at)
}

func resolveString(t *testing.T, src string, scope *types.Scope) (types.Type, *sink) {
	t.Helper()
	syn, err := parser.ParseTypeString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	s := &sink{}
	return Resolve(syn, scope, s), s
}

// generic declares a generic typedef the same way the checker does: N
// parameters are variables, Prop parameters are type variables.
func generic(t *testing.T, scope *types.Scope, name, body string, params ...types.Param) *types.Scope {
	t.Helper()
	inner := scope
	for _, p := range params {
		var bound types.Type = types.Var{Name: p.Name}
		if p.Constraint == types.ConstraintProp {
			bound = types.TypeVar{Name: p.Name}
		}
		inner = inner.With(p.Name, types.Entry{Kind: types.KindTypedef, Type: bound})
	}
	tree, s := resolveString(t, body, inner)
	if len(s.errs) > 0 {
		t.Fatalf("generic body %q: %v", body, s.errs)
	}
	return scope.With(name, types.Entry{Kind: types.KindGeneric, Type: tree, Params: params})
}

func nParam(name string) types.Param    { return types.Param{Name: name, Constraint: types.ConstraintN} }
func propParam(name string) types.Param { return types.Param{Name: name, Constraint: types.ConstraintProp} }

func TestResolve(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"3", "3"},
		{"(x: N) => x == x", "(x: N) => (x == x)"},
		{"(x: N, y: N, p: x == y) => y == x", "(x: N) => (y: N) => (p: (x == y)) => (y == x)"},
		{"(x: N) => x + 0 == x", "(x: N) => ((x + 0) == x)"},
		{"(x: N) => (p: succ(x) == 0) => never", "(x: N) => (succ(x) != 0)"},
		{"(x: N) => x == 0 || x != 0", "(x: N) => ((x == 0) || (x != 0))"},
		{"!(0 == 1 && 1 == 1)", "!( ((0 == 1) && (1 == 1)) )"},
		{"(n: N) => {m: N; p: m * 2 == n}", "(n: N) => {m: N; p: ((m * 2) == n)}"},
		{"succ(succ(0)) == 2", "(2 == 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, s := resolveString(t, tt.src, nil)
			if len(s.errs) > 0 {
				t.Fatalf("unexpected errors %v", s.errs)
			}
			if types.Unparse(got) != tt.want {
				t.Fatalf("got %s, want %s", types.Unparse(got), tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	scope := types.NewScope(map[string]types.Entry{
		"p":   {Kind: types.KindProof, Type: types.Never{}},
		"Foo": {Kind: types.KindTypedef, Type: types.Never{}},
	})
	tests := []struct {
		src  string
		msg  string
		code diag.Code
	}{
		{"x == 0", "unknown variable x", diag.SemaUnknownVariable},
		{"p == 0", `can't use "proof" kind in type context (name p)`, diag.SemaBadTypeExpr},
		{"Foo == 0", "left of == must be arithmetic, got never", diag.SemaBadTypeExpr},
		{"0 + N == 0", "Only use N as a function parameter type or in a struct", diag.SemaBadTypeExpr},
		{"pred(0) == 0", "unhandled call pred", diag.SemaBadTypeExpr},
		{"succ(Foo) == 0", "succ argument must be arithmetic, got never", diag.SemaBadTypeExpr},
		{"{left: N; right: 0 == 0}", `The names "left" and "right" are reserved for And types. To declare an And type, use the && operator`, diag.SemaBadTypeExpr},
		{"{a: 0 == 0; b: 0 == 0}", "structs must be of the form {name : N, name2: phi<name> }", diag.SemaBadTypeExpr},
		{"Bar<1>", `unknown generic "Bar"`, diag.SemaUnknownGeneric},
		{"Foo<1>", `"Foo" is not a generic`, diag.SemaUnknownGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, s := resolveString(t, tt.src, scope)
			if len(s.errs) == 0 {
				t.Fatalf("expected an error, got %s", types.Unparse(got))
			}
			if s.errs[0].Error() != tt.msg {
				t.Fatalf("message %q, want %q", s.errs[0].Error(), tt.msg)
			}
			if c := Code(s.errs[0], diag.SemaError); c != tt.code {
				t.Fatalf("code %v, want %v", c, tt.code)
			}
		})
	}
}

func TestErrorIsReportedAtInnermostNode(t *testing.T) {
	src := "(a: N) => a == zz"
	_, s := resolveString(t, src, nil)
	if len(s.errs) == 0 {
		t.Fatal("expected errors")
	}
	m := s.metas[0]
	if got := src[m.Start:m.End]; got != "zz" {
		t.Fatalf("first error reported at %q", got)
	}
	// the failing node becomes any, which then fails the arithmetic check
	if !strings.Contains(s.errs[len(s.errs)-1].Error(), "must be arithmetic, got any") {
		t.Fatalf("unexpected errors %v", s.errs)
	}
}

func TestGenericInstantiation(t *testing.T) {
	scope := generic(t, nil, "A", "X == X && P", nParam("X"), propParam("P"))
	got, s := resolveString(t, "A<3, 5 == 5>", scope)
	if len(s.errs) > 0 || types.Unparse(got) != "((3 == 3) && (5 == 5))" {
		t.Fatalf("got %s, %v", types.Unparse(got), s.errs)
	}

	scope = generic(t, nil, "divides", "{d2: N; p: d2 * d == n}", nParam("d"), nParam("n"))
	scope = generic(t, scope, "isPrime", "!{d: N; p: d != 1 && d != n && divides<d, n>}", nParam("n"))
	got, s = resolveString(t, "isPrime<7>", scope)
	want := "!( {d: N; p: (((d != 1) && (d != 7)) && {d2: N; p: ((d2 * d) == 7)})} )"
	if len(s.errs) > 0 || types.Unparse(got) != want {
		t.Fatalf("got %s, %v", types.Unparse(got), s.errs)
	}
}

func TestGenericArgumentCaptureIsAvoided(t *testing.T) {
	// the first argument mentions the name of the second parameter
	scope := generic(t, nil, "G", "a + b == 0", nParam("a"), nParam("b"))
	scope = scope.With("b", types.Entry{Kind: types.KindArithmetic, Type: types.Var{Name: "b"}})
	got, s := resolveString(t, "G<b, 1>", scope)
	if len(s.errs) > 0 || types.Unparse(got) != "((b + 1) == 0)" {
		t.Fatalf("got %s, %v", types.Unparse(got), s.errs)
	}
}

func TestGenericErrors(t *testing.T) {
	scope := generic(t, nil, "decidable", "p || !p", propParam("p"))
	tests := []struct {
		src string
		msg string
	}{
		{"decidable<1 == 1, 2 == 2>", `generic "decidable" requires 1 arguments, got 2`},
		{"decidable<3>", `generic "decidable" argument 0 must be Prop, got arithmetic`},
	}
	for _, tt := range tests {
		_, s := resolveString(t, tt.src, scope)
		if len(s.errs) == 0 || s.errs[0].Error() != tt.msg {
			t.Fatalf("%s: got %v", tt.src, s.errs)
		}
	}
}

func TestFromString(t *testing.T) {
	got, err := FromString("(x: N) => (y: N) => x * succ(y) == x * y + x")
	if err != nil {
		t.Fatal(err)
	}
	if types.Unparse(got) != "(x: N) => (y: N) => ((x * succ(y)) == ((x * y) + x))" {
		t.Fatalf("got %s", types.Unparse(got))
	}
	if _, err := FromString("x == 0"); err == nil {
		t.Fatal("free variables must fail")
	}
	if _, err := FromString("x == "); err == nil {
		t.Fatal("syntax errors must fail")
	}
}
