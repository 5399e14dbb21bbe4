package sema

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/axioms"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
	"github.com/mjgrzymek/PeanoScript/internal/resolve"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

func parseProgram(t *testing.T, src string) *ast.Block {
	t.Helper()
	fs := source.NewFileSet()
	prog, err := parser.ParseCode(fs.Get(fs.AddVirtual("test.peano", []byte(src))), parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, src)
	}
	return prog
}

func checkProgram(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	return Check(parseProgram(t, src), opts)
}

// typeOf checks src and fails the test on any error record.
func typeOf(t *testing.T, src string) string {
	t.Helper()
	res := checkProgram(t, src, Options{})
	for _, e := range res.Records.Errors() {
		t.Errorf("unexpected error at %d-%d: %s", e.Meta.Start, e.Meta.End, e.Message)
	}
	return types.Unparse(res.Type)
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestBasicEqTrans(t *testing.T) {
	fs := source.NewFileSet()
	e, err := parser.ParseExpr(fs.Get(fs.AddVirtual("expr", []byte(
		"eqTrans(1+1)(succ(1+0))(2)(addSucc(1)(0))(eqMap(succ)(addZero(1)))"))), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res := CheckExpr(e, nil, Options{})
	if res.Records.HasErrors() {
		t.Fatalf("errors: %v", res.Records.Errors())
	}
	if got := types.Unparse(res.Type); got != "((1 + 1) == 2)" {
		t.Fatalf("got %s", got)
	}
}

func TestProgramTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"variables", "const x = 3;\nreturn x;", "3"},
		{"exists literal", "return {a: 3, b: addZero(3) as a + 0 == 3};", "{a: N; b: ((a + 0) == 3)}"},
		{"annotated lambda", "const f: (x : N) => x == x = (x: N): x == x => eqRefl(x);\nreturn f;", "(x: N) => (x == x)"},
		{"lambda from requirement", "const f: (e: N) => e == e = e => eqRefl(e);\nreturn f;", "(e: N) => (e == e)"},
		{"proof parameter", "const f: (_: 0 == 1) => 0 == 1 = p => p;\nreturn f;", "(_: (0 == 1)) => (0 == 1)"},
		{"induction", `
const a =  (n: N) => for(let i=0;
    let p: 0 + i == i = addZero(0);
    i < n; i++){
  const h = eqMap(succ)(p);
  const r = addSucc(0)(i);
  continue eqTrans(0 + succ(i) ) (succ(0+i)) (succ(i)) (r) (h);
};
return a;`, "(n: N) => ((0 + n) == n)"},
		{"switch expression", `
const a = makeRight<0 == 1 || 0 == 0>(eqRefl(0));
const b = match(a){
  case {left: c}:
    break eqRefl(1);
  case {right: c}:
    break eqMap(succ)(c);
};
return b;`, "(1 == 1)"},
		{"destructuring", `
const e = {b: 1, p: eqRefl(1) as b == b};
const {b, p} = e;
return p;`, "(b == b)"},
		{"halves with existential elimination", readTestdata(t, "halves.peano"),
			"(a: N) => {b: N; p: (((b + b) == a) || (((b + b) + 1) == a))}"},
		{"halves with ring", `
const hej =  (a : N) => for(let x=0;
  let p: {b: N; p: b + b == x || b + b + 1 == x} = {b: 0, p: makeLeft(addZero(0)) };
  x < a; x++){
    const {b, p} = p;
    switch(p){
      case {left: d}:
        continue {b: b, p: makeRight( ring(eqMap(succ)(d))  ) };
      case {right: d}:
        continue {b: b+1, p: makeLeft( ring(eqMap(succ)(d)) )  };
    };
};
return hej;`, "(a: N) => {b: N; p: (((b + b) == a) || (((b + b) + 1) == a))}"},
		{"halves with or literals", `
const hej =  (a : N) => for(let x=0;
  let step: {b: N; p: b + b == x || b + b + 1 == x} = {b: 0, p: {left: addZero(0)} };
  x < a; x++){
    const {b, p} = step;
    switch(p){
      case {left: d}:
        continue {b: b, p: {right: ring(d) } };
      case {right: d}:
        continue {b: b+1, p: {left: ring(d) }  };
    };
};
return hej;`, "(a: N) => {b: N; p: (((b + b) == a) || (((b + b) + 1) == a))}"},
		{"ring", "const p : 1 + 1 == 2 = ring(eqRefl(2));\nreturn p;", "((1 + 1) == 2)"},
		{"function types with any name", "const b : (x : N) => x == x = (y : N) => eqRefl(y);\nreturn b;", "(x: N) => (x == x)"},
		{"equality is decidable", readTestdata(t, "decidable.peano"), "(x: N) => (y: N) => ((x == y) || (x != y))"},
		{"generic with two params", `
type A<X extends N, P extends Prop> = X == X && P;
const p: A<3, 5 == 5> = eqRefl(3) && eqRefl(5);
return p;`, "((3 == 3) && (5 == 5))"},
		{"nested generics", `
type divides<d extends N, n extends N> = {d2: N; p: d2 * d == n};
type isPrime<n extends N> = !{d: N; p: d != 1 && d != n && divides<d, n>};
const lep: isPrime<7> = sorry;
return lep;`, "!( {d: N; p: (((d != 1) && (d != 7)) && {d2: N; p: ((d2 * d) == 7)})} )"},
		{"multi call", "return addSucc(3, 5);", "((3 + 6) == succ((3 + 5)))"},
		{"multi param lambda", "return (a: N, p: a + 1 + a == 3 + a): a == 2 => ring(p);",
			"(a: N) => (p: (((a + 1) + a) == (3 + a))) => (a == 2)"},
		{"multi param type", "const f: (a: N, p: a + 1 + a == 3 + a) => a==2 = (a,p) => ring(p);\nreturn f;",
			"(a: N) => (p: (((a + 1) + a) == (3 + a))) => (a == 2)"},
		{"projection call", `
const a: ((_: 0 == 0) => 0 == 0) && 0 == 0 = (p => p) && eqRefl(0);
return a.left(eqRefl(0));`, "(0 == 0)"},
		{"empty ring", "const a : 1 == 1 = ring();\nreturn a;", "(1 == 1)"},
		{"function syntax", `
function hi ( x : N ): x == x {
  return eqRefl(x);
}
return hi;`, "(x: N) => (x == x)"},
		{"excluded middle", "return excludedMiddle<0==0>;", "((0 == 0) || (0 != 0))"},
		{"arithmetic bound", `
const a = 3;
return for(let i=0; let p: i == i = eqRefl(0); i < a; i++){
  continue eqRefl(succ(i));
};`, "(3 == 3)"},
		{"comma in struct type", "const a: {x: N, p: x == x} = {x: 3, p: eqRefl(3)};\nreturn a;", "{x: N; p: (x == x)}"},
		{"and literal", "const a: 0 == 0 && 1 == 1 = {left: eqRefl(0), right: eqRefl(1)};\nreturn a;", "((0 == 0) && (1 == 1))"},
		{"replace", `
type isDouble<k extends N> = k == 2 * 1;
const r = replace<isDouble>(2)(1 + 1)(ring());
return r;`, "(propOfL: (2 == (2 * 1))) => ((1 + 1) == (2 * 1))"},
		{"replaceAll", `
const f = (x: N) => (e: x == 2) => replaceAll(eqRefl(x))(e);
return f;`, "(x: N) => (e: (x == 2)) => (2 == 2)"},
		{"top level without return", "const a = 3;", "any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := typeOf(t, tt.src); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestEqMethods(t *testing.T) {
	typeOf(t, `const hej: (succ((1 + 2)) == (1 + 3)) = addSucc(1,2).symm();
const hi = ring() as 1+1+1 == 2+1;
const nice: 1+1+1 == 3 = hi.trans(ring() as 2+1 == 3);
const lul: succ(1 + 0) == 2 = addZero(1).map(succ);`)
}

func TestPrimesProgram(t *testing.T) {
	start := time.Now()
	typeOf(t, readTestdata(t, "primes.peano"))
	t.Logf("checked in %s", time.Since(start))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"unknown variable", "return x;", diag.SemaUnknownVariable, "unknown variable x"},
		{"not assignable", "const a: 0 == 1 = eqRefl(0);\nreturn a;", diag.SemaNotAssignable,
			"type\n(0 == 0)\nis not assignable to type\n(0 == 1)"},
		{"missing return", "const f = (x: N) => { const y = x; };\nreturn f;", diag.SemaMissingReturn,
			"statement must end in a return"},
		{"arithmetic on a proof", "return 1 + eqRefl(0);", diag.SemaShapeMismatch,
			"right of + must be arithmetic, got (0 == 0)"},
		{"makeLeft without requirement", "return makeLeft(eqRefl(0));", diag.SemaUnconstrained,
			"makeLeft needs an assertion or a type parameter"},
		{"destructuring unknown field", "const {b, q} = {b: 1, p: eqRefl(1) as b == b};", diag.SemaBadDestructuring,
			`destructuring assignment failed, "q" not in struct {b: N; p: (b == b)}`},
		{"unknown generic", "return foo<0 == 0>;", diag.SemaUnknownGeneric, "unknown generic foo"},
		{"switch on equality", `
return match(eqRefl(0)){
  case {left: a}: break a;
  case {right: b}: break b;
};`, diag.SemaShapeMismatch, "switch value must be ||, got (0 == 0)"},
		{"unconstrained lambda", "return x => x;", diag.SemaUnconstrained, "unconstrained argument type"},
		{"unconstrained induction", `
return for(let i=0; let p = eqRefl(0); i < 3; i++){
  continue eqRefl(0);
};`, diag.SemaUnconstrained, `could not constrain the proof variable type. Add a type annotation on "p"`},
		{"trans mismatch", "return eqRefl(0).trans(eqRefl(1));", diag.SemaNotAssignable,
			"in eq1.trans(eq2), the right side of eq1 must match the left side of eq2. Got eq1=(0 == 0) and eq2=(1 == 1)"},
		{"symm on a number", "const a = 3;\nreturn a.symm();", diag.SemaShapeMismatch, `.symm can only be called on an equality, got "3"`},
		{"call a number", "const a = 3;\nreturn a(4);", diag.SemaShapeMismatch, "left of call must be a function. Got a 3"},
		{"type in expression", "type T = 0 == 0;\nreturn T;", diag.SemaBadTypeExpr, "can't use a type in expression context"},
		{"projection of a number", "const a = 3;\nreturn a.left;", diag.SemaShapeMismatch, "Only equalities and && object have . , got 3"},
		{"replace with a non generic", "type T = 0 == 0;\nreturn replace<T>;", diag.SemaBuiltinMisuse, "T is not a generic typedef"},
		{"bad generic constraint", "type G<x extends Foo> = x == x;", diag.SemaBadTypeExpr, "generic typedef parameter must be N or Prop"},
		{"ring of a number", "return ring(3);", diag.SemaShapeMismatch, "ring argument must be a ==, got 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := checkProgram(t, tt.src, Options{})
			errs := res.Records.Errors()
			for _, e := range errs {
				if e.Message == tt.msg {
					if e.Code != tt.code {
						t.Fatalf("code = %v, want %v", e.Code, tt.code)
					}
					return
				}
			}
			var got []string
			for _, e := range errs {
				got = append(got, e.Message)
			}
			t.Fatalf("no error %q among %q", tt.msg, got)
		})
	}
}

func TestWrongReturnKindHasFix(t *testing.T) {
	src := "const f = (x: N) => { continue eqRefl(x); };\nreturn f;"
	res := checkProgram(t, src, Options{})
	errs := res.Records.Errors()
	if len(errs) != 1 {
		t.Fatalf("want one error, got %v", errs)
	}
	e := errs[0]
	if e.Code != diag.SemaWrongReturnKind || e.Fix == nil || e.Fix.ReplaceWith != "return" {
		t.Fatalf("unexpected record %+v", e)
	}
	if got := src[e.Meta.Start:e.Meta.End]; got != "continue" {
		t.Fatalf("error should cover the keyword, got %q", got)
	}
	// the block is still checked
	if got := types.Unparse(res.Type); got != "(x: N) => (x == x)" {
		t.Fatalf("type = %s", got)
	}
}

func TestErrorRecovers(t *testing.T) {
	res := checkProgram(t, "const a: 0 == 0 = eqRefl(1);\nconst b = a;\nreturn b;", Options{})
	if n := len(res.Records.Errors()); n != 1 {
		t.Fatalf("want exactly one error, got %d", n)
	}
	if got := types.Unparse(res.Type); got != "(0 == 0)" {
		t.Fatalf("the assertion should win after an error, got %s", got)
	}
}

func TestHoverAndBindingRecords(t *testing.T) {
	src := "const f = (x: N) => eqRefl(x);\nconst y = 3;\nreturn y;"
	res := checkProgram(t, src, Options{})
	var hovers, defined []Record
	for _, r := range res.Records.All() {
		switch r.Kind {
		case RecordVarHover:
			hovers = append(hovers, r)
		case RecordVarDefined:
			defined = append(defined, r)
		}
	}
	hoverAt := func(text string) string {
		for _, h := range hovers {
			if src[h.Meta.Start:h.Meta.End] == text {
				return h.Type
			}
		}
		return ""
	}
	if got := hoverAt("f"); got != "(x: N) => (x == x)" {
		t.Errorf("hover f = %q", got)
	}
	if got := hoverAt("y"); got != "3" {
		t.Errorf("hover y = %q", got)
	}
	if len(defined) != 1 || defined[0].Name != "x" || defined[0].Type != "x" {
		t.Fatalf("defined records: %+v", defined)
	}
	if got := src[defined[0].Meta.Start:defined[0].Meta.End]; got != "eqRefl(x)" {
		t.Fatalf("x should be in scope over the body, got %q", got)
	}
}

func TestRequiredRecords(t *testing.T) {
	src := "const a: 0 == 0 = sorry;"
	res := checkProgram(t, src, Options{})
	for _, r := range res.Records.All() {
		if r.Kind == RecordRequired && src[r.Meta.Start:r.Meta.End] == "sorry" {
			if r.Type != "(0 == 0)" || r.Method != ast.KindValue {
				t.Fatalf("goal record %+v", r)
			}
			return
		}
	}
	t.Fatal("no goal recorded for sorry")
}

func TestExercise(t *testing.T) {
	goal := resolve.MustFromString("(x: N) => x + 0 == x")
	tests := []struct {
		name string
		src  string
		want ExerciseResult
	}{
		{"solved", "const thm: (x: N) => x + 0 == x = x => addZero(x);",
			ExerciseResult{VarDefined: true, VarCorrectlyTyped: true}},
		{"sorry", "const thm: (y: N) => y + 0 == y = sorry;",
			ExerciseResult{SorryUsed: true, VarDefined: true, VarCorrectlyTyped: true}},
		{"wrong statement", "const thm = eqRefl(0);",
			ExerciseResult{VarDefined: true}},
		{"missing", "const other = eqRefl(0);", ExerciseResult{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := checkProgram(t, tt.src, Options{Exercise: &Exercise{VarName: "thm", Type: goal}})
			if *res.Exercise != tt.want {
				t.Fatalf("got %+v, want %+v", *res.Exercise, tt.want)
			}
		})
	}
}

func waitLogs(t *testing.T, res *Result) []LogResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var out []LogResult
	for _, slot := range res.Records.Logs() {
		r, err := slot.Wait(ctx)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, r)
	}
	return out
}

func TestConsoleLog(t *testing.T) {
	src := `
console.log(3, eqRefl(2));
const e = {b: 1, p: eqRefl(1) as b == b};
print(e);
const bad = succNotZero(0)(sorry);
console.log(bad);
const f = (x: N) => {
  console.log(x);
  return eqRefl(x);
};
`
	res := checkProgram(t, src, Options{})
	got := waitLogs(t, res)
	want := []LogResult{
		{Text: "3"},
		{Text: "(eq)"},
		{Text: "{b: 1, p: (eq)}"},
		{Text: "runtimeError: succNotZero called", IsError: true},
		{Text: "console.log only works at the top level of code", IsError: true},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d logs: %+v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("log %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLogOfIllTypedTerm(t *testing.T) {
	res := checkProgram(t, "console.log(nope);", Options{})
	got := waitLogs(t, res)
	if len(got) != 1 || !got[0].IsError || got[0].Text != "couldn't create implementation: type error" {
		t.Fatalf("got %+v", got)
	}
	if !res.Records.HasErrors() {
		t.Fatal("the type error must be recorded too")
	}
}

func TestKilledLoop(t *testing.T) {
	kill := value.NewKillSwitch()
	kill.Kill()
	res := checkProgram(t, `
const big = for(let i=0; let p: i == i = eqRefl(0); i < 1000; i++){
  continue eqRefl(succ(i));
};
console.log(big);`, Options{Kill: kill})
	got := waitLogs(t, res)
	if len(got) != 1 || !got[0].IsError || got[0].Text != value.ErrKilled.Error() {
		t.Fatalf("got %+v", got)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"exists", "return {a: 3, b: addZero(3) as a + 0 == 3};", "{a: 3, b: (eq)}"},
		{"loop", `
const a = 3;
return for(let i=0; let p: i == i = eqRefl(0); i < a; i++){
  continue eqRefl(succ(i));
};`, "(eq)"},
		{"switch", `
const a = makeRight<0 == 1 || 0 == 0>(eqRefl(0));
return match(a){
  case {left: c}: break {n: 1, p: eqRefl(1) as n == n};
  case {right: c}: break {n: 2, p: eqRefl(2) as n == n};
};`, "{n: 2, p: (eq)}"},
		{"arithmetic", "return 2 * 3 + 1;", "7"},
		{"top level", "const a = 3;", "1337"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := checkProgram(t, tt.src, Options{})
			v, err := res.Impl(context.Background(), axioms.Env())
			if err != nil {
				t.Fatal(err)
			}
			if got := value.Format(v, res.Type); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHardcodedImpls(t *testing.T) {
	src := readTestdata(t, "decidable.peano")
	src = strings.Replace(src, "return decEq;", `
console.log(decEq(3)(3), decEq(3)(4), zeroOrNot(0), zeroOrNotRev(2));
`, 1)
	want := []string{"{left: (eq)}", "{right: (func)}", "{left: (eq)}", "{right: 2}"}
	for _, hard := range []bool{false, true} {
		res := checkProgram(t, src, Options{HardcodedImpls: hard})
		if res.Records.HasErrors() {
			t.Fatalf("errors: %v", res.Records.Errors())
		}
		got := waitLogs(t, res)
		for i, w := range want {
			if hard || i != 3 {
				if got[i].Text != w {
					t.Errorf("hardcoded=%v log %d = %+v, want %s", hard, i, got[i], w)
				}
			}
		}
	}
}

func TestLogSlotElapsed(t *testing.T) {
	release := make(chan struct{})
	slot := newLogSlot(func(context.Context) (string, error) {
		<-release
		return "done", nil
	})
	if _, ok := slot.Result(); ok {
		t.Fatal("unstarted slot has a result")
	}
	if slot.Elapsed() != 0 {
		t.Fatal("unstarted slot has elapsed time")
	}
	slot.Start(context.Background())
	close(release)
	r, err := slot.Wait(context.Background())
	if err != nil || r.Text != "done" {
		t.Fatalf("got %+v, %v", r, err)
	}
	if slot.Seconds() != 0 {
		t.Fatalf("seconds = %d", slot.Seconds())
	}
}
