package sema

import (
	"context"
	"fmt"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/axioms"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

func TestRingConversion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ok   bool
	}{
		{"closed sum", "const a: 1 + 1 == 2 = ring();", true},
		{"closed sum off by one", "const a: 1 + 1 == 3 = ring();", false},
		{"distributivity", "const f = (x: N): x * (x + 1) == x * x + x => ring();", true},
		{"distributivity off by one", "const f = (x: N): x * 2 == x + x + 1 => ring();", false},
		{"from hypothesis", "const f = (x: N) => (p: x + 0 == 3): x == 3 => ring(p);", true},
		{"from wrong hypothesis", "const f = (x: N) => (p: x + 1 == 3): x == 3 => ring(p);", false},
		{"swapped sides", "const f = (x: N) => (p: 3 == x + 0): x == 3 => ring(p);", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := checkProgram(t, tt.src, Options{}).Records.Errors()
			if tt.ok {
				for _, e := range errs {
					t.Errorf("unexpected error: %s", e.Message)
				}
				return
			}
			if len(errs) != 1 || errs[0].Code != diag.SemaNotAssignable {
				t.Fatalf("want one not-assignable error, got %+v", errs)
			}
		})
	}
}

func TestRingPassesProofThrough(t *testing.T) {
	res := checkProgram(t, "const p: 2 == 2 = eqRefl(2);\nreturn ring(p);", Options{})
	if errs := res.Records.Errors(); len(errs) != 0 {
		t.Fatalf("errors: %+v", errs)
	}
	v, err := res.Impl(context.Background(), axioms.Env())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(value.Witness); !ok {
		t.Fatalf("ring(p) evaluated to %T", v)
	}
}

const inductionTemplate = `
return for(let i=0; let p: 0 + i == i = addZero(0); i < %d; i++){
  const h = eqMap(succ)(p);
  const r = addSucc(0)(i);
  continue eqTrans(0 + succ(i))(succ(0+i))(succ(i))(r)(h);
};`

func TestInductionUnrolls(t *testing.T) {
	for k := 0; k <= 50; k++ {
		src := fmt.Sprintf(inductionTemplate, k)
		res := checkProgram(t, src, Options{})
		if errs := res.Records.Errors(); len(errs) != 0 {
			t.Fatalf("bound %d: errors %+v", k, errs)
		}
		if got, want := types.Unparse(res.Type), fmt.Sprintf("((0 + %d) == %d)", k, k); got != want {
			t.Fatalf("bound %d: type %s, want %s", k, got, want)
		}
		v, err := res.Impl(context.Background(), axioms.Env())
		if err != nil {
			t.Fatalf("bound %d: %v", k, err)
		}
		if got := value.Format(v, res.Type); got != "(eq)" {
			t.Fatalf("bound %d: value %s", k, got)
		}
	}
}

func TestInductionRejectsBadBaseAndStep(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"base proves the wrong instance", `
return for(let i=0; let p: i == i = eqRefl(1); i < 3; i++){
  continue eqRefl(succ(i));
};`},
		{"step repeats the hypothesis", `
return for(let i=0; let p: i == i = eqRefl(0); i < 3; i++){
  continue p;
};`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := checkProgram(t, tt.src, Options{}).Records.Errors(); len(errs) == 0 {
				t.Fatal("accepted")
			}
		})
	}
}

func TestCurriedFormsAgree(t *testing.T) {
	tests := []struct {
		name             string
		multi, curried string
	}{
		{"call",
			"return eqTrans(1+1, succ(1+0), 2, addSucc(1)(0), eqMap(succ)(addZero(1)));",
			"return eqTrans(1+1)(succ(1+0))(2)(addSucc(1)(0))(eqMap(succ)(addZero(1)));"},
		{"lambda",
			"const f = (a: N, b: N) => eqRefl(a + b);\nreturn f;",
			"const f = (a: N) => (b: N) => eqRefl(a + b);\nreturn f;"},
		{"partial application",
			"const f = (a: N, b: N) => eqRefl(a + b);\nreturn f(1, 2);",
			"const f = (a: N) => (b: N) => eqRefl(a + b);\nreturn f(1)(2);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a, b := typeOf(t, tt.multi), typeOf(t, tt.curried); a != b {
				t.Fatalf("multi-argument form %s, curried form %s", a, b)
			}
		})
	}
}

func TestErrorKeepsNeighbourRecords(t *testing.T) {
	src := "const a = 3;\nconst b: 0 == 1 = eqRefl(0);\nconst f = (x: N) => eqRefl(x);\nconst c = a;"
	res := checkProgram(t, src, Options{})
	if errs := res.Records.Errors(); len(errs) != 1 {
		t.Fatalf("errors: %+v", errs)
	}
	hovers := map[string]string{}
	var defined []string
	for _, r := range res.Records.All() {
		switch r.Kind {
		case RecordVarHover:
			hovers[src[r.Meta.Start:r.Meta.End]] = r.Type
		case RecordVarDefined:
			defined = append(defined, r.Name)
		}
	}
	for name, want := range map[string]string{"a": "3", "b": "(0 == 1)", "f": "(x: N) => (x == x)", "c": "3"} {
		if got := hovers[name]; got != want {
			t.Errorf("hover %s = %q, want %q", name, got, want)
		}
	}
	if len(defined) != 1 || defined[0] != "x" {
		t.Errorf("defined = %v", defined)
	}
}

func TestFailedSwitchStatementKeepsChecking(t *testing.T) {
	src := `const f = (x: N): x == x => {
  match(eqRefl(0)){
    case {left: a}: return a;
    case {right: b}: return b;
  }
  const y = x;
  return eqRefl(y);
};`
	res := checkProgram(t, src, Options{})
	errs := res.Records.Errors()
	if len(errs) != 1 || errs[0].Code != diag.SemaShapeMismatch {
		t.Fatalf("errors: %+v", errs)
	}
	var sawY bool
	for _, r := range res.Records.All() {
		if r.Kind == RecordVarDefined && r.Name == "y" {
			sawY = r.Type == "x"
		}
	}
	if !sawY {
		t.Fatal("statements after the failed switch were not checked")
	}
}

func TestReplaceAvoidsCapture(t *testing.T) {
	src := "const f = (L: N) => {\n  type G<x extends N> = x == L;\n  return replace<G>;\n};\nreturn f;"
	res := checkProgram(t, src, Options{})
	if errs := res.Records.Errors(); len(errs) != 0 {
		t.Fatalf("errors: %+v", errs)
	}
	outer, ok := res.Type.(types.Arrow)
	if !ok {
		t.Fatalf("type %s", types.Unparse(res.Type))
	}
	inner, ok := outer.Cod.(types.Arrow)
	if !ok || inner.Name == "L" {
		t.Fatalf("replace binder captures the free L: %s", types.Unparse(res.Type))
	}
	if !types.FreeIn("L", outer.Cod) {
		t.Fatalf("the outer L disappeared: %s", types.Unparse(outer.Cod))
	}
}

func TestReplaceNeedsArithmeticParameter(t *testing.T) {
	res := checkProgram(t, "type G<p extends Prop> = p;\nreturn replace<G>;", Options{})
	errs := res.Records.Errors()
	if len(errs) != 1 || errs[0].Message != "G's argument must be N" {
		t.Fatalf("errors: %+v", errs)
	}
}
