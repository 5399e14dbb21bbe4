package axioms

import (
	"context"
	"errors"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/types"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

func TestSignaturesResolve(t *testing.T) {
	want := map[string]string{
		"eqRefl":      "(x: N) => (x == x)",
		"eqSym":       "(x: N) => (y: N) => (eqXY: (x == y)) => (y == x)",
		"eqTrans":     "(x: N) => (y: N) => (z: N) => (eqXY: (x == y)) => (eqYZ: (y == z)) => (x == z)",
		"succInj":     "(x: N) => (y: N) => (eqSuccXY: (succ(x) == succ(y))) => (x == y)",
		"succNotZero": "(x: N) => (succ(x) != 0)",
		"addZero":     "(x: N) => ((x + 0) == x)",
		"addSucc":     "(x: N) => (y: N) => ((x + succ(y)) == succ((x + y)))",
		"mulZero":     "(x: N) => ((x * 0) == 0)",
		"mulSucc":     "(x: N) => (y: N) => ((x * succ(y)) == ((x * y) + x))",
	}
	for name, sig := range want {
		got, ok := Type(name)
		if !ok {
			t.Fatalf("missing axiom %s", name)
		}
		if types.Unparse(got) != sig {
			t.Errorf("%s: got %s, want %s", name, types.Unparse(got), sig)
		}
	}
	if len(Names()) != 9 {
		t.Fatalf("Names() = %v", Names())
	}
}

func TestScope(t *testing.T) {
	s := Scope()
	if e, ok := s.Lookup("any"); !ok || e.Kind != types.KindTypedef || !types.IsAny(e.Type) {
		t.Fatalf("any typedef: %+v", e)
	}
	if e, ok := s.Lookup("eqSymm"); !ok || e.Kind != types.KindProof {
		t.Fatal("eqSymm alias missing")
	}
	sym, _ := s.Lookup("eqSym")
	symm, _ := s.Lookup("eqSymm")
	if !types.Equal(sym.Type, symm.Type) {
		t.Fatal("eqSymm must have the same type as eqSym")
	}
}

func apply(t *testing.T, v value.Value, args ...value.Value) (value.Value, error) {
	t.Helper()
	for _, a := range args {
		fn, ok := v.(value.Func)
		if !ok {
			t.Fatalf("expected a function, got %T", v)
		}
		var err error
		if v, err = fn(context.Background(), a); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func TestRealizers(t *testing.T) {
	env := Env()
	lookup := func(name string) value.Value {
		v, ok := env.Lookup(name)
		if !ok {
			t.Fatalf("missing realizer %s", name)
		}
		return v
	}
	n := value.NatOf(1)
	marker := value.Left{X: value.EqWitness}

	if got, err := apply(t, lookup("eqRefl"), n); err != nil || got != value.EqWitness {
		t.Fatalf("eqRefl: %v, %v", got, err)
	}
	if got, err := apply(t, lookup("eqSym"), n, n, marker); err != nil || got != marker {
		t.Fatalf("eqSym: %v, %v", got, err)
	}
	if got, err := apply(t, lookup("eqTrans"), n, n, n, marker, value.EqWitness); err != nil || got != marker {
		t.Fatalf("eqTrans should return its first proof: %v, %v", got, err)
	}
	if got, err := apply(t, lookup("mulSucc"), n, n); err != nil || got != value.EqWitness {
		t.Fatalf("mulSucc: %v, %v", got, err)
	}
	_, err := apply(t, lookup("succNotZero"), n, value.EqWitness)
	var re *value.RuntimeError
	if !errors.As(err, &re) || re.Msg != "runtimeError: succNotZero called" {
		t.Fatalf("succNotZero: %v", err)
	}
}
