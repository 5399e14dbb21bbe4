package value

import (
	"context"
	"errors"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/types"
)

func TestFormat(t *testing.T) {
	st := types.Struct{NumName: "b", PropName: "p", Prop: types.Or{L: types.Never{}, R: types.Never{}}}
	tests := []struct {
		name string
		v    Value
		t    types.Type
		want string
	}{
		{"nat", NatOf(42), nil, "42"},
		{"witness", EqWitness, nil, "(eq)"},
		{"func", Func(func(context.Context, Value) (Value, error) { return nil, nil }), nil, "(func)"},
		{"pair", Pair{Left: EqWitness, Right: SorryWitness}, nil, "{left: (eq), right: (sorry)}"},
		{"left", Left{X: EqWitness}, nil, "{left: (eq)}"},
		{"right", Right{X: NatOf(1)}, nil, "{right: 1}"},
		{"exists named", Exists{Num: NatOf(3).N, Prop: Right{X: EqWitness}}, st, "{b: 3, p: {right: (eq)}}"},
		{"exists unnamed", Exists{Num: NatOf(0).N, Prop: EqWitness}, nil, "{@num: 0, @prop: (eq)}"},
		{"nested exists in and",
			Pair{Left: Exists{Num: NatOf(1).N, Prop: EqWitness}, Right: EqWitness},
			types.And{L: st, R: types.Never{}},
			"{left: {b: 1, p: (eq)}, right: (eq)}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.v, tt.t); got != tt.want {
				t.Fatalf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnv(t *testing.T) {
	base := NewEnv(map[string]Value{"a": NatOf(1)})
	shadow := base.With("a", NatOf(2))
	if v, _ := shadow.Lookup("a"); v.(Nat).N.String() != "2" {
		t.Fatal("innermost binding should win")
	}
	if v, _ := base.Lookup("a"); v.(Nat).N.String() != "1" {
		t.Fatal("parent must be unaffected")
	}
	if _, ok := base.Lookup("b"); ok {
		t.Fatal("unexpected binding")
	}
}

func TestCurry(t *testing.T) {
	f := Curry(3, func(_ context.Context, args []Value) (Value, error) {
		return Pair{Left: args[0], Right: args[2]}, nil
	})
	ctx := context.Background()
	v := f
	for _, arg := range []Value{NatOf(1), NatOf(2), NatOf(3)} {
		fn, ok := v.(Func)
		if !ok {
			t.Fatalf("expected a function, got %T", v)
		}
		var err error
		if v, err = fn(ctx, arg); err != nil {
			t.Fatal(err)
		}
	}
	if got := Format(v, nil); got != "{left: 1, right: 3}" {
		t.Fatalf("got %s", got)
	}
}

func TestKillSwitch(t *testing.T) {
	ctx := context.Background()
	var nilSwitch *KillSwitch
	if err := nilSwitch.Check(ctx); err != nil {
		t.Fatalf("nil switch fired: %v", err)
	}
	k := NewKillSwitch()
	if err := k.Check(ctx); err != nil {
		t.Fatalf("fresh switch fired: %v", err)
	}
	k.Kill()
	if err := k.Check(ctx); !errors.Is(err, ErrKilled) {
		t.Fatalf("expected ErrKilled, got %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := NewKillSwitch().Check(cancelled)
	if !errors.Is(err, ErrKilled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a killed, cancelled error, got %v", err)
	}
}
