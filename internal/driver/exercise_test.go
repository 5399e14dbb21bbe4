package driver

import (
	"context"
	"strings"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/sema"
)

func TestExerciseVerdict(t *testing.T) {
	ex := &Exercise{VarName: "f", TypeSource: "(y: N) => y == y"}
	tests := []struct {
		name   string
		res    sema.ExerciseResult
		want   string
		solved bool
	}{
		{"missing", sema.ExerciseResult{}, "f is not defined", false},
		{"mistyped", sema.ExerciseResult{VarDefined: true}, "does not have type (y: N) => y == y", false},
		{"sorry", sema.ExerciseResult{VarDefined: true, VarCorrectlyTyped: true, SorryUsed: true}, "sorry", false},
		{"solved", sema.ExerciseResult{VarDefined: true, VarCorrectlyTyped: true}, "f solved", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.res
			msg, solved := (&Result{Exercise: &r}).ExerciseVerdict(ex)
			if solved != tt.solved || !strings.Contains(msg, tt.want) {
				t.Errorf("verdict = %q, %v", msg, solved)
			}
		})
	}

	if msg, solved := (&Result{}).ExerciseVerdict(ex); msg != "" || solved {
		t.Errorf("no exercise result: %q %v", msg, solved)
	}
}

func TestExerciseVerdictFromCompile(t *testing.T) {
	ex := &Exercise{VarName: "g", TypeSource: "(y: N) => y == y"}
	res, err := Compile(context.Background(), "function f(x: N): x == x { return eqRefl(x); }", Options{}, ex, nil)
	if err != nil {
		t.Fatal(err)
	}
	if msg, solved := res.ExerciseVerdict(ex); solved || !strings.Contains(msg, "g is not defined") {
		t.Errorf("verdict = %q, %v", msg, solved)
	}
}
