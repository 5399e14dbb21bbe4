package driver

import "fmt"

// ExerciseVerdict summarizes Result.Exercise in one sentence. solved is true
// only when the variable is defined with the required type and no sorry was
// used. It returns "", false when the compile had no exercise.
func (r *Result) ExerciseVerdict(ex *Exercise) (msg string, solved bool) {
	if ex == nil || r.Exercise == nil {
		return "", false
	}
	switch e := r.Exercise; {
	case !e.VarDefined:
		return fmt.Sprintf("exercise: %s is not defined", ex.VarName), false
	case !e.VarCorrectlyTyped:
		return fmt.Sprintf("exercise: %s does not have type %s", ex.VarName, ex.TypeSource), false
	case e.SorryUsed:
		return fmt.Sprintf("exercise: %s is proved with sorry", ex.VarName), false
	}
	return fmt.Sprintf("exercise: %s solved", ex.VarName), true
}
