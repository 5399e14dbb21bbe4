package sema

import (
	"errors"
	"fmt"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/resolve"
	"github.com/mjgrzymek/PeanoScript/internal/types"
)

// Error is an elaboration failure. It becomes an error record at the node
// being checked.
type Error struct {
	Code diag.Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errorf(code diag.Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func codeOf(err error) diag.Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	if errors.Is(err, types.ErrNatNotValue) {
		return diag.SemaBadTypeExpr
	}
	return resolve.Code(err, diag.SemaError)
}
