package earley

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoParse means the whole input was consumed but no derivation of the
	// start symbol ends there.
	ErrNoParse = errors.New("earley: input ended before a complete parse")
	// ErrAmbiguous means the input has more than one derivation.
	ErrAmbiguous = errors.New("earley: ambiguous input")
)

// UnexpectedTokenError is returned when no item survives scanning the token
// at Index.
type UnexpectedTokenError[T any] struct {
	Index    int
	Token    T
	Expected []string
}

func (e *UnexpectedTokenError[T]) Error() string {
	msg := fmt.Sprintf("earley: unexpected token %v at %d", e.Token, e.Index)
	if len(e.Expected) > 0 {
		msg += " (expected " + strings.Join(e.Expected, ", ") + ")"
	}
	return msg
}
