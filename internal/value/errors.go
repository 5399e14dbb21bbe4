package value

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrKilled is returned by evaluations stopped through a KillSwitch.
var ErrKilled = errors.New("runtimer error: interpreter execution was killed")

// RuntimeError is a failure of a well-typed program at run time, for example
// a call to an axiom without a constructive realizer.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

func Errorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// KillSwitch stops a running evaluation at its next loop iteration. The
// zero value is armed and usable; a nil switch never fires.
type KillSwitch struct {
	killed atomic.Bool
}

func NewKillSwitch() *KillSwitch { return &KillSwitch{} }

func (k *KillSwitch) Kill() {
	if k != nil {
		k.killed.Store(true)
	}
}

func (k *KillSwitch) Killed() bool {
	return k != nil && k.killed.Load()
}

// Check returns ErrKilled once the switch fired, or the context error once
// ctx is done.
func (k *KillSwitch) Check(ctx context.Context) error {
	if k.Killed() {
		return ErrKilled
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrKilled, err)
	}
	return nil
}
