package parser

import (
	"fmt"
	"strings"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

// UnexpectedEOFError: the input ended before any complete parse.
type UnexpectedEOFError struct {
	Span source.Span // empty span at the end of the input
}

func (e *UnexpectedEOFError) Error() string {
	return "Unexpected end of code. Forgot a ; at the end?"
}

func (e *UnexpectedEOFError) Diagnostic() diag.Diagnostic {
	return diag.NewError(diag.SynUnexpectedEOF, e.Span, e.Error())
}

// AmbiguityError: the input has more than one parse. Always a grammar bug.
type AmbiguityError struct {
	Span source.Span
}

func (e *AmbiguityError) Error() string {
	return "Grammar ambiguity (parser bug). Try to add more parentheses."
}

func (e *AmbiguityError) Diagnostic() diag.Diagnostic {
	return diag.NewError(diag.SynAmbiguous, e.Span, e.Error())
}

// UnexpectedTokenError carries the first token no parse could continue with.
type UnexpectedTokenError struct {
	Token    token.Token
	Expected []string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("Unexpected token %q", e.Token.Text)
}

func (e *UnexpectedTokenError) Diagnostic() diag.Diagnostic {
	d := diag.NewError(diag.SynUnexpectedToken, e.Token.Span, e.Error())
	if len(e.Expected) > 0 {
		d = d.WithNote(e.Token.Span, "expected one of: "+strings.Join(e.Expected, " "))
	}
	return d
}

// SyntaxError is any other positioned front-end failure: lexical errors and
// malformed object literals.
type SyntaxError struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *SyntaxError) Error() string { return e.Msg }

func (e *SyntaxError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

// Diagnosable is implemented by every error this package returns.
type Diagnosable interface {
	error
	Diagnostic() diag.Diagnostic
}
