package parser

import (
	"errors"
	"fmt"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/earley"
	"github.com/mjgrzymek/PeanoScript/internal/lexer"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

// Start selects the grammar entry point.
type Start uint8

const (
	StartCode  Start = iota // a statement list
	StartExpr               // a single expression
	StartLogic              // a single type
)

func (s Start) symbol() string {
	switch s {
	case StartExpr:
		return "expr"
	case StartLogic:
		return "logic"
	}
	return "code"
}

func (s Start) String() string { return s.symbol() }

// ParseStart maps "code", "expr" and "logic" to a Start.
func ParseStart(name string) (Start, error) {
	switch name {
	case "code":
		return StartCode, nil
	case "expr":
		return StartExpr, nil
	case "logic":
		return StartLogic, nil
	}
	return 0, fmt.Errorf("unknown start symbol %q (want code, expr or logic)", name)
}

type Options struct {
	// Reporter receives lexical diagnostics as they happen. May be nil.
	Reporter diag.Reporter
}

// Parse lexes and parses file from start. The first lexical error aborts
// the parse; there is no partial tree.
func Parse(file *source.File, start Start, opts Options) (ast.Node, error) {
	rep := &firstError{next: opts.Reporter}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	if rep.err != nil {
		return nil, rep.err
	}
	return ParseTokens(toks, start)
}

// ParseCode parses a program. The returned block is marked TopLevel.
func ParseCode(file *source.File, opts Options) (*ast.Block, error) {
	n, err := Parse(file, StartCode, opts)
	if err != nil {
		return nil, err
	}
	return n.(*ast.Block), nil
}

func ParseExpr(file *source.File, opts Options) (ast.Expr, error) {
	n, err := Parse(file, StartExpr, opts)
	if err != nil {
		return nil, err
	}
	return n.(ast.Expr), nil
}

func ParseLogic(file *source.File, opts Options) (ast.Type, error) {
	n, err := Parse(file, StartLogic, opts)
	if err != nil {
		return nil, err
	}
	return n.(ast.Type), nil
}

// ParseTypeString parses a standalone type such as an axiom signature.
func ParseTypeString(src string) (ast.Type, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<type>", []byte(src))
	return ParseLogic(fs.Get(id), Options{})
}

// ParseTokens runs the parser over an already lexed stream. A trailing EOF
// token is optional.
func ParseTokens(toks []token.Token, start Start) (ast.Node, error) {
	var end source.Span
	if n := len(toks); n > 0 {
		last := toks[n-1]
		end = source.Span{File: last.Span.File, Start: last.Span.End, End: last.Span.End}
		if last.Kind == token.EOF {
			toks = toks[:n-1]
		}
	}
	whole := end
	if len(toks) > 0 {
		whole = toks[0].Span.Cover(end)
	}

	res, err := grammar.Parse(start.symbol(), toks)
	if err != nil {
		var ute *earley.UnexpectedTokenError[token.Token]
		var se *SyntaxError
		switch {
		case errors.Is(err, earley.ErrNoParse):
			return nil, &UnexpectedEOFError{Span: end}
		case errors.Is(err, earley.ErrAmbiguous):
			return nil, &AmbiguityError{Span: whole}
		case errors.As(err, &ute):
			return nil, &UnexpectedTokenError{Token: ute.Token, Expected: ute.Expected}
		case errors.As(err, &se):
			return nil, se
		}
		return nil, fmt.Errorf("parse %s: %w", start, err)
	}
	node := res.(ast.Node)
	if b, ok := node.(*ast.Block); ok && start == StartCode {
		b.TopLevel = true
	}
	return node, nil
}

// firstError forwards lexical diagnostics and remembers the first error.
type firstError struct {
	next diag.Reporter
	err  *SyntaxError
}

func (r *firstError) Report(d diag.Diagnostic) {
	diag.Emit(r.next, d)
	if d.Severity == diag.SevError && r.err == nil {
		r.err = &SyntaxError{Code: d.Code, Span: d.Primary, Msg: d.Message}
	}
}
