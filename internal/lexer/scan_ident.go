package lexer

import (
	"fmt"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

// scanIdentOrKeyword scans [a-zA-Z_][a-zA-Z0-9_]*. `console . log` (spaces
// around the dot allowed) and `print` both become a single ConsoleLog token.
// Inherited JavaScript property names (constructor, __proto__, ...) report
// LexIllegalIdent but still lex as Ident so the parser keeps going.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if text == "console" {
		if tok, ok := lx.tryConsoleLog(start); ok {
			return tok
		}
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}

	if token.IsIllegalIdent(text) {
		lx.errLex(diag.LexIllegalIdent, sp,
			fmt.Sprintf("Identifier %q is illegal because of reasons. Use a different name.", text))
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// tryConsoleLog is called with the cursor right after "console".
func (lx *Lexer) tryConsoleLog(start Mark) (token.Token, bool) {
	after := lx.cursor.Mark()
	for isAnySpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Eat('.') {
		for isAnySpace(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.EatString("log") && !isIdentContinueByte(lx.cursor.Peek()) {
			return lx.emit(token.ConsoleLog, start), true
		}
	}
	lx.cursor.Reset(after)
	return token.Token{}, false
}
