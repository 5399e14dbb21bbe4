package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

// scanNumber reads [0-9]+. Numerals have no size limit; the parser turns the
// text into a bignum.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.Num, start)
}

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.cursor.EatString("==="), lx.cursor.EatString("=="):
		return lx.emit(token.EqEq, start)
	case lx.cursor.EatString("!=="), lx.cursor.EatString("!="):
		return lx.emit(token.BangEq, start)
	case lx.cursor.EatString("=>"):
		return lx.emit(token.FatArrow, start)
	case lx.cursor.EatString("++"):
		return lx.emit(token.PlusPlus, start)
	case lx.cursor.EatString("&&"):
		return lx.emit(token.AndAnd, start)
	case lx.cursor.EatString("||"):
		return lx.emit(token.OrOr, start)
	}

	switch lx.cursor.Bump() {
	case ':':
		return lx.emit(token.Colon, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '!':
		return lx.emit(token.Bang, start)
	case '+':
		return lx.emit(token.Plus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '=':
		return lx.emit(token.Assign, start)
	}

	// неизвестный символ: consume the whole rune so the span is printable
	lx.cursor.Reset(start)
	_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	for range max(size, 1) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("invalid syntax: unexpected character %q", tok.Text))
	return tok
}
