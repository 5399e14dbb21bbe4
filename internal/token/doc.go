// Package token defines lexical token kinds and trivia for PeanoScript.
// Invariants:
//   - Token.Text is the exact source slice, except ConsoleLog which keeps the
//     spelling the user wrote (`console . log` included).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace and comments never appear in the token stream; they are
//     attached to the next token as Leading trivia.
//   - `match` and `case` are identifiers; the grammar matches them by text,
//     so they stay usable as variable names.
package token
