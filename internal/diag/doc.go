// Package diag defines the diagnostic model shared by the lexer, parser,
// checker and driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier (codes.go). Ranges: LEX 1000s,
//     SYN 2000s, SEM 3000s, RUN 4000s, IO 5000s.
//   - Message: the checker's text verbatim. Checker messages may span
//     several lines ("type\nX\nis not assignable to type\nY").
//   - Primary span: byte range into the normalized source.
//   - Notes and Fixes: optional. The checker's "replace with return" hint
//     is a Fix with a single edit.
//
// Package diag does no formatting beyond FormatShort; rendering lives in
// internal/diagfmt.
package diag
