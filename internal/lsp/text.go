package lsp

import "unicode/utf8"

// applyChanges applies full and ranged content changes in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := offsetForPosition(text, change.Range.End)
		start = min(max(start, 0), len(text))
		end = min(max(end, start), len(text))
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps a UTF-16 position to a byte offset in text. Past the
// end of a line it clamps to the newline; past the last line, to len(text).
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	return i + utf16Advance(text[i:], pos.Character)
}

// utf16Advance returns how many bytes of the first line of s cover units
// UTF-16 code units. A surrogate pair is never split.
func utf16Advance(s string, units int) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == '\n' {
			return i
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if n+need > units {
			return i
		}
		n += need
		i += size
	}
	return len(s)
}
