package diag

import "github.com/mjgrzymek/PeanoScript/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// ReplaceWith builds the one-edit fix that swaps the text under sp.
func ReplaceWith(sp source.Span, text string) Fix {
	return Fix{
		Title: "replace with " + text,
		Edits: []FixEdit{{Span: sp, NewText: text}},
	}
}
