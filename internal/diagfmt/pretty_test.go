package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

func prettyOf(t *testing.T, src string, d func(source.FileID) diag.Diagnostic, opts PrettyOpts) string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("proof.peano", []byte(src))
	bag := diag.NewBag(10)
	bag.Add(d(id))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, opts)
	return buf.String()
}

func TestPrettyCaretUnderSpan(t *testing.T) {
	out := prettyOf(t, "const a: 3 = 4;\n", func(id source.FileID) diag.Diagnostic {
		return diag.NewError(diag.SemaNotAssignable, source.Span{File: id, Start: 13, End: 14}, "Type 4 is not assignable to type 3")
	}, PrettyOpts{})

	want := strings.Join([]string{
		"proof.peano:1:14: ERROR SEM3002: Type 4 is not assignable to type 3",
		"  |",
		"1 | const a: 3 = 4;",
		"  | " + strings.Repeat(" ", 13) + "^",
		"",
	}, "\n")
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	src := "const α: 3 = β;"
	start := uint32(strings.Index(src, "β"))
	out := prettyOf(t, src, func(id source.FileID) diag.Diagnostic {
		return diag.NewError(diag.SemaUnknownVariable, source.Span{File: id, Start: start, End: start + 2}, "Unknown variable β")
	}, PrettyOpts{})
	lines := strings.Split(out, "\n")
	if len(lines) < 4 {
		t.Fatalf("short output:\n%s", out)
	}
	if want := "  | " + strings.Repeat(" ", 13) + "^"; lines[3] != want {
		t.Errorf("caret line %q, want %q", lines[3], want)
	}
}

func TestPrettyMultilineMessageNotesAndFixes(t *testing.T) {
	src := "const f = (x: N) => {\n  break eqRefl(x);\n};\n"
	start := uint32(strings.Index(src, "break"))
	sp := source.Span{Start: start, End: start + 5}
	out := prettyOf(t, src, func(id source.FileID) diag.Diagnostic {
		sp.File = id
		return diag.NewError(diag.SemaWrongReturnKind, sp, "This block should end in a return statement, got \"break\"\nsecond line").
			WithNote(sp, "blocks of a lambda body end in return").
			WithFix("replace with return", diag.FixEdit{Span: sp, NewText: "return"})
	}, PrettyOpts{Context: 1, ShowNotes: true, ShowFixes: true, ShowPreview: true})

	for _, want := range []string{
		"proof.peano:2:3: ERROR SEM3005:",
		"    second line",
		"1 | const f = (x: N) => {",
		"2 |   break eqRefl(x);",
		"  |   ^~~~~",
		"3 | };",
		"note (2:3): blocks of a lambda body end in return",
		"fix: replace with return",
		"-   break eqRefl(x);",
		"+   return eqRefl(x);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrettyDroppedAndColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.peano", []byte("x;"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SemaUnknownVariable, source.Span{File: id, Start: 0, End: 1}, "Unknown variable x"))
	bag.Add(diag.NewError(diag.SemaUnknownVariable, source.Span{File: id, Start: 0, End: 1}, "again"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(plain.String(), "1 more diagnostic(s) not shown") {
		t.Errorf("dropped count missing:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("escape codes with colour off")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("no escape codes with colour on")
	}
}

func TestFormatPath(t *testing.T) {
	long := "/very/long/absolute/path/to/some/nested/directory/file.peano"
	tests := []struct {
		path string
		mode PathMode
		base string
		want string
	}{
		{"<input>", PathModeAbsolute, "", "<input>"},
		{"src/a.peano", PathModeBasename, "", "a.peano"},
		{"/home/u/proj/src/a.peano", PathModeRelative, "/home/u/proj", "src/a.peano"},
		{"a.peano", PathModeAuto, "", "a.peano"},
		{long, PathModeAuto, "", "file.peano"},
		{"/abs/a.peano", PathModeAbsolute, "", "/abs/a.peano"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path, tt.mode, tt.base); got != tt.want {
			t.Errorf("formatPath(%q, %d) = %q, want %q", tt.path, tt.mode, got, tt.want)
		}
	}
}
