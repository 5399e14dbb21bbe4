package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, code, gutter, caret, fix func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		fix:    mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.err(sev.String())
	case diag.SevWarning:
		return p.warn(sev.String())
	default:
		return p.info(sev.String())
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, p, &d, fs, opts)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n%s\n", p.note(fmt.Sprintf("... %d more diagnostic(s) not shown", n)))
	}
}

func prettyOne(w io.Writer, p palette, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	if int(d.Primary.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
		return
	}
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	first, rest, _ := strings.Cut(d.Message, "\n")
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(file.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col,
		p.severity(d.Severity), p.code(d.Code.ID()), first)
	for _, line := range strings.Split(rest, "\n") {
		if line != "" {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	gutter := len(strconv.Itoa(int(start.Line) + int(max(opts.Context, 0))))
	writeSnippet(w, p, file, start, end, int(max(opts.Context, 0)), gutter)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			loc := ""
			if n.Span.File == d.Primary.File && int(n.Span.File) < fs.Len() {
				ns, _ := fs.Resolve(n.Span)
				loc = fmt.Sprintf(" (%d:%d)", ns.Line, ns.Col)
			}
			fmt.Fprintf(w, "%s %s%s %s\n", strings.Repeat(" ", gutter), p.gutter("="), p.note(" note"+loc+":"), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "%s %s%s %s\n", strings.Repeat(" ", gutter), p.gutter("="), p.fix(" fix:"), fix.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fix.Edits {
				pv, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, l := range pv.before {
					fmt.Fprintf(w, "%s %s %s\n", strings.Repeat(" ", gutter), p.err("-"), l)
				}
				for _, l := range pv.after {
					fmt.Fprintf(w, "%s %s %s\n", strings.Repeat(" ", gutter), p.fix("+"), l)
				}
			}
		}
	}
}

// writeSnippet prints the primary line with context and a caret run under
// the span. Spans crossing lines are underlined to the end of the first line.
func writeSnippet(w io.Writer, p palette, file *source.File, start, end source.LineCol, context, gutter int) {
	from := max(int(start.Line)-context, 1)
	to := int(start.Line) + context
	bar := p.gutter("|")
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", gutter), bar)
	for ln := from; ln <= to; ln++ {
		if ln > int(start.Line) && ln-1 > len(file.LineIdx) {
			break
		}
		text := file.GetLine(uint32(ln)) // #nosec G115 -- bounded by the line index
		fmt.Fprintf(w, "%s %s %s\n", p.gutter(fmt.Sprintf("%*d", gutter, ln)), bar, expandTabs(text))
		if ln != int(start.Line) {
			continue
		}
		pad, width := caretColumns(text, int(start.Col), int(end.Col), start.Line == end.Line)
		marks := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s %s%s\n", strings.Repeat(" ", gutter), bar, strings.Repeat(" ", pad), p.caret(marks))
	}
}

// caretColumns converts 1-based byte columns on line into display columns.
func caretColumns(line string, startCol, endCol int, sameLine bool) (pad, width int) {
	s := min(max(startCol-1, 0), len(line))
	e := len(line)
	if sameLine {
		e = min(max(endCol-1, s), len(line))
	}
	pad = runewidth.StringWidth(expandTabs(line[:s]))
	width = runewidth.StringWidth(expandTabs(line[s:e]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
