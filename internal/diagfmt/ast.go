package diagfmt

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

// ASTNodeOutput is the JSON shape of one syntax node. Scalar fields go to
// Fields, sub-nodes to Children labelled with the field they came from.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Field    string          `json:"field,omitempty"`
	Span     *PositionJSON   `json:"span,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

var (
	metaType     = reflect.TypeOf(ast.Meta{})
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// BuildASTOutput converts n into its JSON shape.
func BuildASTOutput(n ast.Node) ASTNodeOutput {
	out, _ := buildNode(reflect.ValueOf(n), "")
	return out
}

func buildNode(v reflect.Value, field string) (ASTNodeOutput, bool) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ASTNodeOutput{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ASTNodeOutput{}, false
	}
	out := ASTNodeOutput{Type: v.Type().Name(), Field: field}
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if sf.Type == metaType {
			m := fv.Interface().(ast.Meta)
			if sf.Name == "Meta" && m.Valid {
				out.Span = &PositionJSON{Start: m.Start, End: m.End}
			}
			continue
		}
		switch fv.Kind() {
		case reflect.Slice, reflect.Array:
			for j := range fv.Len() {
				if child, ok := buildNode(fv.Index(j), fmt.Sprintf("%s[%d]", sf.Name, j)); ok {
					out.Children = append(out.Children, child)
				}
			}
		case reflect.Pointer, reflect.Interface, reflect.Struct:
			if child, ok := buildNode(fv, sf.Name); ok {
				out.Children = append(out.Children, child)
			}
		default:
			if out.Fields == nil {
				out.Fields = make(map[string]any)
			}
			if fv.Type().Implements(stringerType) {
				out.Fields[sf.Name] = fv.Interface().(fmt.Stringer).String()
			} else {
				out.Fields[sf.Name] = fv.Interface()
			}
		}
	}
	return out, true
}

// FormatASTJSON writes the JSON tree of n.
func FormatASTJSON(w io.Writer, n ast.Node) error {
	return encodeIndented(w, BuildASTOutput(n))
}

// FormatASTPretty prints n as an indented tree. Spans are resolved through
// fs when file is known to it.
func FormatASTPretty(w io.Writer, n ast.Node, fs *source.FileSet, file source.FileID) error {
	root := BuildASTOutput(n)
	if fs != nil && int(file) >= fs.Len() {
		fs = nil
	}
	var b strings.Builder
	writeTreeNode(&b, root, "", "", fs, file)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTreeNode(b *strings.Builder, n ASTNodeOutput, head, indent string, fs *source.FileSet, file source.FileID) {
	b.WriteString(head)
	if n.Field != "" {
		b.WriteString(n.Field)
		b.WriteString(": ")
	}
	b.WriteString(n.Type)
	if len(n.Fields) > 0 {
		keys := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, n.Fields[k]))
		}
		fmt.Fprintf(b, " [%s]", strings.Join(parts, " "))
	}
	if n.Span != nil {
		fmt.Fprintf(b, " (span: %s)", formatSpan(source.Span{File: file, Start: n.Span.Start, End: n.Span.End}, fs))
	}
	b.WriteByte('\n')
	for i, child := range n.Children {
		if i == len(n.Children)-1 {
			writeTreeNode(b, child, indent+"└─ ", indent+"   ", fs, file)
		} else {
			writeTreeNode(b, child, indent+"├─ ", indent+"│  ", fs, file)
		}
	}
}
