package ast

import "github.com/mjgrzymek/PeanoScript/internal/source"

// Meta is the byte range a node covers. A node built only from children
// without position info (an empty statement list) has Valid=false.
type Meta struct {
	Start uint32
	End   uint32
	Valid bool
}

// MetaOf returns the meta covering a token span.
func MetaOf(sp source.Span) Meta {
	return Meta{Start: sp.Start, End: sp.End, Valid: true}
}

// Union returns the smallest meta covering both. Invalid metas are ignored.
func (m Meta) Union(o Meta) Meta {
	switch {
	case !o.Valid:
		return m
	case !m.Valid:
		return o
	}
	return Meta{Start: min(m.Start, o.Start), End: max(m.End, o.End), Valid: true}
}

// Span converts the meta to a span in file.
func (m Meta) Span(file source.FileID) source.Span {
	return source.Span{File: file, Start: m.Start, End: m.End}
}

// Cover unions metas, skipping invalid ones.
func Cover(ms ...Meta) Meta {
	var out Meta
	for _, m := range ms {
		out = out.Union(m)
	}
	return out
}

// Node is implemented by every AST node.
type Node interface {
	Pos() Meta
}
