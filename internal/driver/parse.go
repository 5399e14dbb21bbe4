package driver

import (
	"errors"
	"fmt"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Start   parser.Start
	Node    ast.Node // nil on a syntax error
	Bag     *diag.Bag
}

// Parse parses a file from the given start symbol.
func Parse(filePath string, start parser.Start, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	node, err := parser.Parse(file, start, parser.Options{})
	if err != nil {
		var d parser.Diagnosable
		if !errors.As(err, &d) {
			return nil, fmt.Errorf("parse %s: %w", filePath, err)
		}
		bag.Add(d.Diagnostic())
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Start:   start,
		Node:    node,
		Bag:     bag,
	}, nil
}
