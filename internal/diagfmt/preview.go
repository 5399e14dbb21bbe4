package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the lines touched by edit before and after it
// is applied.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	file := fs.Get(edit.Span.File)
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > size {
		return fixEditPreview{}, fmt.Errorf("edit span %d-%d out of range", edit.Span.Start, edit.Span.End)
	}

	startPos, _ := fs.Resolve(edit.Span)
	blockStart := edit.Span.Start - (startPos.Col - 1)
	blockEnd := edit.Span.End
	for blockEnd < size && file.Content[blockEnd] != '\n' {
		blockEnd++
	}

	original := string(file.Content[blockStart:blockEnd])
	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)
	after := original[:relStart] + edit.NewText + original[relEnd:]

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
