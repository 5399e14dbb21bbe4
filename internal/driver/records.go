package driver

import (
	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/sema"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

// spanOf places a record in file. Records without a position land at the
// start of the file.
func spanOf(file source.FileID, m ast.Meta) source.Span {
	if !m.Valid {
		return source.Span{File: file}
	}
	return source.Span{File: file, Start: m.Start, End: m.End}
}

// addRecords copies the error records into bag. A replaceWith fix becomes a
// one-edit diag.Fix over the record's span.
func addRecords(bag *diag.Bag, file source.FileID, recs []sema.Record) {
	for _, rec := range recs {
		if rec.Kind != sema.RecordError {
			continue
		}
		sp := spanOf(file, rec.Meta)
		d := diag.NewError(rec.Code, sp, rec.Message)
		if rec.Fix != nil {
			d.Fixes = append(d.Fixes, diag.ReplaceWith(sp, rec.Fix.ReplaceWith))
		}
		bag.Add(d)
	}
}
