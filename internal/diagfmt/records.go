package diagfmt

import (
	"io"

	"github.com/mjgrzymek/PeanoScript/internal/sema"
)

// PositionJSON is a byte range of the checked source.
type PositionJSON struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type RecordFixJSON struct {
	ReplaceWith string `json:"replaceWith"`
}

// RecordJSON is one checker record as editors consume it. Error records
// carry message and fix; hover and defined records carry the type.
type RecordJSON struct {
	Kind     string         `json:"kind"`
	Position *PositionJSON  `json:"position,omitempty"`
	Message  string         `json:"message,omitempty"`
	Code     string         `json:"code,omitempty"`
	Fix      *RecordFixJSON `json:"fix,omitempty"`
	Name     string         `json:"name,omitempty"`
	Type     string         `json:"type,omitempty"`
	Method   string         `json:"method,omitempty"`
	Output   *string        `json:"output,omitempty"`
	IsError  bool           `json:"isError,omitempty"`
}

type RecordsOutput struct {
	Errors  []RecordJSON `json:"errors"`
	Hovers  []RecordJSON `json:"hovers"`
	Defined []RecordJSON `json:"defined"`
	Other   []RecordJSON `json:"other,omitempty"`
}

// BuildRecordsOutput splits records into errors, hover and defined lists.
// Required-type and log records go to Other when includeOther is set; a log
// record carries its output once resolved.
func BuildRecordsOutput(records []sema.Record, includeOther bool) RecordsOutput {
	out := RecordsOutput{
		Errors:  []RecordJSON{},
		Hovers:  []RecordJSON{},
		Defined: []RecordJSON{},
	}
	for _, rec := range records {
		rj := RecordJSON{Kind: rec.Kind.String()}
		if rec.Meta.Valid {
			rj.Position = &PositionJSON{Start: rec.Meta.Start, End: rec.Meta.End}
		}
		switch rec.Kind {
		case sema.RecordError:
			rj.Message = rec.Message
			rj.Code = rec.Code.ID()
			if rec.Fix != nil {
				rj.Fix = &RecordFixJSON{ReplaceWith: rec.Fix.ReplaceWith}
			}
			out.Errors = append(out.Errors, rj)
		case sema.RecordVarHover:
			rj.Type = rec.Type
			out.Hovers = append(out.Hovers, rj)
		case sema.RecordVarDefined:
			rj.Name = rec.Name
			rj.Type = rec.Type
			out.Defined = append(out.Defined, rj)
		case sema.RecordRequired:
			if includeOther {
				rj.Type = rec.Type
				rj.Method = rec.Method.String()
				out.Other = append(out.Other, rj)
			}
		case sema.RecordLog:
			if includeOther {
				if rec.Log != nil {
					if res, ok := rec.Log.Result(); ok {
						text := res.Text
						rj.Output = &text
						rj.IsError = res.IsError
					}
				}
				out.Other = append(out.Other, rj)
			}
		}
	}
	return out
}

// RecordsJSON writes BuildRecordsOutput as indented JSON.
func RecordsJSON(w io.Writer, records []sema.Record, includeOther bool) error {
	return encodeIndented(w, BuildRecordsOutput(records, includeOther))
}
