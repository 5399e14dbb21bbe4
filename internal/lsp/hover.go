package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mjgrzymek/PeanoScript/internal/sema"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	snap := s.snapshotFor(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, buildHover(snap, params.Position))
}

func contains(rec *sema.Record, off uint32) bool {
	return rec.Meta.Valid && rec.Meta.Start <= off && off <= rec.Meta.End
}

// innermost returns the narrowest record of kind containing off. Among equal
// widths the later record wins.
func innermost(records []sema.Record, kind sema.RecordKind, off uint32) *sema.Record {
	var best *sema.Record
	for i := range records {
		rec := &records[i]
		if rec.Kind != kind || !contains(rec, off) {
			continue
		}
		if best == nil || rec.Meta.End-rec.Meta.Start <= best.Meta.End-best.Meta.Start {
			best = rec
		}
	}
	return best
}

// buildHover shows the type under the cursor, the goal of the enclosing
// expression and the variables in scope there.
func buildHover(snap *snapshot, pos position) *hover {
	res := snap.res
	if res == nil || res.File == nil || len(res.Records) == 0 {
		return nil
	}
	off := offsetForPositionInFile(res.File, pos)
	word := innermost(res.Records, sema.RecordVarHover, off)
	goal := innermost(res.Records, sema.RecordRequired, off)
	if word == nil && goal == nil {
		return nil
	}

	var parts []string
	var rng *lspRange
	if word != nil {
		parts = append(parts, "```peano\n"+word.Type+"\n```")
		r := rangeForSpan(res.File, word.Meta.Span(res.File.ID))
		rng = &r
	}
	if goal != nil {
		parts = append(parts, fmt.Sprintf("**Goal** (%s): `%s`", goal.Method, goal.Type))
	}
	if scope := scopeAt(res.Records, off); len(scope) > 0 {
		parts = append(parts, "**In scope**\n"+strings.Join(scope, "\n"))
	}
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: strings.Join(parts, "\n\n")},
		Range:    rng,
	}
}

// scopeAt lists the bindings visible at off in definition order. A name bound
// again later is marked as shadowed.
func scopeAt(records []sema.Record, off uint32) []string {
	var defs []*sema.Record
	for i := range records {
		if records[i].Kind == sema.RecordVarDefined && contains(&records[i], off) {
			defs = append(defs, &records[i])
		}
	}
	seen := make(map[string]bool, len(defs))
	lines := make([]string, len(defs))
	for i := len(defs) - 1; i >= 0; i-- {
		d := defs[i]
		line := fmt.Sprintf("- `%s`: `%s`", d.Name, d.Type)
		if seen[d.Name] {
			line += " (shadowed)"
		}
		seen[d.Name] = true
		lines[i] = line
	}
	return lines
}
