package lsp

import (
	"encoding/json"
)

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	snap := s.snapshotFor(uri)
	if snap == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	return s.sendResponse(msg.ID, buildCodeActions(snap, uri, params.Range))
}

// buildCodeActions offers the fixes of diagnostics overlapping rng.
func buildCodeActions(snap *snapshot, uri string, rng lspRange) []codeAction {
	actions := make([]codeAction, 0)
	res := snap.res
	if res == nil || res.Bag == nil {
		return actions
	}
	for _, d := range res.Bag.Items() {
		dr := rangeForSpan(res.File, d.Primary)
		if len(d.Fixes) == 0 || !rangesOverlap(dr, rng) {
			continue
		}
		for _, fix := range d.Fixes {
			edits := make([]textEdit, 0, len(fix.Edits))
			for _, e := range fix.Edits {
				edits = append(edits, textEdit{Range: rangeForSpan(res.File, e.Span), NewText: e.NewText})
			}
			actions = append(actions, codeAction{
				Title: fix.Title,
				Kind:  "quickfix",
				Diagnostics: []lspDiagnostic{{
					Range:    dr,
					Severity: lspSeverity(d.Severity),
					Code:     d.Code.ID(),
					Source:   "peano",
					Message:  d.Message,
				}},
				IsPreferred: len(d.Fixes) == 1,
				Edit:        workspaceEdit{Changes: map[string][]textEdit{uri: edits}},
			})
		}
	}
	return actions
}
