package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mjgrzymek/PeanoScript/internal/sema"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

const loadingLabel = "Running..."

func (s *Server) handleInlayHint(msg *rpcMessage) error {
	var params inlayHintParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	snap := s.snapshotFor(params.TextDocument.URI)
	if snap == nil {
		return s.sendResponse(msg.ID, []inlayHint{})
	}
	return s.sendResponse(msg.ID, buildInlayHints(snap, params.Range, s.currentInlayConfig()))
}

// buildInlayHints places the console.log results of snap after each
// argument inside rng.
func buildInlayHints(snap *snapshot, rng lspRange, cfg inlayHintConfig) []inlayHint {
	hints := make([]inlayHint, 0)
	if !cfg.logs || snap.res == nil || snap.res.File == nil {
		return hints
	}
	for _, entry := range snap.res.Logs() {
		pos := positionForOffsetInFile(snap.res.File, entry.Span.End)
		if positionLess(pos, rng.Start) || positionLess(rng.End, pos) {
			continue
		}
		label, ok := logLabel(entry.Slot)
		if !ok {
			continue
		}
		hints = append(hints, inlayHint{Position: pos, Label: label, PaddingLeft: true})
	}
	return hints
}

// logLabel renders a slot; killed evaluations are not shown.
func logLabel(slot *sema.LogSlot) (string, bool) {
	if slot == nil {
		return "", false
	}
	if r, done := slot.Result(); done {
		if !r.IsError {
			return "→ " + r.Text, true
		}
		if strings.HasPrefix(r.Text, value.ErrKilled.Error()) {
			return "", false
		}
		return "✖ " + r.Text, true
	}
	if n := slot.Seconds(); n > 0 {
		return fmt.Sprintf("%s (%ds)", loadingLabel, n), true
	}
	return loadingLabel, true
}
