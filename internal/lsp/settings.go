package lsp

import (
	"encoding/json"
	"strings"

	"github.com/mjgrzymek/PeanoScript/internal/driver"
)

type inlayHintConfig struct {
	logs bool
}

func defaultInlayHintConfig() inlayHintConfig {
	return inlayHintConfig{logs: true}
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if s.applySettings(params.Settings) {
		s.reanalyzeAll()
	}
	return nil
}

// applySettings reports whether documents must be checked again.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	if v := settings.Peano.InlayHints.Logs; v != nil {
		s.inlayHints.logs = *v
	}
	if v := settings.Peano.HardcodedImpls; v != nil && *v != s.driverOpts.HardcodedImpls {
		s.driverOpts.HardcodedImpls = *v
		changed = true
	}
	if ex := settings.Peano.Exercise; ex != nil {
		var next *driver.Exercise
		if v, t := strings.TrimSpace(ex.Var), strings.TrimSpace(ex.Type); v != "" && t != "" {
			next = &driver.Exercise{VarName: v, TypeSource: t}
		}
		if !sameExercise(next, s.exercise) {
			s.exercise = next
			changed = true
		}
	}
	return changed
}

func sameExercise(a, b *driver.Exercise) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
