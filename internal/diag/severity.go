package diag

import "strings"

// Severity orders diagnostics; the checker itself only reports errors, lower
// levels come from config loading and the exercise verdict.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the upper-case form used in JSON output.
func (s Severity) String() string {
	if name := s.Label(); name != "" {
		return strings.ToUpper(name)
	}
	return "UNKNOWN"
}

// Label is the lower-case form printed by the text renderers.
func (s Severity) Label() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return ""
}
