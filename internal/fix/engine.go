// Package fix applies the edits suggested by diagnostics to files on disk.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix of every file only.
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
	// DryRun computes the result without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title   string
	Code    diag.Code
	Message string
	Path    string
	Start   source.LineCol
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Path   string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects the fixes of diagnostics, selects them according to opts
// and rewrites the affected files. Fixes whose edits overlap an already
// selected one are skipped, as are files whose content was normalized on load
// (BOM, CRLF, NFC): spans point into the normalized text.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	perFile := make(map[source.FileID][]diag.FixEdit)
	var files []source.FileID
	for _, cand := range candidates {
		fileID := cand.diag.Primary.File
		if int(fileID) >= fs.Len() {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Reason: "unknown file"})
			continue
		}
		file := fs.Get(fileID)
		if reason := unsafeFile(file); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Path: file.Path, Reason: reason})
			continue
		}
		if reason := checkEdits(file, cand.fix.Edits, perFile[fileID]); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Path: file.Path, Reason: reason})
			continue
		}
		if opts.Mode == ApplyModeOnce && len(perFile[fileID]) > 0 {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Path: file.Path, Reason: "one fix per file"})
			continue
		}
		if _, seen := perFile[fileID]; !seen {
			files = append(files, fileID)
		}
		perFile[fileID] = append(perFile[fileID], cand.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			Title:   cand.fix.Title,
			Code:    cand.diag.Code,
			Message: cand.diag.Message,
			Path:    file.Path,
			Start:   file.Position(cand.diag.Primary.Start),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	for _, fileID := range files {
		file := fs.Get(fileID)
		edits := perFile[fileID]
		content := applyEdits(file.Content, edits)
		if !opts.DryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, content, mode); err != nil {
				return result, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		result.FileChanges = append(result.FileChanges, FileChange{Path: file.Path, EditCount: len(edits), Content: content})
	}
	return result, nil
}

func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	cands := make([]candidate, 0)
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands
}

// sortCandidates orders by file, span and then emission order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func unsafeFile(file *source.File) string {
	switch {
	case file.Flags&source.FileVirtual != 0:
		return "target file is virtual"
	case file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF|source.FileNormalizedNFC) != 0:
		return "file was normalized on load"
	}
	return ""
}

func checkEdits(file *source.File, edits, existing []diag.FixEdit) string {
	size := uint32(len(file.Content))
	for _, e := range edits {
		if e.Span.File != file.ID {
			return "fix spans several files"
		}
		if e.Span.Start > e.Span.End || e.Span.End > size {
			return "edit span out of range"
		}
		for _, prev := range existing {
			if spansConflict(prev.Span, e.Span) {
				return "conflicts with a previous fix"
			}
		}
	}
	return ""
}

// spansConflict reports whether two edit spans overlap. Spans are half-open;
// two insertions never conflict, an insertion conflicts with a span that
// strictly contains its position.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// applyEdits rewrites content back to front so earlier offsets stay valid.
func applyEdits(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start > sorted[j].Span.Start
	})
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		suffix := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), suffix...)
	}
	return out
}
