// Package fix applies the machine-applicable suggestions carried by
// diagnostics back to schema files.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"apidef/internal/diag"
	"apidef/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeCode
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
	// TargetCode selects fixes by diagnostic code ("SEM3023") in ApplyModeCode.
	TargetCode string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the new content of one file.
type FileChange struct {
	File      source.FileID
	Path      string
	Content   []byte
	EditCount int
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
	id    string
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts
// and computes the edited contents. Nothing is written; see Write.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skips, changes := applyCandidates(fs, selected)
	result.Applied = applied
	result.Skipped = append(result.Skipped, skips...)
	result.FileChanges = changes
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens diagnostic fixes into candidates. A fix without
// edits is skipped. IDs are synthesized from the diagnostic code, the
// primary position and the fix index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span start, span end, then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag.Primary, candidates[j].diag.Primary
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Start != dj.Start {
			return di.Start < dj.Start
		}
		if di.End != dj.End {
			return di.End < dj.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeCode:
		var selected []candidate
		for _, cand := range candidates {
			if cand.diag.Code.ID() == opts.TargetCode {
				selected = append(selected, cand)
			}
		}
		if len(selected) == 0 {
			return nil, []SkippedFix{{ID: opts.TargetCode, Reason: "no fix for this code"}}
		}
		return selected, nil
	case ApplyModeOnce:
		if len(candidates) == 0 {
			return nil, nil
		}
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

// applyCandidates accepts fixes in order, skipping any that overlaps an
// edit already accepted, and rebuilds each touched file in one pass.
func applyCandidates(fs *source.FileSet, selected []candidate) ([]AppliedFix, []SkippedFix, []FileChange) {
	accepted := make(map[source.FileID][]diag.FixEdit)
	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	for _, cand := range selected {
		reason := ""
		for _, e := range cand.fix.Edits {
			if int(e.Span.File) >= fs.Len() {
				reason = "edit points to an unknown file"
				break
			}
			if e.Span.End < e.Span.Start || int(e.Span.End) > len(fs.Get(e.Span.File).Content) {
				reason = "edit span out of range"
				break
			}
			if conflicts(accepted[e.Span.File], e) {
				reason = "conflicts with previously applied edits"
				break
			}
		}
		if reason == "" && selfOverlap(cand.fix.Edits) {
			reason = "edits of the fix overlap"
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: fs.Get(cand.diag.Primary.File).FormatPath("auto", fs.BaseDir()),
			EditCount:   len(cand.fix.Edits),
		})
	}

	changes := make([]FileChange, 0, len(accepted))
	for id, edits := range accepted {
		f := fs.Get(id)
		changes = append(changes, FileChange{
			File:      id,
			Path:      f.Path,
			Content:   rewrite(f.Content, edits),
			EditCount: len(edits),
		})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return applied, skipped, changes
}

// rewrite applies non-overlapping edits given in original offsets.
func rewrite(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})
	out := make([]byte, 0, len(content))
	var pos uint32
	for _, e := range sorted {
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	return append(out, content[pos:]...)
}

func conflicts(existing []diag.FixEdit, edit diag.FixEdit) bool {
	for _, prev := range existing {
		if spansConflict(prev, edit) {
			return true
		}
	}
	return false
}

func selfOverlap(edits []diag.FixEdit) bool {
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if edits[i].Span.File == edits[j].Span.File && spansConflict(edits[i], edits[j]) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits overlap as half-open intervals.
// Two insertions never conflict; an insertion conflicts with a replacement
// that strictly contains its position.
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// Write stores every change on disk, keeping file modes. Virtual files are
// left alone.
func (r *ApplyResult) Write(fs *source.FileSet) error {
	for _, ch := range r.FileChanges {
		if fs.Get(ch.File).Flags&source.FileVirtual != 0 {
			continue
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(ch.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(ch.Path, ch.Content, mode); err != nil {
			return fmt.Errorf("write %s: %w", ch.Path, err)
		}
	}
	return nil
}
