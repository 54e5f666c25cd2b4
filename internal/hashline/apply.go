package hashline

import (
	"sort"
	"strconv"
	"strings"

	"filechanges/internal/linehash"
	"filechanges/internal/xerrors"
)

// ApplyEdits validates every edit against content's current line tags,
// then applies them bottom-up with autocorrection. Validation is
// entirely separate from mutation: either every tag checks out and the
// whole batch applies, or nothing is mutated and a *MismatchError (or an
// *xerrors.OutOfRange / *xerrors.InvariantViolation) is returned.
func ApplyEdits(content string, edits []Edit) (Result, error) {
	if len(edits) == 0 {
		return Result{Content: content}, nil
	}

	fileLines := strings.Split(content, "\n")
	originalFileLines := append([]string(nil), fileLines...)

	explicitlyTouched := make(map[int]struct{})
	for _, e := range edits {
		switch e.Kind {
		case KindSet:
			explicitlyTouched[e.Tag.Line] = struct{}{}
		case KindReplace:
			for ln := e.First.Line; ln <= e.Last.Line; ln++ {
				explicitlyTouched[ln] = struct{}{}
			}
		case KindAppend:
			if e.After != nil {
				explicitlyTouched[e.After.Line] = struct{}{}
			}
		case KindPrepend:
			if e.Before != nil {
				explicitlyTouched[e.Before.Line] = struct{}{}
			}
		case KindInsert:
			explicitlyTouched[e.After.Line] = struct{}{}
			explicitlyTouched[e.Before.Line] = struct{}{}
		}
	}

	var mismatches []HashMismatch
	validateRef := func(tag LineTag) error {
		if tag.Line < 1 || tag.Line > len(fileLines) {
			return &xerrors.OutOfRange{Line: tag.Line, Len: len(fileLines)}
		}
		actual := linehash.Hash(fileLines[tag.Line-1])
		if actual != tag.Hash {
			mismatches = append(mismatches, HashMismatch{Line: tag.Line, Expected: tag.Hash, Actual: actual})
		}
		return nil
	}

	for _, e := range edits {
		switch e.Kind {
		case KindSet:
			if err := validateRef(e.Tag); err != nil {
				return Result{}, err
			}
		case KindAppend:
			if len(e.Content) == 0 {
				return Result{}, &xerrors.InvariantViolation{Msg: "append-after edit requires non-empty content"}
			}
			if e.After != nil {
				if err := validateRef(*e.After); err != nil {
					return Result{}, err
				}
			}
		case KindPrepend:
			if len(e.Content) == 0 {
				return Result{}, &xerrors.InvariantViolation{Msg: "prepend-before edit requires non-empty content"}
			}
			if e.Before != nil {
				if err := validateRef(*e.Before); err != nil {
					return Result{}, err
				}
			}
		case KindInsert:
			if len(e.Content) == 0 {
				return Result{}, &xerrors.InvariantViolation{Msg: "insert-between edit requires non-empty content"}
			}
			if e.Before.Line <= e.After.Line {
				return Result{}, &xerrors.InvariantViolation{Msg: "insert requires after (" + strconv.Itoa(e.After.Line) + ") < before (" + strconv.Itoa(e.Before.Line) + ")"}
			}
			if err := validateRef(*e.After); err != nil {
				return Result{}, err
			}
			if err := validateRef(*e.Before); err != nil {
				return Result{}, err
			}
		case KindReplace:
			if e.First.Line > e.Last.Line {
				return Result{}, &xerrors.InvariantViolation{Msg: "range start line " + strconv.Itoa(e.First.Line) + " must be <= end line " + strconv.Itoa(e.Last.Line)}
			}
			if err := validateRef(e.First); err != nil {
				return Result{}, err
			}
			if err := validateRef(e.Last); err != nil {
				return Result{}, err
			}
		}
	}

	if len(mismatches) > 0 {
		return Result{}, &MismatchError{Mismatches: mismatches, FileLines: originalFileLines}
	}

	edits = dedupeEdits(edits)

	type annotated struct {
		edit       Edit
		idx        int
		sortLine   int
		precedence int
	}
	annotatedEdits := make([]annotated, len(edits))
	for i, e := range edits {
		var sortLine, precedence int
		switch e.Kind {
		case KindSet:
			sortLine, precedence = e.Tag.Line, 0
		case KindReplace:
			sortLine, precedence = e.Last.Line, 0
		case KindAppend:
			if e.After != nil {
				sortLine = e.After.Line
			} else {
				sortLine = len(originalFileLines) + 1
			}
			precedence = 1
		case KindPrepend:
			if e.Before != nil {
				sortLine = e.Before.Line
			}
			precedence = 2
		case KindInsert:
			sortLine, precedence = e.Before.Line, 3
		}
		annotatedEdits[i] = annotated{edit: e, idx: i, sortLine: sortLine, precedence: precedence}
	}

	sort.SliceStable(annotatedEdits, func(i, j int) bool {
		a, b := annotatedEdits[i], annotatedEdits[j]
		if a.sortLine != b.sortLine {
			return a.sortLine > b.sortLine
		}
		if a.precedence != b.precedence {
			return a.precedence < b.precedence
		}
		return a.idx < b.idx
	})

	var firstChangedLine int
	var noopEdits []NoopEdit
	trackFirstChanged := func(line int) {
		if firstChangedLine == 0 || line < firstChangedLine {
			firstChangedLine = line
		}
	}

	for _, annot := range annotatedEdits {
		e, idx := annot.edit, annot.idx
		switch e.Kind {
		case KindSet:
			if merged := maybeExpandSingleLineMerge(e.Tag.Line, e.Content, fileLines, explicitlyTouched); merged != nil {
				origLines := originalFileLines[merged.startLine-1 : merged.startLine-1+merged.deleteCount]
				nextLines := restoreIndentForPairedReplacement([]string{origLines[0]}, merged.newLines)
				if equalSlices(origLines, nextLines) {
					noopEdits = append(noopEdits, NoopEdit{EditIndex: idx, Loc: e.Tag.String(), CurrentContent: strings.Join(origLines, "\n")})
					continue
				}
				fileLines = spliceLines(fileLines, merged.startLine-1, merged.startLine-1+merged.deleteCount, nextLines)
				trackFirstChanged(merged.startLine)
				continue
			}

			origLines := originalFileLines[e.Tag.Line-1 : e.Tag.Line]
			stripped := stripRangeBoundaryEcho(originalFileLines, e.Tag.Line, e.Tag.Line, e.Content)
			stripped = restoreOldWrappedLines(origLines, stripped)
			newLines := restoreIndentForPairedReplacement(origLines, stripped)
			if equalSlices(origLines, newLines) {
				noopEdits = append(noopEdits, NoopEdit{EditIndex: idx, Loc: e.Tag.String(), CurrentContent: strings.Join(origLines, "\n")})
				continue
			}
			fileLines = spliceLines(fileLines, e.Tag.Line-1, e.Tag.Line, newLines)
			trackFirstChanged(e.Tag.Line)

		case KindReplace:
			count := e.Last.Line - e.First.Line + 1
			origLines := originalFileLines[e.First.Line-1 : e.First.Line-1+count]
			stripped := stripRangeBoundaryEcho(originalFileLines, e.First.Line, e.Last.Line, e.Content)
			stripped = restoreOldWrappedLines(origLines, stripped)
			newLines := restoreIndentForPairedReplacement(origLines, stripped)
			if equalSlices(origLines, newLines) {
				noopEdits = append(noopEdits, NoopEdit{EditIndex: idx, Loc: e.First.String(), CurrentContent: strings.Join(origLines, "\n")})
				continue
			}
			fileLines = spliceLines(fileLines, e.First.Line-1, e.First.Line-1+count, newLines)
			trackFirstChanged(e.First.Line)

		case KindAppend:
			var inserted []string
			if e.After != nil {
				inserted = stripInsertAnchorEchoAfter(originalFileLines[e.After.Line-1], e.Content)
			} else {
				inserted = e.Content
			}
			if len(inserted) == 0 {
				loc, cur := "EOF", ""
				if e.After != nil {
					loc = e.After.String()
					cur = originalFileLines[e.After.Line-1]
				}
				noopEdits = append(noopEdits, NoopEdit{EditIndex: idx, Loc: loc, CurrentContent: cur})
				continue
			}
			if e.After != nil {
				fileLines = spliceLines(fileLines, e.After.Line, e.After.Line, inserted)
				trackFirstChanged(e.After.Line + 1)
			} else {
				if len(fileLines) == 1 && fileLines[0] == "" {
					fileLines = spliceLines(fileLines, 0, 1, inserted)
					trackFirstChanged(1)
				} else {
					start := len(fileLines)
					fileLines = append(fileLines, inserted...)
					trackFirstChanged(start + 1)
				}
			}

		case KindPrepend:
			var inserted []string
			if e.Before != nil {
				inserted = stripInsertAnchorEchoBefore(originalFileLines[e.Before.Line-1], e.Content)
			} else {
				inserted = e.Content
			}
			if len(inserted) == 0 {
				loc, cur := "BOF", ""
				if e.Before != nil {
					loc = e.Before.String()
					cur = originalFileLines[e.Before.Line-1]
				}
				noopEdits = append(noopEdits, NoopEdit{EditIndex: idx, Loc: loc, CurrentContent: cur})
				continue
			}
			if e.Before != nil {
				fileLines = spliceLines(fileLines, e.Before.Line-1, e.Before.Line-1, inserted)
				trackFirstChanged(e.Before.Line)
			} else {
				if len(fileLines) == 1 && fileLines[0] == "" {
					fileLines = spliceLines(fileLines, 0, 1, inserted)
				} else {
					fileLines = spliceLines(fileLines, 0, 0, inserted)
				}
				trackFirstChanged(1)
			}

		case KindInsert:
			afterLine := originalFileLines[e.After.Line-1]
			beforeLine := originalFileLines[e.Before.Line-1]
			inserted := stripInsertBoundaryEcho(afterLine, beforeLine, e.Content)
			if len(inserted) == 0 {
				noopEdits = append(noopEdits, NoopEdit{
					EditIndex:      idx,
					Loc:            e.After.String() + ".." + e.Before.String(),
					CurrentContent: afterLine + "\n" + beforeLine,
				})
				continue
			}
			fileLines = spliceLines(fileLines, e.Before.Line-1, e.Before.Line-1, inserted)
			trackFirstChanged(e.Before.Line)
		}
	}

	return Result{
		Content:          strings.Join(fileLines, "\n"),
		FirstChangedLine: firstChangedLine,
		NoopEdits:        noopEdits,
	}, nil
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// spliceLines replaces fileLines[start:end] with replacement, returning a
// new slice (mirrors Vec::splice semantics used throughout hashline.rs).
func spliceLines(fileLines []string, start, end int, replacement []string) []string {
	out := make([]string, 0, len(fileLines)-(end-start)+len(replacement))
	out = append(out, fileLines[:start]...)
	out = append(out, replacement...)
	out = append(out, fileLines[end:]...)
	return out
}

func dedupeEdits(edits []Edit) []Edit {
	seen := make(map[string]struct{}, len(edits))
	out := edits[:0:0]
	for _, e := range edits {
		key := editKey(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func editKey(e Edit) string {
	var lineKey string
	switch e.Kind {
	case KindSet:
		lineKey = "s:" + strconv.Itoa(e.Tag.Line)
	case KindReplace:
		lineKey = "r:" + strconv.Itoa(e.First.Line) + ":" + strconv.Itoa(e.Last.Line)
	case KindAppend:
		if e.After != nil {
			lineKey = "i:" + strconv.Itoa(e.After.Line)
		} else {
			lineKey = "ieof"
		}
	case KindPrepend:
		if e.Before != nil {
			lineKey = "ib:" + strconv.Itoa(e.Before.Line)
		} else {
			lineKey = "ibef"
		}
	case KindInsert:
		lineKey = "ix:" + strconv.Itoa(e.After.Line) + ":" + strconv.Itoa(e.Before.Line)
	}
	return lineKey + ":" + strings.Join(e.Content, "\n")
}
