package hashline

import (
	"fmt"
	"sort"
	"strings"

	"filechanges/internal/linehash"
)

// MismatchError is returned when validation finds one or more line tags
// whose current hash no longer matches the file. Its Error() renders a
// ±2-line context window around each mismatch, marking changed lines
// with ">>>" and showing the current correct tag for each line.
type MismatchError struct {
	Mismatches []HashMismatch
	FileLines  []string
}

const mismatchContext = 2

func (e *MismatchError) Error() string {
	mismatchSet := make(map[int]HashMismatch, len(e.Mismatches))
	for _, m := range e.Mismatches {
		mismatchSet[m.Line] = m
	}

	display := make(map[int]struct{})
	for _, m := range e.Mismatches {
		lo := m.Line - mismatchContext
		if lo < 1 {
			lo = 1
		}
		hi := m.Line + mismatchContext
		if hi > len(e.FileLines) {
			hi = len(e.FileLines)
		}
		for i := lo; i <= hi; i++ {
			display[i] = struct{}{}
		}
	}

	sorted := make([]int, 0, len(display))
	for ln := range display {
		sorted = append(sorted, ln)
	}
	sort.Ints(sorted)

	var b strings.Builder
	plural := "s have"
	if len(e.Mismatches) == 1 {
		plural = " has"
	}
	fmt.Fprintf(&b, "%d line%s changed since last read. Use the updated LINE#ID references shown below (>>> marks changed lines).\n\n", len(e.Mismatches), plural)

	prevLine := -1
	for _, lineNum := range sorted {
		if prevLine != -1 && lineNum > prevLine+1 {
			b.WriteString("    ...\n")
		}
		prevLine = lineNum

		content := e.FileLines[lineNum-1]
		hash := linehash.Hash(content)
		prefix := fmt.Sprintf("%d#%s", lineNum, hash)

		if _, mismatched := mismatchSet[lineNum]; mismatched {
			fmt.Fprintf(&b, ">>> %s:%s\n", prefix, content)
		} else {
			fmt.Fprintf(&b, "    %s:%s\n", prefix, content)
		}
	}
	return b.String()
}
