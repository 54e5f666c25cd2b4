// Package hashline implements the hashline edit engine: a whitespace-
// insensitive, line-tag-addressed patch format with autocorrection for
// common model mistakes (echoed anchors, merged continuation lines,
// cosmetic blank insertions, lost indentation).
package hashline

import "fmt"

// LineTag identifies a line by 1-based position and a whitespace-
// insensitive content hash computed by the linehash package.
type LineTag struct {
	Line int
	Hash string
}

func (t LineTag) String() string { return fmt.Sprintf("%d#%s", t.Line, t.Hash) }

// EditKind discriminates the five HashlineEdit variants.
type EditKind int

const (
	KindSet EditKind = iota
	KindReplace
	KindAppend
	KindPrepend
	KindInsert
)

// Edit is a single hashline edit. Which fields are meaningful depends on
// Kind: Set uses Tag; Replace uses First/Last; Append uses After (nil
// means "append to end of file"); Prepend uses Before (nil means
// "prepend to start of file"); Insert uses After and Before (both
// required, After.Line < Before.Line).
type Edit struct {
	Kind    EditKind
	Tag     LineTag
	First   LineTag
	Last    LineTag
	After   *LineTag
	Before  *LineTag
	Content []string
}

// NewInsert builds an Insert edit. The textual hashline grammar (§4.2)
// never produces Insert directly; callers construct it programmatically,
// e.g. when splitting an ambiguous Replace into two anchors.
func NewInsert(after, before LineTag, content []string) Edit {
	return Edit{Kind: KindInsert, After: &after, Before: &before, Content: content}
}

// HashMismatch records one line whose current hash no longer matches the
// tag an edit referenced.
type HashMismatch struct {
	Line     int
	Expected string
	Actual   string
}

// NoopEdit records an edit whose post-autocorrect content turned out to
// equal the span it targeted, so it was skipped rather than applied.
type NoopEdit struct {
	EditIndex      int
	Loc            string
	CurrentContent string
}

// Result is the outcome of a successful ApplyEdits call.
type Result struct {
	Content          string
	FirstChangedLine int // 0 means "no line changed"
	NoopEdits        []NoopEdit
}
