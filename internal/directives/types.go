// Package directives holds the file-change directive data model: the
// tagged FileDirective union produced by the extractor and consumed by
// the apply pipeline, plus the Content/code-fence peeling logic shared
// by New and Patch payloads.
package directives

import (
	"filechanges/internal/hashline"
)

// Kind discriminates the six FileDirective variants (five real
// directive kinds plus the synthetic Fail carried for parse errors).
type Kind int

const (
	KindNew Kind = iota
	KindPatch
	KindHashlinePatch
	KindRename
	KindDelete
	KindFail
)

func (k Kind) String() string {
	switch k {
	case KindNew:
		return "New"
	case KindPatch:
		return "Patch"
	case KindHashlinePatch:
		return "HashlinePatch"
	case KindRename:
		return "Rename"
	case KindDelete:
		return "Delete"
	case KindFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// FileDirective is one entry parsed out of a <FILE_CHANGES> block.
// Which fields are meaningful depends on Kind, following the flat-
// struct-plus-kind-enum idiom used for tagged unions throughout this
// codebase rather than an interface hierarchy.
type FileDirective struct {
	Kind Kind

	FilePath string // New, Patch, HashlinePatch, Delete
	FromPath string // Rename
	ToPath   string // Rename

	Content Content          // New, Patch
	Edits   []hashline.Edit  // HashlinePatch

	// Fail-only fields.
	FailFilePathHint string
	ErrorMsg         string
}

// FileChanges is an ordered sequence of directives; order is execution
// order and carries no uniqueness invariant.
type FileChanges []FileDirective

// IsEmpty reports whether there are no directives to apply.
func (fc FileChanges) IsEmpty() bool { return len(fc) == 0 }

// MatchTier mirrors patchcomplete.MatchTier without importing that
// package, so the data model stays independent of the completer's
// internals; the apply pipeline converts between the two.
type MatchTier int

const (
	TierStrict MatchTier = iota
	TierResilient
	TierFuzzy
)

func (t MatchTier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierResilient:
		return "resilient"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// DirectiveStatus is the per-directive outcome record.
type DirectiveStatus struct {
	Kind      Kind
	FilePath  string
	Success   bool
	ErrorMsg  string
	MatchTier *MatchTier
}

// ApplyChangesStatus is the full status report for one apply run, plus
// a RunID used only for log correlation (never consulted for business
// logic).
type ApplyChangesStatus struct {
	RunID    string
	Statuses []DirectiveStatus
}
