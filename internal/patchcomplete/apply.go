package patchcomplete

import (
	"strings"

	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"

	"filechanges/internal/xerrors"
)

// Apply completes patchRaw against original and applies it with a
// strict unified-diff applier (zero match/delete fuzz — a completed
// hunk either matches the reconstructed original exactly or the whole
// patch is rejected). A missing trailing newline on a non-empty original
// is added before diffing and removed from the result so a patch author's choice to omit
// or keep a final newline doesn't itself count as a hunk mismatch.
// Apply is content-agnostic: it never reports NoChanges itself, even
// when result equals original, since a result matching a pre-existing
// original is a no-op but the same result computed for a file that did
// not yet exist is a legitimate (if unusual) creation. The caller
// decides which applies, the same way applyHashlinePatch does.
func Apply(path, original, patchRaw string) (string, MatchTier, error) {
	addedNewline := original != "" && !strings.HasSuffix(original, "\n")
	normalizedOriginal := original
	if addedNewline {
		normalizedOriginal += "\n"
	}

	completed, tier, _, err := Complete(normalizedOriginal, patchRaw)
	if err != nil {
		return "", 0, err
	}

	dmp := diffmatchpatch.New()
	dmp.MatchThreshold = 0
	dmp.PatchDeleteThreshold = 0

	patches, err := dmp.PatchFromText(completed)
	if err != nil {
		return "", 0, &xerrors.DiffParse{Path: path, Cause: err}
	}

	result, applied := dmp.PatchApply(patches, normalizedOriginal)
	for _, ok := range applied {
		if !ok {
			return "", 0, &xerrors.DiffApply{Path: path, Cause: errNotApplied}
		}
	}

	if addedNewline {
		result = strings.TrimSuffix(result, "\n")
	}

	return result, tier, nil
}

var errNotApplied = notAppliedErr{}

type notAppliedErr struct{}

func (notAppliedErr) Error() string { return "one or more hunks did not apply cleanly" }
