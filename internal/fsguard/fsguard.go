// Package fsguard implements the base-dir containment check shared by
// every read and write call site in the apply pipeline.
package fsguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filechanges/internal/xerrors"
)

// CheckInBase collapses both target and base lexically (no filesystem
// access, no symlink resolution — that's the filesystem collaborator's
// job) and verifies target starts with base as a string. This is a
// lexical check only, shared by both read and write guards.
func CheckInBase(target, base string) error {
	collapsedBase := Collapse(base)
	collapsedTarget := Collapse(target)

	if !strings.HasPrefix(collapsedTarget, collapsedBase) {
		return &xerrors.SecurityViolation{Target: collapsedTarget, Base: collapsedBase}
	}
	return nil
}

// CheckRealPath re-verifies containment by opening rel through an
// *os.Root rooted at base, so a symlink planted somewhere under base
// that points back out can't slip past the lexical check above
// (CheckInBase never touches the filesystem and so never sees it). rel
// must already be relative to base (callers pass the directive's
// base-relative path). When rel doesn't exist yet, which is the common
// case for New/Rename targets, it climbs to the deepest ancestor that
// does exist and opens that instead.
func CheckRealPath(base, rel string) error {
	rel = filepath.Clean(rel)
	if rel == "." || rel == "" {
		return nil
	}
	if !filepath.IsLocal(rel) {
		return &xerrors.SecurityViolation{Target: filepath.Join(base, rel), Base: base}
	}

	root, err := os.OpenRoot(base)
	if err != nil {
		return fmt.Errorf("open root %q: %w", base, err)
	}
	defer root.Close()

	candidate := rel
	for candidate != "" && candidate != "." {
		f, err := root.Open(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				candidate = filepath.Dir(candidate)
				continue
			}
			return &xerrors.SecurityViolation{Target: filepath.Join(base, rel), Base: base}
		}
		f.Close()
		break
	}
	return nil
}

// Collapse lexically resolves "."/".." segments without touching the
// filesystem, mirroring the collapsed-path notion spec'd for the
// fs-guard's containment check.
func Collapse(path string) string {
	return filepath.Clean(path)
}
