// Package apply is the directive apply pipeline: the safety envelope,
// per-directive dispatch, and status aggregation that ties the
// patch completer and hashline applier to the filesystem.
package apply

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"filechanges/internal/directives"
	"filechanges/internal/fsguard"
	"filechanges/internal/fsops"
	"filechanges/internal/hashline"
	"filechanges/internal/obslog"
	"filechanges/internal/patchcomplete"
	"filechanges/internal/xerrors"
)

// Run applies every directive in changes against baseDir and returns
// one status per directive in input order. The only case Run itself
// returns a non-nil error for is the safety-envelope check — every
// other failure is captured per-directive in the returned status and
// does not abort the batch.
func Run(ctx context.Context, baseDir string, changes directives.FileChanges) (directives.ApplyChangesStatus, error) {
	runID := uuid.NewString()
	logger := obslog.From(ctx)

	collapsedBase, err := resolveBase(baseDir)
	if err != nil {
		return directives.ApplyChangesStatus{}, err
	}

	status := directives.ApplyChangesStatus{RunID: runID}

	for _, d := range changes {
		ds := directives.DirectiveStatus{Kind: d.Kind, FilePath: directiveFilePath(d)}

		tier, applyErr := dispatch(ctx, collapsedBase, d)
		if applyErr != nil {
			ds.ErrorMsg = applyErr.Error()
			logger.Debug().Str("run_id", runID).Str("directive", d.Kind.String()).Str("file_path", ds.FilePath).Err(applyErr).Msg("directive failed")
		} else {
			ds.Success = true
			if tier != nil {
				ds.MatchTier = tier
			}
			logger.Debug().Str("run_id", runID).Str("directive", d.Kind.String()).Str("file_path", ds.FilePath).Msg("directive applied")
		}

		status.Statuses = append(status.Statuses, ds)
	}

	return status, nil
}

func directiveFilePath(d directives.FileDirective) string {
	switch d.Kind {
	case directives.KindRename:
		return d.ToPath
	case directives.KindFail:
		return d.FailFilePathHint
	default:
		return d.FilePath
	}
}

// resolveBase collapses CWD and base, joining a relative base onto CWD,
// and verifies the result stays within CWD.
func resolveBase(baseDir string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", xerrors.ReadError(".", err)
	}
	collapsedCWD := fsops.CollapsePath(cwd)

	var collapsedBase string
	if filepath.IsAbs(baseDir) {
		collapsedBase = fsops.CollapsePath(baseDir)
	} else {
		collapsedBase = fsops.CollapsePath(filepath.Join(collapsedCWD, baseDir))
	}

	if !strings.HasPrefix(collapsedBase, collapsedCWD) {
		return "", &xerrors.SecurityViolation{Target: collapsedBase, Base: collapsedCWD}
	}
	return collapsedBase, nil
}

// guard combines the lexical containment check with a real-filesystem
// re-check of relPath's deepest existing ancestor under baseDir, so a symlink
// planted under baseDir that points back out is caught even though the
// lexical check alone would never see it.
func guard(baseDir, relPath, fullPath string) error {
	if err := fsguard.CheckInBase(fullPath, baseDir); err != nil {
		return err
	}
	return fsguard.CheckRealPath(baseDir, relPath)
}

func dispatch(ctx context.Context, baseDir string, d directives.FileDirective) (*directives.MatchTier, error) {
	switch d.Kind {
	case directives.KindNew:
		return nil, applyNew(ctx, baseDir, d)
	case directives.KindPatch:
		return applyPatch(ctx, baseDir, d)
	case directives.KindHashlinePatch:
		return nil, applyHashlinePatch(ctx, baseDir, d)
	case directives.KindRename:
		return nil, applyRename(ctx, baseDir, d)
	case directives.KindDelete:
		return nil, applyDelete(baseDir, d)
	case directives.KindFail:
		return nil, errString(d.ErrorMsg)
	default:
		return nil, &xerrors.UnknownDirectiveTag{Tag: d.Kind.String()}
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func withLock(ctx context.Context, path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ok, err := lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return xerrors.WriteError(path, err)
	}
	if !ok {
		return xerrors.WriteError(path, errString("timed out waiting for file lock"))
	}
	defer lock.Unlock()

	return fn()
}

func applyNew(ctx context.Context, baseDir string, d directives.FileDirective) error {
	fullPath := filepath.Join(baseDir, d.FilePath)
	if err := guard(baseDir, d.FilePath, fullPath); err != nil {
		return err
	}
	if err := fsops.EnsureParentDir(fullPath); err != nil {
		return err
	}

	return withLock(ctx, fullPath, func() error {
		if fsops.Exists(fullPath) {
			existing, err := fsops.ReadFile(fullPath)
			if err != nil {
				return err
			}
			if existing == d.Content.Text {
				return &xerrors.NoChanges{Path: d.FilePath}
			}
		}

		return fsops.WriteFileAtomic(fullPath, d.Content.Text)
	})
}

func applyPatch(ctx context.Context, baseDir string, d directives.FileDirective) (*directives.MatchTier, error) {
	fullPath := filepath.Join(baseDir, d.FilePath)
	if err := guard(baseDir, d.FilePath, fullPath); err != nil {
		return nil, err
	}
	if err := fsops.EnsureParentDir(fullPath); err != nil {
		return nil, err
	}

	var tier *directives.MatchTier
	err := withLock(ctx, fullPath, func() error {
		exists := fsops.Exists(fullPath)
		original := ""
		if exists {
			content, err := fsops.ReadFile(fullPath)
			if err != nil {
				return err
			}
			original = content
		}

		result, t, err := patchcomplete.Apply(d.FilePath, original, d.Content.Text)
		if err != nil {
			return err
		}
		if exists && result == original {
			return &xerrors.NoChanges{Path: d.FilePath}
		}
		converted := convertTier(t)
		tier = &converted

		return fsops.WriteFileAtomic(fullPath, result)
	})
	return tier, err
}

func convertTier(t patchcomplete.MatchTier) directives.MatchTier {
	switch t {
	case patchcomplete.Strict:
		return directives.TierStrict
	case patchcomplete.Resilient:
		return directives.TierResilient
	default:
		return directives.TierFuzzy
	}
}

func applyHashlinePatch(ctx context.Context, baseDir string, d directives.FileDirective) error {
	fullPath := filepath.Join(baseDir, d.FilePath)
	if err := guard(baseDir, d.FilePath, fullPath); err != nil {
		return err
	}
	if err := fsops.EnsureParentDir(fullPath); err != nil {
		return err
	}

	return withLock(ctx, fullPath, func() error {
		original := ""
		exists := fsops.Exists(fullPath)
		if exists {
			content, err := fsops.ReadFile(fullPath)
			if err != nil {
				return err
			}
			original = content
		}

		result, err := hashline.ApplyEdits(original, d.Edits)
		if err != nil {
			return err
		}

		if exists && result.Content == original {
			return &xerrors.NoChanges{Path: d.FilePath}
		}

		return fsops.WriteFileAtomic(fullPath, result.Content)
	})
}

func applyRename(ctx context.Context, baseDir string, d directives.FileDirective) error {
	fullFrom := filepath.Join(baseDir, d.FromPath)
	fullTo := filepath.Join(baseDir, d.ToPath)

	if err := guard(baseDir, d.FromPath, fullFrom); err != nil {
		return err
	}
	if err := guard(baseDir, d.ToPath, fullTo); err != nil {
		return err
	}

	if !fsops.Exists(fullFrom) {
		return &xerrors.PathNotFound{Op: "rename source", Path: d.FromPath}
	}
	if err := fsops.EnsureParentDir(fullTo); err != nil {
		return err
	}

	return withLock(ctx, fullTo, func() error {
		return fsops.Rename(fullFrom, fullTo)
	})
}

// applyDelete trashes the target file or directory. Unlike the source
// this was ported from, Delete is guarded by the same containment
// check as every other destructive operation.
func applyDelete(baseDir string, d directives.FileDirective) error {
	fullPath := filepath.Join(baseDir, d.FilePath)
	if err := guard(baseDir, d.FilePath, fullPath); err != nil {
		return err
	}

	info, statErr := os.Stat(fullPath)
	if statErr != nil {
		return &xerrors.PathNotFound{Op: "delete", Path: d.FilePath}
	}

	if info.IsDir() {
		return fsops.TrashDir(fullPath)
	}
	return fsops.TrashFile(fullPath)
}
