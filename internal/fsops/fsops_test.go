package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, WriteFileAtomic(path, "hello\n"))
	content, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello\n", content)

	require.NoError(t, WriteFileAtomic(path, "overwritten\n"))
	content, err = ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "overwritten\n", content)
}

func TestWriteFileAtomicNoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, WriteFileAtomic(path, "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "out.txt", entries[0].Name())
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c.txt")
	require.NoError(t, EnsureParentDir(nested))
	info, err := os.Stat(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "from.txt")
	to := filepath.Join(dir, "to.txt")
	require.NoError(t, WriteFileAtomic(from, "data"))

	require.NoError(t, Rename(from, to))
	require.False(t, Exists(from))
	require.True(t, Exists(to))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	require.False(t, Exists(filepath.Join(dir, "missing")))
	path := filepath.Join(dir, "present")
	require.NoError(t, WriteFileAtomic(path, "x"))
	require.True(t, Exists(path))
}

func TestTrashFileMovesNotUnlinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "victim.txt")
	require.NoError(t, WriteFileAtomic(path, "data"))

	require.NoError(t, TrashFile(path))
	require.False(t, Exists(path))

	trashDir := filepath.Join(dir, trashDirName)
	entries, err := os.ReadDir(trashDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Name(), "victim.txt")
}

func TestTrashDir(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victimdir")
	require.NoError(t, os.Mkdir(victim, 0o755))
	require.NoError(t, WriteFileAtomic(filepath.Join(victim, "f.txt"), "x"))

	require.NoError(t, TrashDir(victim))
	require.False(t, Exists(victim))

	trashDir := filepath.Join(dir, trashDirName)
	entries, err := os.ReadDir(trashDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCollapsePath(t *testing.T) {
	require.Equal(t, "/a/b", CollapsePath("/a/c/../b"))
	require.Equal(t, "/a/b", CollapsePath("/a/./b"))
}
