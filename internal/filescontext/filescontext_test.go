package filescontext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSimple(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package a\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "not included\n")

	out, err := Load(dir, []string{"*.go"})
	require.NoError(t, err)
	require.Contains(t, out, `<FILE_CONTENT path="a.go">`)
	require.Contains(t, out, "package a\n")
	require.NotContains(t, out, "b.txt")
}

func TestLoadDoubleStar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "nested", "c.rs"), "fn main() {}\n")
	writeFile(t, filepath.Join(dir, "other", "d.rs"), "fn other() {}\n")

	out, err := Load(dir, []string{"src/**/*.rs"})
	require.NoError(t, err)
	require.Contains(t, out, "nested/c.rs")
	require.NotContains(t, out, "d.rs")
}

func TestLoadNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "x")

	out, err := Load(dir, []string{"*.go"})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestLoadSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "z.go"), "z")
	writeFile(t, filepath.Join(dir, "a.go"), "a")

	out, err := Load(dir, []string{"*.go"})
	require.NoError(t, err)
	aIdx := indexOf(out, "a.go")
	zIdx := indexOf(out, "z.go")
	require.True(t, aIdx < zIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
