package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"filechanges/internal/directives"
)

func TestExtractFileChangesBasic(t *testing.T) {
	input := `
Some preamble text.

<FILE_CHANGES>
  <FILE_NEW file_path="a.txt">
hello
</FILE_NEW>
  <FILE_RENAME from_path="b.txt" to_path="c.txt"/>
  <FILE_DELETE file_path="d.txt"/>
</FILE_CHANGES>
`
	changes, _ := ExtractFileChanges(input, false)
	require.Len(t, changes, 3)

	require.Equal(t, directives.KindNew, changes[0].Kind)
	require.Equal(t, "a.txt", changes[0].FilePath)
	require.Equal(t, "hello\n", changes[0].Content.Text)

	require.Equal(t, directives.KindRename, changes[1].Kind)
	require.Equal(t, "b.txt", changes[1].FromPath)
	require.Equal(t, "c.txt", changes[1].ToPath)

	require.Equal(t, directives.KindDelete, changes[2].Kind)
	require.Equal(t, "d.txt", changes[2].FilePath)
}

func TestExtractFileChangesMissingAttributeBecomesFail(t *testing.T) {
	input := `<FILE_CHANGES><FILE_NEW>no path here</FILE_NEW></FILE_CHANGES>`
	changes, _ := ExtractFileChanges(input, false)
	require.Len(t, changes, 1)
	require.Equal(t, directives.KindFail, changes[0].Kind)
	require.Contains(t, changes[0].ErrorMsg, "file_path")
}

func TestExtractFileChangesUnknownTagBecomesFail(t *testing.T) {
	input := `<FILE_CHANGES><FILE_BOGUS file_path="x"/></FILE_CHANGES>`
	changes, _ := ExtractFileChanges(input, false)
	require.Len(t, changes, 1)
	require.Equal(t, directives.KindFail, changes[0].Kind)
	require.Equal(t, "x", changes[0].FailFilePathHint)
}

func TestExtractFileChangesHashlinePatch(t *testing.T) {
	input := "<FILE_CHANGES><FILE_HASHLINE_PATCH file_path=\"e.txt\">\n1#ZZ:hello\n</FILE_HASHLINE_PATCH></FILE_CHANGES>"
	changes, _ := ExtractFileChanges(input, false)
	require.Len(t, changes, 1)
	require.Equal(t, directives.KindHashlinePatch, changes[0].Kind)
	require.Len(t, changes[0].Edits, 1)
}

func TestExtractFileChangesSelfClosingPatch(t *testing.T) {
	input := `<FILE_CHANGES><FILE_PATCH file_path="f.txt"/></FILE_CHANGES>`
	changes, _ := ExtractFileChanges(input, false)
	require.Len(t, changes, 1)
	require.Equal(t, directives.KindPatch, changes[0].Kind)
	require.Equal(t, "f.txt", changes[0].FilePath)
}

func TestExtractFileChangesNoBlock(t *testing.T) {
	changes, _ := ExtractFileChanges("no directives here", false)
	require.Empty(t, changes)
}
