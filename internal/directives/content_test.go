package directives

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContentStripsOneLeadingNewline(t *testing.T) {
	c := NewContent("\n  indented line\n")
	require.Equal(t, "  indented line\n", c.Text)
	require.Nil(t, c.CodeFence)
}

func TestNewContentStripsOnlyOneLeadingNewline(t *testing.T) {
	c := NewContent("\n\nsecond blank preserved\n")
	require.Equal(t, "\nsecond blank preserved\n", c.Text)
}

func TestNewContentPeelsCodeFence(t *testing.T) {
	c := NewContent("\n```go\npackage main\n```\n")
	require.Equal(t, "package main\n", c.Text)
	require.NotNil(t, c.CodeFence)
	require.Equal(t, "```go", c.CodeFence.Start)
	require.Equal(t, "```", c.CodeFence.End)
}

func TestNewContentNoFenceWhenUnterminated(t *testing.T) {
	c := NewContent("\n```go\npackage main\n")
	require.Equal(t, "```go\npackage main\n", c.Text)
	require.Nil(t, c.CodeFence)
}

func TestNewContentEmpty(t *testing.T) {
	c := NewContent("")
	require.Equal(t, "", c.Text)
	require.Nil(t, c.CodeFence)
}

func TestFileChangesIsEmpty(t *testing.T) {
	var fc FileChanges
	require.True(t, fc.IsEmpty())
	fc = append(fc, FileDirective{Kind: KindDelete})
	require.False(t, fc.IsEmpty())
}
