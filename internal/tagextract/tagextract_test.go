package tagextract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractOpenCloseTag(t *testing.T) {
	res := Extract(`<FOO attr="bar">hello</FOO>`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "FOO", res.Elems[0].Tag)
	require.Equal(t, "bar", res.Elems[0].Attrs["attr"])
	require.Equal(t, "hello", res.Elems[0].Content)
}

func TestExtractSelfClosingTag(t *testing.T) {
	res := Extract(`<FOO attr="bar"/>`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "", res.Elems[0].Content)
	require.Equal(t, "bar", res.Elems[0].Attrs["attr"])
}

func TestExtractIgnoresUnlistedTags(t *testing.T) {
	res := Extract(`<BAR>nope</BAR><FOO>yes</FOO>`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "yes", res.Elems[0].Content)
}

func TestExtractMultipleAttrsSingleAndDoubleQuote(t *testing.T) {
	res := Extract(`<FOO a="1" b='2'></FOO>`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "1", res.Elems[0].Attrs["a"])
	require.Equal(t, "2", res.Elems[0].Attrs["b"])
}

func TestExtractCaseInsensitiveClosingTag(t *testing.T) {
	res := Extract(`<Foo>content</foo>`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "content", res.Elems[0].Content)
}

func TestExtractExtrudeOther(t *testing.T) {
	res := Extract(`before<FOO>x</FOO>after`, []string{"FOO"}, true)
	require.Equal(t, "beforeafter", res.Outside)
}

func TestExtractUnterminatedTagConsumesRest(t *testing.T) {
	res := Extract(`<FOO>dangling content`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "dangling content", res.Elems[0].Content)
}

func TestExtractMalformedAttributeIgnored(t *testing.T) {
	res := Extract(`<FOO a=noquotes b="ok"></FOO>`, []string{"FOO"}, false)
	require.Len(t, res.Elems, 1)
	require.Equal(t, "ok", res.Elems[0].Attrs["b"])
	_, hasA := res.Elems[0].Attrs["a"]
	require.False(t, hasA)
}
