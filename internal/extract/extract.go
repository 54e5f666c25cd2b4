// Package extract locates the first <FILE_CHANGES> block in a document
// and parses its child directive tags into directives.FileChanges.
package extract

import (
	"strings"

	"filechanges/internal/directives"
	"filechanges/internal/hashline"
	"filechanges/internal/tagextract"
	"filechanges/internal/xerrors"
)

var childTagNames = []string{"FILE_NEW", "FILE_PATCH", "FILE_HASHLINE_PATCH", "FILE_RENAME", "FILE_DELETE"}

// ExtractFileChanges scans input for the first <FILE_CHANGES> block and
// parses its children into an ordered FileChanges. When extrudeOther is
// set, the second return value is the input text with the matched block
// removed.
func ExtractFileChanges(input string, extrudeOther bool) (directives.FileChanges, string) {
	outer := tagextract.Extract(input, []string{"FILE_CHANGES"}, extrudeOther)

	if len(outer.Elems) == 0 {
		if extrudeOther {
			return nil, outer.Outside
		}
		return nil, ""
	}

	changesTag := outer.Elems[0]
	innerContent := expandSelfClosingTags(changesTag.Content)

	// Scan for every FILE_* tag, not just the known ones, so an unknown
	// child tag surfaces as a Fail directive instead of being skipped.
	names := append([]string(nil), childTagNames...)
	for rest := innerContent; ; {
		idx := strings.Index(rest, "<FILE_")
		if idx < 0 {
			break
		}
		rest = rest[idx+1:]
		end := strings.IndexAny(rest, " \t\r\n/>")
		if end < 0 {
			break
		}
		names = append(names, rest[:end])
	}

	childResult := tagextract.Extract(innerContent, names, false)

	var out directives.FileChanges
	for _, elem := range childResult.Elems {
		out = append(out, parseChild(elem))
	}

	if extrudeOther {
		return out, outer.Outside
	}
	return out, ""
}

func parseChild(elem tagextract.TagElem) directives.FileDirective {
	filePathHint := firstNonEmpty(elem.Attrs["file_path"], elem.Attrs["to_path"], elem.Attrs["from_path"])

	fd, err := buildDirective(elem)
	if err != nil {
		return directives.FileDirective{
			Kind:             directives.KindFail,
			FailFilePathHint: filePathHint,
			ErrorMsg:         err.Error(),
		}
	}
	return fd
}

func buildDirective(elem tagextract.TagElem) (directives.FileDirective, error) {
	switch elem.Tag {
	case "FILE_NEW":
		filePath, ok := elem.Attrs["file_path"]
		if !ok {
			return directives.FileDirective{}, &xerrors.MissingAttribute{Tag: "FILE_NEW", Attr: "file_path"}
		}
		return directives.FileDirective{
			Kind:     directives.KindNew,
			FilePath: filePath,
			Content:  directives.NewContent(elem.Content),
		}, nil

	case "FILE_PATCH":
		filePath, ok := elem.Attrs["file_path"]
		if !ok {
			return directives.FileDirective{}, &xerrors.MissingAttribute{Tag: "FILE_PATCH", Attr: "file_path"}
		}
		return directives.FileDirective{
			Kind:     directives.KindPatch,
			FilePath: filePath,
			Content:  directives.NewContent(elem.Content),
		}, nil

	case "FILE_HASHLINE_PATCH":
		filePath, ok := elem.Attrs["file_path"]
		if !ok {
			return directives.FileDirective{}, &xerrors.MissingAttribute{Tag: "FILE_HASHLINE_PATCH", Attr: "file_path"}
		}
		edits, err := parseHashlineEdits(elem.Content)
		if err != nil {
			return directives.FileDirective{}, err
		}
		return directives.FileDirective{
			Kind:     directives.KindHashlinePatch,
			FilePath: filePath,
			Edits:    edits,
		}, nil

	case "FILE_RENAME":
		fromPath, ok := elem.Attrs["from_path"]
		if !ok {
			return directives.FileDirective{}, &xerrors.MissingAttribute{Tag: "FILE_RENAME", Attr: "from_path"}
		}
		toPath, ok := elem.Attrs["to_path"]
		if !ok {
			return directives.FileDirective{}, &xerrors.MissingAttribute{Tag: "FILE_RENAME", Attr: "to_path"}
		}
		return directives.FileDirective{Kind: directives.KindRename, FromPath: fromPath, ToPath: toPath}, nil

	case "FILE_DELETE":
		filePath, ok := elem.Attrs["file_path"]
		if !ok {
			return directives.FileDirective{}, &xerrors.MissingAttribute{Tag: "FILE_DELETE", Attr: "file_path"}
		}
		return directives.FileDirective{Kind: directives.KindDelete, FilePath: filePath}, nil

	default:
		return directives.FileDirective{}, &xerrors.UnknownDirectiveTag{Tag: elem.Tag}
	}
}

// parseHashlineEdits splits content into non-blank trimmed lines and
// parses each as one hashline edit. A single bad line fails the whole
// directive rather than applying a partial edit set.
func parseHashlineEdits(content string) ([]hashline.Edit, error) {
	var edits []hashline.Edit
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		edit, err := hashline.ParseEdit(trimmed)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}
	return edits, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// expandSelfClosingTags rewrites self-closing forms of the five child
// directive tags (<TAG .../>) to the open/close form (<TAG ...></TAG>)
// in place, so the child scan recognises them uniformly. Byte positions
// outside the rewritten spans are preserved exactly.
func expandSelfClosingTags(content string) string {
	for _, tag := range childTagNames {
		content = expandSelfClosingTag(content, tag)
	}
	return content
}

func expandSelfClosingTag(content, tag string) string {
	tagPattern := "<" + tag
	searchPos := 0
	for {
		idx := strings.Index(content[searchPos:], tagPattern)
		if idx < 0 {
			break
		}
		startIdx := searchPos + idx
		gt := strings.IndexByte(content[startIdx:], '>')
		if gt < 0 {
			break
		}
		endIdx := startIdx + gt

		trimmedPart := strings.TrimRight(content[:endIdx], " \t\r\n")
		if strings.HasSuffix(trimmedPart, "/") {
			slashIdx := len(trimmedPart) - 1
			expansion := "></" + tag + ">"
			content = content[:slashIdx] + expansion + content[endIdx+1:]
			searchPos = slashIdx + len(expansion)
		} else {
			searchPos = endIdx + 1
		}
	}
	return content
}
