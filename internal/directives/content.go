package directives

import "strings"

// CodeFence records the exact fence lines peeled off a Content payload,
// kept only so the original payload can be round-tripped if ever needed.
type CodeFence struct {
	Start string
	End   string
}

// Content is a directive's text payload with its code fence (if any)
// peeled off.
type Content struct {
	Text      string
	CodeFence *CodeFence
}

// NewContent builds a Content from a raw tag body. It strips exactly
// one leading newline (not all leading whitespace — directive bodies
// routinely begin with a single newline right after the opening tag,
// and stripping more would eat intentional indentation on the first
// content line). If what remains is wrapped in a Markdown code fence —
// first line starts with "```", last line (after trimming trailing
// newlines) starts with "```" — the fence lines are peeled and the inner
// body is, in turn, stripped of one leading newline.
func NewContent(raw string) Content {
	remaining := stripOneLeadingNewline(raw)

	if !strings.HasPrefix(remaining, "```") {
		return Content{Text: remaining}
	}

	firstNL := strings.IndexByte(remaining, '\n')
	if firstNL < 0 {
		return Content{Text: remaining}
	}
	startFence := strings.TrimSpace(remaining[:firstNL])
	rest := remaining[firstNL+1:]

	trimmedEnd := strings.TrimRight(rest, "\n")

	lastNL := strings.LastIndexByte(trimmedEnd, '\n')
	var lastLine, body string
	if lastNL < 0 {
		lastLine = trimmedEnd
		body = ""
	} else {
		lastLine = trimmedEnd[lastNL+1:]
		body = trimmedEnd[:lastNL+1]
	}
	if !strings.HasPrefix(strings.TrimSpace(lastLine), "```") {
		return Content{Text: remaining}
	}

	return Content{
		Text:      stripOneLeadingNewline(body),
		CodeFence: &CodeFence{Start: startFence, End: strings.TrimSpace(lastLine)},
	}
}

func stripOneLeadingNewline(s string) string {
	return strings.TrimPrefix(s, "\n")
}
