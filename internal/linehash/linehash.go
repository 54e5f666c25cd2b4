// Package linehash implements the whitespace-insensitive line hash and
// the two-character tag alphabet shared by the hashline edit engine and
// its mismatch reporting.
package linehash

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pierrec/xxHash/xxHash32"
)

const nibbleAlphabet = "ZPMQVRWSNKTXJBYH"

var dict = buildDict()

func buildDict() [256]string {
	var d [256]string
	nibbles := []rune(nibbleAlphabet)
	for i := 0; i < 256; i++ {
		hi := (i >> 4) & 0x0f
		lo := i & 0x0f
		d[i] = string(nibbles[hi]) + string(nibbles[lo])
	}
	return d
}

// Hash computes the whitespace-insensitive 2-character tag for a single
// line of text (no trailing newline). A single trailing '\r' is stripped
// first, then every Unicode whitespace rune is removed before hashing, so
// indentation and trailing-space drift never change the result. Uses
// 32-bit xxhash seeded 0, matching the reference hasher this format is
// defined against; only the low byte of the 32-bit sum selects the
// 2-character tag.
func Hash(line string) string {
	line = strings.TrimSuffix(line, "\r")
	normalized := stripWhitespace(line)

	h := xxHash32.New(0)
	h.Write([]byte(normalized))
	sum := h.Sum32()

	return dict[byte(sum)]
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatTag renders the "{line}#{hash}" token for a 1-based line number
// and its current content.
func FormatTag(line int, content string) string {
	return strconv.Itoa(line) + "#" + Hash(content)
}

// FormatHashLines renders every line of content as "{n}#{hash}:{text}",
// one per output line, numbering from startLine. Used to emit a tagged
// view of a file for a caller to build hashline edits against.
func FormatHashLines(content string, startLine int) string {
	lines := strings.Split(content, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = FormatTag(startLine+i, line) + ":" + line
	}
	return strings.Join(out, "\n")
}

// StreamOptions bounds the chunking behavior of StreamHashLines.
type StreamOptions struct {
	StartLine     int
	MaxChunkLines int
	MaxChunkBytes int
}

// DefaultStreamOptions mirrors the defaults used when emitting a tagged
// view incrementally rather than as one string.
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{StartLine: 1, MaxChunkLines: 200, MaxChunkBytes: 64 * 1024}
}

// StreamHashLines batches formatted "LINE#ID:content" lines into chunks
// bounded by MaxChunkLines/MaxChunkBytes, for callers that want to stream
// a tagged view of a large file rather than buffer it whole.
func StreamHashLines(lines []string, opts StreamOptions) []string {
	if opts.MaxChunkLines <= 0 {
		opts.MaxChunkLines = 200
	}
	if opts.MaxChunkBytes <= 0 {
		opts.MaxChunkBytes = 64 * 1024
	}
	if opts.StartLine <= 0 {
		opts.StartLine = 1
	}

	lineNum := opts.StartLine
	var outLines []string
	outBytes := 0
	var chunks []string

	flush := func() {
		if len(outLines) > 0 {
			chunks = append(chunks, strings.Join(outLines, "\n"))
			outLines = nil
			outBytes = 0
		}
	}

	if len(lines) == 0 {
		return []string{FormatTag(lineNum, "") + ":"}
	}

	for _, line := range lines {
		formatted := FormatTag(lineNum, line) + ":" + line
		lineNum++

		sep := 0
		if len(outLines) > 0 {
			sep = 1
		}
		if len(outLines) > 0 && (len(outLines) >= opts.MaxChunkLines || outBytes+sep+len(formatted) > opts.MaxChunkBytes) {
			flush()
		}

		sep = 0
		if len(outLines) > 0 {
			sep = 1
		}
		outBytes += sep + len(formatted)
		outLines = append(outLines, formatted)

		if len(outLines) >= opts.MaxChunkLines || outBytes >= opts.MaxChunkBytes {
			flush()
		}
	}
	flush()
	return chunks
}
