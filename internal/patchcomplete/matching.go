package patchcomplete

import (
	"strings"
)

// normalizeWS collapses runs of whitespace into a single space.
func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isMarkdownHeading(s string) bool {
	return strings.HasPrefix(s, "#")
}

func stripMarkdownHeading(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "#"))
}

// suffixMatch checks whether one trimmed line is a suffix of the other,
// guarding against false positives from very short fragments.
func suffixMatch(origTrimmed, patchTrimmed string, caseInsensitive bool) bool {
	origNorm := normalizeWS(origTrimmed)
	patchNorm := normalizeWS(patchTrimmed)
	if caseInsensitive {
		origNorm = strings.ToLower(origNorm)
		patchNorm = strings.ToLower(patchNorm)
	}
	if len(patchNorm) >= suffixMatchMinLen && strings.HasSuffix(origNorm, patchNorm) {
		return true
	}
	if len(origNorm) >= suffixMatchMinLen && strings.HasSuffix(patchNorm, origNorm) {
		return true
	}
	return false
}

func trimTrailingPunct(s string) string {
	return strings.TrimRightFunc(s, isASCIIPunct)
}

func isASCIIPunct(r rune) bool {
	switch {
	case r >= '!' && r <= '/':
		return true
	case r >= ':' && r <= '@':
		return true
	case r >= '[' && r <= '`':
		return true
	case r >= '{' && r <= '~':
		return true
	default:
		return false
	}
}

// lineMatches checks whether an original line matches a patch line at
// the given tier. Strict requires byte-for-byte equality; Resilient
// adds trimming, whitespace normalization, Markdown-heading-aware
// comparison, and suffix matching; Fuzzy does all of the above
// case-insensitively, plus backtick- and trailing-punctuation-tolerant
// comparison.
func lineMatches(origLine, pLine string, tier MatchTier) bool {
	switch tier {
	case Strict:
		return origLine == pLine
	case Resilient:
		origTrimmed := strings.TrimSpace(origLine)
		pTrimmed := strings.TrimSpace(pLine)
		if origTrimmed == "" || pTrimmed == "" {
			return origTrimmed == pTrimmed
		}
		if origTrimmed == pTrimmed || normalizeWS(origTrimmed) == normalizeWS(pTrimmed) {
			return true
		}
		if isMarkdownHeading(origTrimmed) && isMarkdownHeading(pTrimmed) &&
			normalizeWS(stripMarkdownHeading(origTrimmed)) == normalizeWS(stripMarkdownHeading(pTrimmed)) {
			return true
		}
		return suffixMatch(origTrimmed, pTrimmed, false)
	case Fuzzy:
		oT := strings.TrimSpace(origLine)
		pT := strings.TrimSpace(pLine)
		if oT == "" || pT == "" {
			return oT == pT
		}
		oL := strings.ToLower(oT)
		pL := strings.ToLower(pT)

		if oL == pL || normalizeWS(oL) == normalizeWS(pL) {
			return true
		}
		if isMarkdownHeading(oT) && isMarkdownHeading(pT) &&
			strings.ToLower(normalizeWS(stripMarkdownHeading(oT))) == strings.ToLower(normalizeWS(stripMarkdownHeading(pT))) {
			return true
		}
		if suffixMatch(oT, pT, true) {
			return true
		}
		oNoTick := strings.ReplaceAll(oL, "`", "")
		pNoTick := strings.ReplaceAll(pL, "`", "")
		if oNoTick == pNoTick || normalizeWS(oNoTick) == normalizeWS(pNoTick) {
			return true
		}
		return trimTrailingPunct(oL) == trimTrailingPunct(pL)
	default:
		return false
	}
}

// scoreCandidate scores a candidate match; higher is better. Primary key
// is the count of exact-whitespace matches, secondary is negative
// distance from the expected search position (closer wins).
func scoreCandidate(c candidateMatch, searchFrom int) (int, int) {
	var distance int
	if c.idx >= searchFrom {
		distance = c.idx - searchFrom
	} else {
		distance = searchFrom - c.idx
	}
	return c.exactWsCount, -distance
}

// scoreLess reports whether score a is strictly worse than score b,
// comparing lexicographically as Rust's tuple Ord does.
func scoreLess(a0, a1, b0, b1 int) bool {
	if a0 != b0 {
		return a0 < b0
	}
	return a1 < b1
}
