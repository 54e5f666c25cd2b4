package patchcomplete

import (
	"strconv"
	"strings"
)

// searchCandidatesForTier scans orig_lines for every position where
// hunkLines' context/removal lines align at the given tier, returning
// every viable candidate (the caller picks the best-scoring one).
func searchCandidatesForTier(origLines []string, hunkLines []string, searchFrom int, tier MatchTier) []candidateMatch {
	var candidates []candidateMatch

	for i := searchFrom; i <= len(origLines); i++ {
		var distance int
		if i >= searchFrom {
			distance = i - searchFrom
		} else {
			distance = searchFrom - i
		}
		if tier > Strict && distance > maxProximityForLenient {
			continue
		}

		matches := true
		overhang := make(map[int]struct{})
		convertedToAdd := make(map[int]struct{})
		matchedOrig := make(map[int]string)
		exactWsCount := 0
		origOff := 0

		for hlIdx, hlLine := range hunkLines {
			if strings.HasPrefix(hlLine, "+") {
				continue
			}

			var pLine string
			if len(hlLine) > 1 {
				pLine = hlLine[1:]
			}

			targetIdx := i + origOff

			if strings.TrimSpace(pLine) == "" {
				if targetIdx < len(origLines) && strings.TrimSpace(origLines[targetIdx]) == "" {
					matchedOrig[hlIdx] = origLines[targetIdx]
					origOff++
				} else {
					convertedToAdd[hlIdx] = struct{}{}
				}
				continue
			}

			if targetIdx < len(origLines) {
				origLine := origLines[targetIdx]
				if lineMatches(origLine, pLine, tier) {
					if origLine == pLine {
						exactWsCount++
					}
					matchedOrig[hlIdx] = origLine
					origOff++
				} else {
					matches = false
					break
				}
			} else {
				if strings.HasPrefix(hlLine, "-") {
					matches = false
					break
				}
				overhang[hlIdx] = struct{}{}
			}
		}

		if !matches || len(matchedOrig) == 0 {
			continue
		}

		significantInFileMatchCount := 0
		for hlIdx := range matchedOrig {
			if strings.TrimSpace(hunkLines[hlIdx]) != "" {
				significantInFileMatchCount++
			}
		}
		if significantInFileMatchCount == 0 {
			continue
		}

		if len(overhang) > 0 {
			if significantInFileMatchCount < 2 || len(overhang) >= significantInFileMatchCount {
				continue
			}
		}

		candidates = append(candidates, candidateMatch{
			idx:               i,
			tier:              tier,
			overhangHLIndices: overhang,
			convertedToAddIdx: convertedToAdd,
			matchedOrigLines:  matchedOrig,
			exactWsCount:      exactWsCount,
		})
	}

	return candidates
}

func computeHunkBounds(origLines []string, hunkLines []string, searchFrom int) (hunkBounds, error) {
	contextLinesCount := 0
	for _, l := range hunkLines {
		if !strings.HasPrefix(l, "+") {
			contextLinesCount++
		}
	}

	if contextLinesCount == 0 {
		finalLines := append([]string(nil), hunkLines...)
		return hunkBounds{
			oldStart:   len(origLines) + 1,
			oldCount:   0,
			newCount:   len(hunkLines),
			finalLines: finalLines,
		}, nil
	}

	tiers := []MatchTier{Strict, Resilient, Fuzzy}
	var candidates []candidateMatch
	for _, tier := range tiers {
		candidates = searchCandidatesForTier(origLines, hunkLines, searchFrom, tier)
		if len(candidates) > 0 {
			break
		}
	}

	if len(candidates) == 0 {
		var contextPattern []string
		for _, l := range hunkLines {
			if strings.HasPrefix(l, " ") || strings.HasPrefix(l, "-") {
				if l == "" {
					contextPattern = append(contextPattern, "")
				} else {
					contextPattern = append(contextPattern, l[1:])
				}
			}
		}
		return hunkBounds{}, &patchCompletionError{
			reason:         "Could not find patch context in original file (starting search from line " + strconv.Itoa(searchFrom+1) + ")",
			contextPattern: strings.Join(contextPattern, "\n"),
		}
	}

	best := candidates[0]
	bs0, bs1 := scoreCandidate(best, searchFrom)
	for _, c := range candidates[1:] {
		s0, s1 := scoreCandidate(c, searchFrom)
		if scoreLess(bs0, bs1, s0, s1) {
			best, bs0, bs1 = c, s0, s1
		}
	}

	var finalLines []string
	oldCount, newCount := 0, 0

	for hlIdx, line := range hunkLines {
		if _, ok := best.overhangHLIndices[hlIdx]; ok {
			continue
		}
		if _, ok := best.convertedToAddIdx[hlIdx]; ok {
			finalLines = append(finalLines, "+")
			newCount++
			continue
		}
		if origContent, ok := best.matchedOrigLines[hlIdx]; ok {
			prefix := byte(' ')
			if strings.HasPrefix(line, "-") {
				prefix = '-'
			}
			finalLines = append(finalLines, string(prefix)+origContent)
			oldCount++
			if prefix != '-' {
				newCount++
			}
			continue
		}
		if strings.HasPrefix(line, "+") {
			finalLines = append(finalLines, line)
			newCount++
		}
	}

	return hunkBounds{
		oldStart:   best.idx + 1,
		oldCount:   oldCount,
		newCount:   newCount,
		finalLines: finalLines,
		tier:       best.tier,
		tierSet:    true,
	}, nil
}

type patchCompletionError struct {
	reason         string
	contextPattern string
}

func (e *patchCompletionError) Error() string {
	return e.reason + "\nContext lines:\n" + e.contextPattern
}
