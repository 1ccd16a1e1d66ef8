package helpers

import (
	"strings"
	"unicode/utf8"
)

// Suggests a known name for a misspelled one. Letter case is ignored and at
// most one character may be missing, added, replaced or swapped with its
// neighbor. Names of three characters or fewer only match ignoring case.
type TypoDetector struct {
	byLowerCase map[string]string

	// Every lower-case name with one character removed
	oneCharTypos map[string]string
}

func MakeTypoDetector(valid []string) TypoDetector {
	detector := TypoDetector{
		byLowerCase:  make(map[string]string),
		oneCharTypos: make(map[string]string),
	}
	for _, correct := range valid {
		lower := strings.ToLower(correct)
		detector.byLowerCase[lower] = correct
		if len(lower) > 3 {
			forEachOneCharRemoved(lower, func(removed string) bool {
				detector.oneCharTypos[removed] = correct
				return true
			})
		}
	}
	return detector
}

func (detector TypoDetector) MaybeCorrectTypo(typo string) (corrected string, ok bool) {
	lower := strings.ToLower(typo)
	if correct, found := detector.byLowerCase[lower]; found {
		return correct, correct != typo
	}

	// A missing character
	if correct, found := detector.oneCharTypos[lower]; found {
		return correct, true
	}

	forEachOneCharRemoved(lower, func(removed string) bool {
		// An added character
		if correct, found := detector.byLowerCase[removed]; found && len(removed) > 3 {
			corrected, ok = correct, true
			return false
		}

		// A replaced character, or two neighbors in the wrong order
		if correct, found := detector.oneCharTypos[removed]; found {
			corrected, ok = correct, true
			return false
		}
		return true
	})
	return
}

// Stops early when "visit" returns false
func forEachOneCharRemoved(text string, visit func(string) bool) {
	for i, ch := range text {
		if !visit(text[:i] + text[i+utf8.RuneLen(ch):]) {
			return
		}
	}
}
