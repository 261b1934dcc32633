package match

import (
	"strings"
	"unicode/utf8"
)

// contextRadius is how many characters around a hit are captured before
// snapping to sentence boundaries.
const contextRadius = 150

// contexts builds the stored context string for a keyword: up to
// MaxContexts windows around the first occurrences, near-duplicates
// dropped, joined with an ellipsis separator and capped.
func (e *Engine) contexts(text string, positions []int, wordLen int) string {
	var kept []string
	for _, pos := range positions {
		if len(kept) >= e.cfg.MaxContexts {
			break
		}
		window := contextWindow(text, pos, wordLen)
		if window == "" {
			continue
		}
		if isNearDuplicate(window, kept, e.cfg.SimilarityThreshold) {
			continue
		}
		kept = append(kept, window)
	}

	joined := strings.Join(kept, " [...] ")
	return capLength(joined, e.cfg.MaxContextLength)
}

// capLength trims to at most max bytes without splitting a multi-byte rune.
func capLength(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// contextWindow extracts text around an occurrence, preferring sentence
// boundaries inside the radius and marking truncation with ellipses.
func contextWindow(text string, pos, wordLen int) string {
	start := pos - contextRadius
	if start < 0 {
		start = 0
	}
	end := pos + wordLen + contextRadius
	if end > len(text) {
		end = len(text)
	}

	// The radius is a byte offset; snap both edges to rune boundaries.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	window := text[start:end]

	prefix := ""
	if start > 0 {
		if idx := strings.Index(window, ". "); idx >= 0 && idx < pos-start {
			window = window[idx+2:]
			start += idx + 2
		} else {
			prefix = "..."
		}
	}

	suffix := ""
	if end < len(text) {
		if idx := strings.LastIndex(window, ". "); idx > pos-start+wordLen {
			window = window[:idx+1]
		} else {
			suffix = "..."
		}
	}

	window = strings.TrimSpace(window)
	if window == "" {
		return ""
	}
	return prefix + window + suffix
}

// isNearDuplicate reports whether the candidate's token set overlaps an
// already-kept window past the similarity threshold.
func isNearDuplicate(candidate string, kept []string, threshold float64) bool {
	for _, existing := range kept {
		if jaccard(candidate, existing) > threshold {
			return true
		}
	}
	return false
}

// jaccard computes token-set similarity between two strings.
func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}
