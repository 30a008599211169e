package audit

import (
	"strings"
	"unicode"
)

// Heuristic thresholds for pre-LLM signal classification. Cheap and local:
// they let the UI show confidence banners without added latency or cost.
const (
	lowSignalMinChars          = 15
	lowSignalNoKeywordMaxChars = 50
	specialCharRatioLimit      = 0.5
	nearMinimumChars           = 80
	minUIPrimitiveMatches      = 2
)

// Keyword sets are named variables, not inline literals, so tests can assert
// exact membership and thresholds.
var (
	// nonUIKeywords mark text that describes systems rather than screens.
	nonUIKeywords = []string{
		"database", "api", "backend", "infrastructure",
		"server", "endpoint", "sql", "query",
	}

	// uiKeywords are broad hints that the text concerns a user interface.
	uiKeywords = []string{
		"button", "field", "input", "form", "screen", "page", "interface",
		"ui", "link", "menu", "nav", "modal", "dialog", "card", "list",
	}

	// uiPrimitives are concrete interface elements; naming several suggests
	// the description carries enough detail for useful guidance.
	uiPrimitives = []string{
		"form", "field", "input", "button", "table", "row", "column",
		"error", "validation", "state", "disabled", "loading",
		"navigation", "nav", "menu", "link", "tab", "modal", "dialog",
	}
)

// Signals are advisory annotations attached to an audit result. They never
// gate the completion call; scope enforcement is the prompt's job.
type Signals struct {
	LowSignal         bool
	NearMinimumDetail bool
}

// Classify evaluates both heuristics on the validated input. Both are always
// computed; neither short-circuits the other.
func Classify(input string) Signals {
	s := strings.ToLower(strings.TrimSpace(input))
	return Signals{
		LowSignal:         isLowSignal(s),
		NearMinimumDetail: isNearMinimumDetail(s),
	}
}

func isLowSignal(s string) bool {
	if len(s) < lowSignalMinChars {
		return true
	}
	if containsAny(s, nonUIKeywords) {
		return true
	}
	if specialCharRatio(s) > specialCharRatioLimit {
		return true
	}
	if !containsAny(s, uiKeywords) && len(s) < lowSignalNoKeywordMaxChars {
		return true
	}
	return false
}

func isNearMinimumDetail(s string) bool {
	// Naming two or more concrete primitives carries enough detail even for
	// a short description.
	if countMatches(s, uiPrimitives) >= minUIPrimitiveMatches {
		return false
	}
	return len(s) < nearMinimumChars || countMatches(s, uiPrimitives) < minUIPrimitiveMatches
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func countMatches(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(s, k) {
			n++
		}
	}
	return n
}

// specialCharRatio is the share of runes that are digits or neither letters
// nor spaces. Gibberish and pasted markup score high.
func specialCharRatio(s string) float64 {
	total := 0
	special := 0
	for _, r := range s {
		total++
		if unicode.IsDigit(r) || (!unicode.IsLetter(r) && !unicode.IsSpace(r)) {
			special++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}
