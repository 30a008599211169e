// Package audit implements the screen-description audit pipeline: request
// validation, signal classification, prompt construction, completion
// parsing/repair, and normalization into the canonical issue list.
package audit

// Severity levels a canonical issue may carry. The normalizer guarantees no
// other value ever reaches a consumer.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Request is a validated audit submission.
type Request struct {
	Input   string `json:"input"`
	Context string `json:"context,omitempty"`
}

// Issue is the canonical audit issue shape. All historical response shapes
// normalize into this one.
type Issue struct {
	ID           string   `json:"id"`
	Guidance     string   `json:"guidance"`
	WhoItAffects string   `json:"whoItAffects"`
	WhyItMatters string   `json:"whyItMatters"`
	WCAGRefs     []string `json:"wcagRefs"`
	Severity     string   `json:"severity"`
}

// Result is the canonical audit outcome handed to consumers. Constructed
// fresh per request and never mutated afterwards.
type Result struct {
	Issues            []Issue `json:"issues"`
	LowConfidence     bool    `json:"lowConfidence"`
	NearMinimumDetail bool    `json:"nearMinimumDetail"`
	Error             string  `json:"error,omitempty"`
	Details           any     `json:"details,omitempty"`
}
