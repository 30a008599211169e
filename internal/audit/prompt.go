package audit

import (
	"strings"
)

const promptVersion = "accesslens-audit-v1"

// forbiddenPhrases is the hedging policy: phrasing the model must never use,
// because a text description can suggest but never confirm a defect.
var forbiddenPhrases = []string{
	"is missing", "lacks", "fails", "violates", "does not have",
	"is incorrect", "is inaccessible", "does not comply", "non-compliant",
	"pass", "fail", "approved", "certified", "compliant",
}

// BuildSystemPrompt encodes the output contract: strict JSON, UI scope only,
// hedged language, and the exact canonical field set per issue.
func BuildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(`
You are an accessibility guidance assistant for Access Lens.
Return ONLY a valid JSON object. No markdown fencing, no prose outside the JSON.
Audit only UI and screen-level concepts. If the text describes specifications,
backend systems, data models, or architecture rather than a user interface,
return {"issues": []}.
Every claim must be hedged and conditional, for example "If present...",
"May affect...", "Consider whether...". Never assert that a defect exists.
`))
	b.WriteString("\nForbidden terms: ")
	b.WriteString(strings.Join(forbiddenPhrases, ", "))
	b.WriteString(".\n")
	b.WriteString(strings.TrimSpace(`
Each element of "issues" must contain exactly these fields, in this order:
guidance, whoItAffects, whyItMatters, wcagRefs, severity.
guidance, whoItAffects, and whyItMatters are strings.
wcagRefs is an array of WCAG 2.2 criterion references, possibly empty.
severity is exactly one of "low", "medium", or "high".
`))
	return b.String()
}

// BuildUserPrompt embeds the screen description and repeats the JSON-only
// instruction.
func BuildUserPrompt(input string) string {
	var b strings.Builder
	b.WriteString("Screen description:\n")
	b.WriteString(input)
	b.WriteString("\n\nReturn only the JSON object described in the system instructions.")
	return b.String()
}
