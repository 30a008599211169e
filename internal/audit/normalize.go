package audit

import (
	"github.com/google/uuid"
)

const parseFailureMessage = "Failed to parse audit results."

// Normalize maps any historical response shape into the canonical Result.
// Total function: a malformed upstream payload degrades to an error result,
// never a panic. It is the last line of defense before rendering.
func Normalize(raw map[string]any) (out Result) {
	defer func() {
		if r := recover(); r != nil {
			out = Result{Issues: []Issue{}, Error: parseFailureMessage}
		}
	}()

	if raw == nil {
		return Result{Issues: []Issue{}, Error: "Invalid API response shape."}
	}

	// An error structure short-circuits; message wins over the error kind as
	// the display string.
	if kind := stringField(raw, "error"); kind != "" {
		msg := stringField(raw, "message")
		if msg == "" {
			msg = kind
		}
		return Result{Issues: []Issue{}, Error: msg, Details: raw["details"]}
	}

	issues := []Issue{}
	if rawIssues, present := raw["issues"]; present && rawIssues != nil {
		arr, ok := rawIssues.([]any)
		if !ok {
			return Result{Issues: []Issue{}, Error: parseFailureMessage}
		}
		for _, el := range arr {
			m, ok := el.(map[string]any)
			if !ok {
				continue
			}
			issues = append(issues, normalizeIssue(m))
		}
	}

	return Result{
		Issues:            issues,
		LowConfidence:     boolField(raw, "lowConfidence"),
		NearMinimumDetail: boolField(raw, "nearMinimumDetail"),
	}
}

// normalizeIssue projects one issue of any known vintage into the canonical
// shape. New-contract fields win over legacy ones: guidance over title over
// summary, whyItMatters over description over details.
func normalizeIssue(m map[string]any) Issue {
	return Issue{
		ID:           issueID(m),
		Guidance:     firstString(m, "guidance", "title", "summary"),
		WhoItAffects: stringField(m, "whoItAffects"),
		WhyItMatters: firstString(m, "whyItMatters", "description", "details"),
		WCAGRefs:     wcagRefs(m),
		Severity:     normalizeSeverity(stringField(m, "severity")),
	}
}

func issueID(m map[string]any) string {
	if id := stringField(m, "id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func normalizeSeverity(s string) string {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return s
	case "med":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func wcagRefs(m map[string]any) []string {
	if arr, ok := m["wcagRefs"].([]any); ok {
		refs := []string{}
		for _, v := range arr {
			if s, ok := v.(string); ok {
				refs = append(refs, s)
			}
		}
		return refs
	}
	if ref := stringField(m, "wcagRef"); ref != "" {
		return []string{ref}
	}
	return []string{}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// firstString walks keys in precedence order and returns the first non-empty
// string value. Legacy array values (shape 3 carried details as a list) are
// joined with spaces.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			joined := ""
			for _, el := range v {
				s, ok := el.(string)
				if !ok || s == "" {
					continue
				}
				if joined != "" {
					joined += " "
				}
				joined += s
			}
			if joined != "" {
				return joined
			}
		}
	}
	return ""
}
