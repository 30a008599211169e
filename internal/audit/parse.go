package audit

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidCompletion reports completion text that is not JSON at all.
// Only total parse failure is fatal; field-level oddities flow on to the
// normalizer.
var ErrInvalidCompletion = errors.New("completion is not valid JSON")

// ParseCompletion strips incidental markdown fencing, parses the completion
// text, and backfills bookkeeping fields the model occasionally omits.
// Failing the whole request over a missing count would discard usable issue
// data, so summary and metadata are repaired rather than rejected.
func ParseCompletion(raw, model string) (map[string]any, error) {
	text := stripFences(raw)
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, ErrInvalidCompletion
	}
	repairCompletion(obj, model, time.Now())
	return obj, nil
}

// stripFences removes a leading/trailing triple-backtick fence, optionally
// tagged json. Providers sometimes wrap JSON in markdown despite instruction
// not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func repairCompletion(obj map[string]any, model string, now time.Time) {
	if _, ok := obj["issues"]; !ok {
		obj["issues"] = []any{}
	}

	meta, _ := obj["metadata"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}
	if s, _ := meta["generatedAt"].(string); s == "" {
		meta["generatedAt"] = now.UTC().Format(time.RFC3339)
	}
	if s, _ := meta["model"].(string); s == "" {
		meta["model"] = model
	}
	obj["metadata"] = meta

	sum, _ := obj["summary"].(map[string]any)
	if sum == nil {
		sum = map[string]any{}
	}
	if total, _ := sum["total"].(float64); total == 0 {
		counts := countBySeverity(obj["issues"])
		sum["total"] = counts[SeverityLow] + counts[SeverityMedium] + counts[SeverityHigh]
		sum["high"] = counts[SeverityHigh]
		sum["medium"] = counts[SeverityMedium]
		sum["low"] = counts[SeverityLow]
	}
	obj["summary"] = sum
}

func countBySeverity(issues any) map[string]int {
	counts := map[string]int{}
	arr, ok := issues.([]any)
	if !ok {
		return counts
	}
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		sev, _ := m["severity"].(string)
		counts[normalizeSeverity(sev)]++
	}
	return counts
}
