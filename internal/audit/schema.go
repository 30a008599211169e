package audit

// auditResponseSchema is handed to the provider as the JSON response schema.
// summary and metadata are optional bookkeeping; the parser backfills them
// when the model omits them.
func auditResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"required": []any{
			"issues",
		},
		"properties": map[string]any{
			"issues": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"required": []any{
						"guidance",
						"whoItAffects",
						"whyItMatters",
						"wcagRefs",
						"severity",
					},
					"properties": map[string]any{
						"guidance": map[string]any{
							"type": "string",
						},
						"whoItAffects": map[string]any{
							"type": "string",
						},
						"whyItMatters": map[string]any{
							"type": "string",
						},
						"wcagRefs": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"severity": map[string]any{
							"type": "string",
							"enum": []any{"low", "medium", "high"},
						},
					},
					"additionalProperties": false,
				},
			},
			"summary": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"total":  map[string]any{"type": "integer"},
					"high":   map[string]any{"type": "integer"},
					"medium": map[string]any{"type": "integer"},
					"low":    map[string]any{"type": "integer"},
				},
			},
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"model":       map[string]any{"type": "string"},
					"generatedAt": map[string]any{"type": "string"},
				},
			},
		},
	}
}
