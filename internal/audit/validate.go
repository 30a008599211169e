package audit

import (
	"encoding/json"
	"net/http"
	"strings"

	"accesslens/internal/config"
)

// ValidateRequest checks the raw payload and returns a normalized Request or
// a classified rejection. Pure: no side effects beyond classification.
// Shape and type checks run before size checks.
func ValidateRequest(body []byte) (Request, *RequestError) {
	var raw struct {
		Input   json.RawMessage `json:"input"`
		Context json.RawMessage `json:"context"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, badRequest("Request body must be a JSON object.")
	}

	if len(raw.Input) == 0 || isJSONNull(raw.Input) {
		return Request{}, badRequest("No input provided.")
	}
	var input string
	if err := json.Unmarshal(raw.Input, &input); err != nil {
		return Request{}, badRequest("input must be a string.")
	}
	if strings.TrimSpace(input) == "" {
		return Request{}, badRequest("No input provided.")
	}

	// context is optional but, when present, must be a string. null, arrays,
	// objects, numbers, and booleans are rejected rather than coerced.
	context := ""
	if len(raw.Context) > 0 {
		if isJSONNull(raw.Context) {
			return Request{}, badRequest("context must be a string.")
		}
		if err := json.Unmarshal(raw.Context, &context); err != nil {
			return Request{}, badRequest("context must be a string.")
		}
	}

	if len(input) > config.MaxFieldChars {
		return Request{}, payloadTooLarge("input exceeds the 2000 character limit.")
	}
	if len(context) > config.MaxFieldChars {
		return Request{}, payloadTooLarge("context exceeds the 2000 character limit.")
	}

	return Request{Input: input, Context: context}, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func badRequest(msg string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Kind: KindInvalidRequest, Message: msg}
}

func payloadTooLarge(msg string) *RequestError {
	return &RequestError{Status: http.StatusRequestEntityTooLarge, Kind: KindPayloadTooLarge, Message: msg}
}
