package client

import (
	"context"
	"errors"
	"strings"

	"accesslens/internal/audit"
	"accesslens/internal/config"
)

// Form feedback copy: neutral and non-judgmental.
const (
	msgNoInput      = "No input provided for audit."
	msgTooBrief     = "Add a bit more detail to help identify potential accessibility issues."
	msgGenericFail  = "The audit failed. Please try again."
	msgRateLimited  = "Too many audits in a short time. Wait a minute and try again."
	msgInvalidInput = "Describe a screen or interface (for example: a login form with email and password fields)."
)

// userMessages maps server error kinds to user-facing copy. Unknown kinds
// fall back to the generic failure message.
var userMessages = map[string]string{
	KindNetworkError:            "Could not reach the audit service. Check your connection and try again.",
	KindTimeoutError:            "The audit timed out. Try again shortly.",
	audit.KindConfigError:       "The audit service is not configured. Try again later.",
	audit.KindValidationError:   msgInvalidInput,
	audit.KindInvalidRequest:    msgInvalidInput,
	audit.KindPayloadTooLarge:   "Your description is too long. Shorten it and try again.",
	audit.KindInvalidResponse:   "The audit service returned an unexpected response. Try again.",
	"rate_limit_error":          msgRateLimited,
	audit.KindRateLimited:       msgRateLimited,
	KindAPIError:                msgGenericFail,
}

// FormInput is the audit form payload: a screen description plus optional
// interface copy, concatenated into one input for the server.
type FormInput struct {
	UI      string
	Copy    string
	Context string
}

func (f FormInput) formatted() string {
	var parts []string
	if f.UI != "" {
		parts = append(parts, "UI Description:\n"+f.UI)
	}
	if f.Copy != "" {
		parts = append(parts, "UI Copy:\n"+f.Copy)
	}
	return strings.Join(parts, "\n\n")
}

// UserMessage translates any error from the client into display copy.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg, ok := userMessages[apiErr.Kind]; ok {
			return msg
		}
	}
	return msgGenericFail
}

// RunAudit formats the form input, calls the server, and normalizes whatever
// comes back. Always returns a well-formed Result; failures carry a mapped,
// user-facing Error string.
func (c *Client) RunAudit(ctx context.Context, in FormInput) audit.Result {
	formatted := strings.TrimSpace(in.formatted())
	if formatted == "" {
		return audit.Result{Issues: []audit.Issue{}, Error: msgNoInput}
	}
	// Stricter than the server's ceiling: short drafts get form feedback
	// before spending a request.
	if len(formatted) < config.MinClientInputChars {
		return audit.Result{Issues: []audit.Issue{}, Error: msgTooBrief}
	}

	c.Hooks.auditStarted(map[string]any{"input_chars": len(formatted)})

	var raw map[string]any
	err := c.postJSON(ctx, "/run-audit", audit.Request{Input: formatted, Context: in.Context}, &raw)
	if err != nil {
		c.Hooks.auditFailed(map[string]any{"error": errKind(err)})
		return audit.Result{Issues: []audit.Issue{}, Error: UserMessage(err)}
	}

	result := audit.Normalize(raw)
	if result.Error != "" {
		c.Hooks.auditFailed(map[string]any{"error": result.Error})
	}
	return result
}

func errKind(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return "unknown"
}
