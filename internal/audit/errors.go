package audit

import "fmt"

// Error kinds returned in {error, message} bodies. Clients map these to
// user-facing copy; raw provider errors never pass through verbatim.
const (
	KindInvalidRequest   = "invalid_request_format"
	KindValidationError  = "validation_error"
	KindPayloadTooLarge  = "payload_too_large"
	KindMethodNotAllowed = "method_not_allowed"
	KindRateLimited      = "rate_limit_exceeded"
	KindConfigError      = "config_error"
	KindInvalidResponse  = "invalid_response"
	KindAuditFailed      = "audit_failed"
	KindServerError      = "server_error"
)

// RequestError classifies a rejected payload before any external call.
type RequestError struct {
	Status  int
	Kind    string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
