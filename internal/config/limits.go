package config

const (
	// MaxFieldChars caps the input and context fields of an audit request.
	MaxFieldChars = 2000

	// MaxBodyBytes caps the whole request body, well above MaxFieldChars so
	// field-level checks produce the user-facing message.
	MaxBodyBytes = 64 << 10

	// MinClientInputChars is the client-side minimum description length,
	// stricter than the server for form UX.
	MinClientInputChars = 20
)
