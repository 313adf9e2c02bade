package spec

import "fmt"

// ValidationError represents a document-level validation error.
// These errors occur when a spec file or Config violates structural
// requirements (e.g. missing required fields, unsupported version).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// TokenError represents an error specific to an individual token
// table entry (e.g. unbalanced field markers, duplicate token,
// missing fields).
type TokenError struct {
	Index   int    // 0-based index in a spec file; -1 when built from a Config
	Token   string // Placeholder token (may be empty if the token field is missing)
	Field   string
	Message string
	Cause   error // Underlying error (e.g. marker balance error)
}

func (e *TokenError) Error() string {
	var msg string
	if e.Token != "" {
		msg = fmt.Sprintf("token %q: %s: %s", e.Token, e.Field, e.Message)
	} else {
		msg = fmt.Sprintf("token[%d]: %s: %s", e.Index, e.Field, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
// This enables errors.Is() and errors.As() to work with TokenError.
func (e *TokenError) Unwrap() error {
	return e.Cause
}
