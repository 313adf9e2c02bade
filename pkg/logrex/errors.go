package logrex

import "fmt"

// CompileError reports that the assembled pattern was rejected by the
// regexp engine, e.g. because a hook introduced invalid syntax. Source
// names the offending pattern text.
type CompileError struct {
	Source string
	Cause  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile pattern %q: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying regexp error.
// This enables errors.Is() and errors.As() to work with CompileError.
func (e *CompileError) Unwrap() error {
	return e.Cause
}
