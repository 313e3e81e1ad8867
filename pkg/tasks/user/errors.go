package user

import "fmt"

// InputParseError is a numeric entry that could not be parsed. It never
// leaves the task: the value is left unchanged and the user is told so.
type InputParseError struct {
	Input string
	Err   error
}

// Error implements error.
func (e *InputParseError) Error() string {
	return fmt.Sprintf("invalid number %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying error.
func (e *InputParseError) Unwrap() error {
	return e.Err
}
