package framework

import "strings"

// AggregatedError aggregates multiple errors, e.g. from several
// Runnables stopped together or several collaborators shut down in a row.
type AggregatedError struct {
	Errors []error
}

// Error implements error
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	msg := make([]string, 0, len(e.Errors)+1)
	msg = append(msg, "Multiple errors:")
	for _, err := range e.Errors {
		msg = append(msg, "  "+err.Error())
	}
	return strings.Join(msg, "\n")
}

// Add adds errors to be aggregated. nil will be skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns aggregated error if any error happened.
// A single error is returned as is.
func (e *AggregatedError) Aggregate() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}

// ConfigurationError reports an invalid setup detected while wiring:
// bad capacities, dimension mismatches, missing collaborators.
// It is fatal at initialization and never recovered.
type ConfigurationError struct {
	Object string
	Reason string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Object + ": " + e.Reason
}

// Misconfigured creates a ConfigurationError.
func Misconfigured(object, reason string) *ConfigurationError {
	return &ConfigurationError{Object: object, Reason: reason}
}
