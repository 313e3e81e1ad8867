package cotask

import (
	"fmt"
	"time"
)

// TaskFault wraps an error returned (or a panic raised) by a Machine.
type TaskFault struct {
	Task  string
	State string
	Err   error
}

// Error implements error.
func (e *TaskFault) Error() string {
	if e.State != "" {
		return fmt.Sprintf("task %q faulted in state %s: %v", e.Task, e.State, e.Err)
	}
	return fmt.Sprintf("task %q faulted: %v", e.Task, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskFault) Unwrap() error {
	return e.Err
}

// PanicError is a recovered panic from Machine.Step.
type PanicError struct {
	Value interface{}
	Stack []byte
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimingOverrunError reports a profiled step taking longer than its period.
type TimingOverrunError struct {
	Task     string
	Period   time.Duration
	Duration time.Duration
}

// Error implements error.
func (e *TimingOverrunError) Error() string {
	return fmt.Sprintf("task %q overran its period: took %v, period %v", e.Task, e.Duration, e.Period)
}
