package cotask

import (
	"context"
	"runtime/debug"
	"time"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

// StepContext is provided to a Machine for one step.
type StepContext interface {
	// Time returns the scheduler time at which the step was dispatched.
	fx.TimeSource
	// Context retrieves context.Context of the running scheduler.
	Context() context.Context
	// TaskName returns the name of the stepped Task.
	TaskName() string
}

// Machine is a cooperative state machine. Step performs one unit of work,
// typically one state transition, and must return without blocking.
type Machine interface {
	Step(StepContext) error
}

// StateReporter is optionally implemented by a Machine to expose its current
// state for diagnostics.
type StateReporter interface {
	State() string
}

// StepFunc is the func form of Machine.
type StepFunc func(StepContext) error

// Step implements Machine.
func (f StepFunc) Step(sc StepContext) error {
	return f(sc)
}

// Stats are the run statistics of a Task. Durations are only
// collected when the Task is profiled.
type Stats struct {
	Runs          int
	Faults        int
	LateRuns      int
	Overruns      int
	LastDuration  time.Duration
	MaxDuration   time.Duration
	TotalDuration time.Duration
}

// AvgDuration returns the mean profiled step duration.
func (s Stats) AvgDuration() time.Duration {
	if s.Runs == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Runs)
}

// Task is a Machine with scheduling attributes.
type Task struct {
	// Name identifies the task in logs and reports.
	Name string
	// Priority orders ready tasks: the numerically highest runs first,
	// ties go to the task added first.
	Priority int
	// Period is the interval between deadlines. Zero makes the task
	// aperiodic: it is eligible on every pass once no periodic task is ready.
	Period time.Duration
	// Profile enables step duration statistics and overrun detection.
	Profile bool

	Machine Machine

	order    int
	deadline time.Time
	disabled bool
	stats    Stats
}

// NewTask creates a Task.
func NewTask(name string, priority int, period time.Duration, m Machine) *Task {
	return &Task{Name: name, Priority: priority, Period: period, Machine: m}
}

// WithProfile enables or disables profiling.
func (t *Task) WithProfile(en bool) *Task {
	t.Profile = en
	return t
}

// Periodic indicates the task is gated by deadlines.
func (t *Task) Periodic() bool {
	return t.Period > 0
}

// Deadline returns the next time a periodic task becomes ready.
func (t *Task) Deadline() time.Time {
	return t.deadline
}

// Disabled indicates the task was isolated after a fault.
func (t *Task) Disabled() bool {
	return t.disabled
}

// Stats returns a copy of the run statistics.
func (t *Task) Stats() Stats {
	return t.stats
}

// State returns the state reported by the Machine, if any.
func (t *Task) State() string {
	if r, ok := t.Machine.(StateReporter); ok {
		return r.State()
	}
	return ""
}

// ready tells whether a periodic task's deadline has arrived.
func (t *Task) ready(now time.Time) bool {
	return !t.disabled && t.Periodic() && !t.deadline.After(now)
}

// Step resumes the Machine exactly once. A panic is recovered into a *PanicError.
func (t *Task) Step(sc StepContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return t.Machine.Step(sc)
}

type stepContext struct {
	ctx  context.Context
	now  time.Time
	name string
}

// NewStepContext creates a StepContext outside a Scheduler, for driving a
// Machine directly.
func NewStepContext(ctx context.Context, now time.Time, name string) StepContext {
	return &stepContext{ctx: ctx, now: now, name: name}
}

func (c *stepContext) Time() time.Time          { return c.now }
func (c *stepContext) Context() context.Context { return c.ctx }
func (c *stepContext) TaskName() string         { return c.name }
