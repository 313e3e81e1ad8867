package cotask

import (
	"context"
	"sort"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

// FaultPolicy decides what happens when a Machine returns an error.
type FaultPolicy int

// Fault policies.
const (
	// FaultHalt stops scheduling and returns the *TaskFault.
	FaultHalt FaultPolicy = iota
	// FaultIsolate disables the faulted task and keeps the others running.
	FaultIsolate
)

func (p FaultPolicy) String() string {
	if p == FaultIsolate {
		return "isolate"
	}
	return "halt"
}

// ParseFaultPolicy parses "halt" or "isolate".
func ParseFaultPolicy(s string) (FaultPolicy, bool) {
	switch s {
	case "halt":
		return FaultHalt, true
	case "isolate":
		return FaultIsolate, true
	}
	return FaultHalt, false
}

// OverrunPolicy decides what happens when a profiled step outlasts its period.
type OverrunPolicy int

// Overrun policies.
const (
	// OverrunLog records the overrun in Stats and logs a warning.
	OverrunLog OverrunPolicy = iota
	// OverrunHalt stops scheduling and returns the *TimingOverrunError.
	OverrunHalt
)

func (p OverrunPolicy) String() string {
	if p == OverrunHalt {
		return "halt"
	}
	return "log"
}

// ParseOverrunPolicy parses "log" or "halt".
func ParseOverrunPolicy(s string) (OverrunPolicy, bool) {
	switch s {
	case "log":
		return OverrunLog, true
	case "halt":
		return OverrunHalt, true
	}
	return OverrunLog, false
}

// DefaultPollInterval is the idle time between passes when aperiodic
// tasks are present.
const DefaultPollInterval = time.Millisecond

// Scheduler dispatches a fixed set of Tasks cooperatively on the calling
// goroutine.
type Scheduler struct {
	Clock         fx.TimeSource
	FaultPolicy   FaultPolicy
	OverrunPolicy OverrunPolicy
	PollInterval  time.Duration

	tasks     []*Task
	periodic  []*Task
	aperiodic []*Task
	started   bool
	startTime time.Time
	passes    int
}

// New creates a Scheduler. A nil clock means the system clock.
func New(clock fx.TimeSource) *Scheduler {
	if clock == nil {
		clock = fx.SystemClock{}
	}
	return &Scheduler{Clock: clock, PollInterval: DefaultPollInterval}
}

// Add appends tasks in declaration order. The task set is fixed once
// the scheduler started, so Add panics after Start.
func (s *Scheduler) Add(tasks ...*Task) *Scheduler {
	if s.started {
		panic("cotask: Add after Start")
	}
	for _, t := range tasks {
		t.order = len(s.tasks)
		s.tasks = append(s.tasks, t)
	}
	return s
}

// Tasks returns the tasks in declaration order.
func (s *Scheduler) Tasks() []*Task {
	return s.tasks
}

// Task finds a task by name.
func (s *Scheduler) Task(name string) *Task {
	for _, t := range s.tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Passes returns the number of completed or attempted passes.
func (s *Scheduler) Passes() int {
	return s.passes
}

// StartTime returns the time deadlines are accumulated from.
func (s *Scheduler) StartTime() time.Time {
	return s.startTime
}

// Start validates the task set and sets the first deadline of every
// periodic task to start+Period. Calling Start again is a no-op.
func (s *Scheduler) Start() error {
	if s.started {
		return nil
	}
	if len(s.tasks) == 0 {
		return fx.Misconfigured("scheduler", "no tasks")
	}
	names := make(map[string]bool)
	for _, t := range s.tasks {
		switch {
		case t.Name == "":
			return fx.Misconfigured("task", "empty name")
		case names[t.Name]:
			return fx.Misconfigured("task "+t.Name, "duplicated name")
		case t.Priority < 0:
			return fx.Misconfigured("task "+t.Name, "negative priority")
		case t.Period < 0:
			return fx.Misconfigured("task "+t.Name, "negative period")
		case t.Machine == nil:
			return fx.Misconfigured("task "+t.Name, "nil machine")
		}
		names[t.Name] = true
	}

	dispatch := make([]*Task, len(s.tasks))
	copy(dispatch, s.tasks)
	sort.SliceStable(dispatch, func(i, j int) bool {
		return dispatch[i].Priority > dispatch[j].Priority
	})
	s.startTime = s.Clock.Time()
	for _, t := range dispatch {
		if t.Periodic() {
			t.deadline = s.startTime.Add(t.Period)
			s.periodic = append(s.periodic, t)
		} else {
			s.aperiodic = append(s.aperiodic, t)
		}
	}
	s.started = true
	glog.V(2).Infof("scheduler started with %d periodic and %d aperiodic tasks",
		len(s.periodic), len(s.aperiodic))
	return nil
}

// NextDeadline returns the earliest deadline among enabled periodic tasks.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range s.periodic {
		if t.disabled {
			continue
		}
		if !found || t.deadline.Before(next) {
			next, found = t.deadline, true
		}
	}
	return next, found
}

// RunPass runs one scheduling pass: every ready periodic task is stepped,
// highest priority first, until none is ready; each enabled aperiodic
// task then steps once, in priority order, and only while no periodic
// task is ready. A periodic task late by several periods is stepped
// once per missed deadline within the same pass.
func (s *Scheduler) RunPass(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	s.passes++
	if err := s.drainPeriodic(ctx); err != nil {
		return err
	}
	for _, t := range s.aperiodic {
		if t.disabled {
			continue
		}
		if err := s.run(ctx, t); err != nil {
			return err
		}
		if err := s.drainPeriodic(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) drainPeriodic(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := s.selectReady(s.Clock.Time())
		if t == nil {
			return nil
		}
		if err := s.run(ctx, t); err != nil {
			return err
		}
	}
}

// selectReady relies on s.periodic being sorted by priority then
// declaration order.
func (s *Scheduler) selectReady(now time.Time) *Task {
	for _, t := range s.periodic {
		if t.ready(now) {
			return t
		}
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context, t *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.Clock.Time()
	if t.Periodic() {
		if now.Sub(t.deadline) >= t.Period {
			t.stats.LateRuns++
			glog.V(3).Infof("task %s late by %v", t.Name, now.Sub(t.deadline))
		}
		t.deadline = t.deadline.Add(t.Period)
	}

	err := t.Step(&stepContext{ctx: ctx, now: now, name: t.Name})
	t.stats.Runs++

	if err != nil {
		t.stats.Faults++
		fault := &TaskFault{Task: t.Name, State: t.State(), Err: err}
		if pe, ok := err.(*PanicError); ok {
			glog.Errorf("%v\n%s", fault, pe.Stack)
		}
		if s.FaultPolicy != FaultIsolate {
			return fault
		}
		t.disabled = true
		glog.Errorf("%v: task disabled", fault)
		return nil
	}

	if t.Profile {
		d := s.Clock.Time().Sub(now)
		t.stats.LastDuration = d
		t.stats.TotalDuration += d
		if d > t.stats.MaxDuration {
			t.stats.MaxDuration = d
		}
		if t.Periodic() && d > t.Period {
			t.stats.Overruns++
			overrun := &TimingOverrunError{Task: t.Name, Period: t.Period, Duration: d}
			if s.OverrunPolicy == OverrunHalt {
				return overrun
			}
			glog.Warning(overrun)
		}
	}
	return nil
}

// Run loops passes until ctx is done or a pass fails. Between passes it
// idles until the earliest deadline, or at most PollInterval while any
// aperiodic task is enabled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		if err := s.RunPass(ctx); err != nil {
			return err
		}
		wait, ok := s.idleTime()
		if ok && wait <= 0 {
			continue
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		var timeout <-chan time.Time
		if ok {
			timer.Reset(wait)
			timeout = timer.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
		}
	}
}

// idleTime returns false when no task is enabled any more.
func (s *Scheduler) idleTime() (time.Duration, bool) {
	wait := time.Duration(-1)
	if next, ok := s.NextDeadline(); ok {
		wait = next.Sub(s.Clock.Time())
		if wait < 0 {
			wait = 0
		}
	}
	for _, t := range s.aperiodic {
		if !t.disabled {
			if wait < 0 || wait > s.PollInterval {
				wait = s.PollInterval
			}
			break
		}
	}
	return wait, wait >= 0
}
