// Package motor implements the closed-loop motor task. Each batch runs
// the control law once per step and records (time, measurement) samples
// until the sample queue is full.
package motor

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/romi.go/pkg/cotask"
	"github.com/robotalks/romi.go/pkg/drivers"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/share"
)

// State of the motor task.
type State int

// States.
const (
	StateInit State = iota
	StateWait
	StateRun
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateWait:
		return "WAIT"
	case StateRun:
		return "RUN"
	}
	return "UNKNOWN"
}

// Measure selects what the control law regulates.
type Measure int

// Measures.
const (
	MeasureVelocity Measure = iota
	MeasurePosition
)

// ParseMeasure parses "velocity" or "position".
func ParseMeasure(s string) (Measure, bool) {
	switch s {
	case "velocity":
		return MeasureVelocity, true
	case "position":
		return MeasurePosition, true
	}
	return MeasureVelocity, false
}

// Config wires a Task to its collaborators.
type Config struct {
	Motor   drivers.Motor
	Sensor  drivers.PositionSensor
	Law     ControlLaw
	Measure Measure

	// Go starts a batch when set and is cleared when the batch ends.
	Go       *share.Cell[bool]
	Gain     *share.Cell[float64]
	Setpoint *share.Cell[float64]
	// Follow, when set, runs without recording samples until Go is
	// cleared by another task.
	Follow *share.Cell[bool]

	// Data receives the measurements and Times the elapsed
	// microseconds since the batch started.
	Data  *share.Queue[float64]
	Times *share.Queue[int64]

	// Effort and Position are optional outputs.
	Effort   *share.Cell[float64]
	Position *share.Cell[float64]
}

// Task is the motor control state machine.
type Task struct {
	Config

	state State
	start time.Time
}

// New validates config and creates a Task.
func New(name string, config Config) (*Task, error) {
	obj := "motor task " + name
	switch {
	case config.Motor == nil:
		return nil, fx.Misconfigured(obj, "no motor")
	case config.Sensor == nil:
		return nil, fx.Misconfigured(obj, "no position sensor")
	case config.Go == nil || config.Gain == nil || config.Setpoint == nil:
		return nil, fx.Misconfigured(obj, "missing go, gain or setpoint cell")
	case config.Data == nil || config.Times == nil:
		return nil, fx.Misconfigured(obj, "missing data or time queue")
	case config.Data.Cap() != config.Times.Cap():
		return nil, fx.Misconfigured(obj, "data and time queues differ in capacity")
	}
	if config.Law == nil {
		config.Law = Proportional{}
	}
	return &Task{Config: config}, nil
}

// State implements cotask.StateReporter.
func (t *Task) State() string {
	return t.state.String()
}

// Current returns the current state.
func (t *Task) Current() State {
	return t.state
}

// Step implements cotask.Machine.
func (t *Task) Step(sc cotask.StepContext) error {
	switch t.state {
	case StateInit:
		t.Sensor.Zero()
		t.Motor.SetEffort(0)
		t.Motor.Enable()
		t.state = StateWait

	case StateWait:
		t.Sensor.Update()
		t.publishPosition()
		if t.Go.Get() {
			// Elapsed times are relative to this step, not to the first
			// RUN step, so every sample includes one transition of skew.
			t.start = sc.Time()
			t.Law.Reset()
			t.Data.Clear()
			t.Times.Clear()
			t.state = StateRun
			glog.V(2).Infof("%s: batch started", sc.TaskName())
		}

	case StateRun:
		if !t.Go.Get() {
			t.stop(sc, "stopped")
			break
		}
		t.Sensor.Update()
		t.publishPosition()
		measured := t.measure()
		effort := t.Law.Effort(measured, t.Setpoint.Get(), t.Gain.Get())
		t.Motor.SetEffort(effort)
		if t.Effort != nil {
			t.Effort.Put(effort)
		}
		if t.Follow != nil && t.Follow.Get() {
			break
		}
		errData := t.Data.Put(measured)
		errTime := t.Times.Put(sc.Time().Sub(t.start).Microseconds())
		if errData != nil || errTime != nil || t.Data.Full() {
			t.Go.Put(false)
			t.stop(sc, "completed")
		}
	}
	return nil
}

func (t *Task) stop(sc cotask.StepContext, reason string) {
	t.Motor.SetEffort(0)
	if t.Effort != nil {
		t.Effort.Put(0)
	}
	t.state = StateWait
	glog.V(2).Infof("%s: batch %s with %d samples", sc.TaskName(), reason, t.Data.Len())
}

func (t *Task) measure() float64 {
	if t.Measure == MeasurePosition {
		return t.Sensor.Position()
	}
	return t.Sensor.Velocity()
}

func (t *Task) publishPosition() {
	if t.Position != nil {
		t.Position.Put(t.Sensor.Position())
	}
}
