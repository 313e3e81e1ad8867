// Package romi wires the simulated Romi drivetrain, its shares and the
// cooperative tasks into a runnable controller.
package romi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/romi.go/pkg/cotask"
	"github.com/robotalks/romi.go/pkg/drivers"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/share"
	"github.com/robotalks/romi.go/pkg/sim"
	"github.com/robotalks/romi.go/pkg/tasks/motor"
	"github.com/robotalks/romi.go/pkg/tasks/observer"
	"github.com/robotalks/romi.go/pkg/tasks/user"
	"github.com/robotalks/romi.go/pkg/telemetry"
	"github.com/robotalks/romi.go/pkg/transport"
	"github.com/robotalks/romi.go/pkg/tuning"
)

// Task priorities.
const (
	PriorityMotor     = 2
	PriorityObserver  = 1
	PriorityTelemetry = 1
	PriorityTuning    = 0
	PriorityUser      = 0
)

// TuningPeriod is how often tuning updates are polled.
const TuningPeriod = 100 * time.Millisecond

// Side is one motor with its encoder and task.
type Side struct {
	Driver  *drivers.MotorDriver
	Encoder *drivers.Encoder
	Task    *motor.Task

	Go       *share.Cell[bool]
	Setpoint *share.Cell[float64]
	Effort   *share.Cell[float64]
	Position *share.Cell[float64]
	Data     *share.Queue[float64]
	Times    *share.Queue[int64]
}

// Robot is an assembled controller.
type Robot struct {
	Config *Config
	Clock  fx.TimeSource

	Sim       *sim.Robot
	Left      Side
	Right     Side
	Line      *drivers.LineSensor
	Shares    *share.Registry
	Scheduler *cotask.Scheduler

	Gain     *share.Cell[float64]
	LineGain *share.Cell[float64]
	Follow   *share.Cell[bool]
	Psi      *share.Cell[float64]
	PsiDot   *share.Cell[float64]
	Estimate []*share.Cell[float64]

	User      *user.Task
	Observer  *observer.Task
	Tuning    *tuning.Task
	Telemetry *telemetry.Task

	Console transport.Transport

	runnables []fx.Runnable
	link      *telemetry.Link
}

// NewRobot assembles a Robot on a simulated drivetrain.
func (c *Config) NewRobot(clock fx.TimeSource, console transport.Transport) (*Robot, error) {
	if clock == nil {
		clock = fx.SystemClock{}
	}
	if console == nil {
		return nil, fx.Misconfigured("robot", "no console")
	}
	measure, ok := motor.ParseMeasure(c.Measure)
	if !ok {
		return nil, fx.Misconfigured("robot", fmt.Sprintf("unknown measure %q", c.Measure))
	}
	faultPolicy, ok := cotask.ParseFaultPolicy(c.FaultPolicy)
	if !ok {
		return nil, fx.Misconfigured("robot", fmt.Sprintf("unknown fault policy %q", c.FaultPolicy))
	}
	overrunPolicy, ok := cotask.ParseOverrunPolicy(c.OverrunPolicy)
	if !ok {
		return nil, fx.Misconfigured("robot", fmt.Sprintf("unknown overrun policy %q", c.OverrunPolicy))
	}
	if c.QueueSize <= 0 {
		return nil, fx.Misconfigured("robot", "sample queue size must be positive")
	}

	r := &Robot{
		Config:    c,
		Clock:     clock,
		Sim:       sim.NewRobot(clock, sim.DefaultConfig()),
		Shares:    &share.Registry{},
		Scheduler: cotask.New(clock),
		Console:   console,
	}
	r.Scheduler.FaultPolicy = faultPolicy
	r.Scheduler.OverrunPolicy = overrunPolicy

	r.Gain = share.RegisterCell(r.Shares, "gain", c.Gain)
	r.LineGain = share.RegisterCell(r.Shares, "kp_line", c.LineGain)
	r.Follow = share.RegisterCell(r.Shares, "follow", false)
	r.Psi = share.RegisterCell(r.Shares, "psi", 0.0)
	r.PsiDot = share.RegisterCell(r.Shares, "psi_dot", 0.0)

	for _, s := range []struct {
		side  *Side
		name  string
		wheel *sim.Wheel
	}{
		{&r.Left, "left", r.Sim.Left},
		{&r.Right, "right", r.Sim.Right},
	} {
		if err := r.setupSide(s.side, s.name, s.wheel, measure); err != nil {
			return nil, err
		}
	}

	model, err := c.LoadModel()
	if err != nil {
		return nil, err
	}
	for _, name := range model.States {
		r.Estimate = append(r.Estimate, share.RegisterCell(r.Shares, "x_"+name, 0.0))
	}
	if len(r.Estimate) == 0 {
		n, _, _ := model.Dims()
		for i := 0; i < n; i++ {
			r.Estimate = append(r.Estimate, share.RegisterCell(r.Shares, fmt.Sprintf("x%d", i), 0.0))
		}
	}
	obsConfig := observer.Config{
		Model:  model,
		Inputs: []*share.Cell[float64]{r.Left.Effort, r.Right.Effort, r.Left.Position, r.Right.Position, r.Psi, r.PsiDot},
		Scale:  []float64{c.EffortScale, c.EffortScale, 1, 1, 1, 1},
		States: r.Estimate,
	}
	if c.ObserverReport {
		obsConfig.Transport = console
	}
	if r.Observer, err = observer.New(obsConfig); err != nil {
		return nil, err
	}

	userConfig := user.Config{
		Transport: console,
		Left:      user.Side{Go: r.Left.Go, Setpoint: r.Left.Setpoint, Data: r.Left.Data, Times: r.Left.Times},
		Right:     user.Side{Go: r.Right.Go, Setpoint: r.Right.Setpoint, Data: r.Right.Data, Times: r.Right.Times},
		Gain:      r.Gain,
		Report:    r.WriteReport,
	}
	if c.LineFollow {
		r.Line = drivers.NewLineSensor(r.Sim.LineChannels(), drivers.RomiLineSpacing, drivers.RomiLineLimit)
		userConfig.Line = r.Line
		userConfig.Follow = r.Follow
		userConfig.LineGain = r.LineGain
	}
	if r.User, err = user.New(userConfig); err != nil {
		return nil, err
	}

	r.Scheduler.Add(
		cotask.NewTask("motor_left", PriorityMotor, c.MotorPeriod, r.Left.Task).WithProfile(true),
		cotask.NewTask("motor_right", PriorityMotor, c.MotorPeriod, r.Right.Task).WithProfile(true),
		cotask.NewTask("gyro", PriorityObserver, c.MotorPeriod, &gyroTask{source: r.Sim, psi: r.Psi, rate: r.PsiDot}),
		cotask.NewTask("observer", PriorityObserver, c.MotorPeriod, r.Observer),
	)

	if c.MQTTURL != "" {
		if err := r.setupTelemetry(); err != nil {
			return nil, err
		}
	}
	if c.TuningFile != "" {
		w := tuning.NewWatcher(c.TuningFile)
		r.Tuning = &tuning.Task{
			Updates:   w.Updates(),
			Gain:      r.Gain,
			Setpoints: []*share.Cell[float64]{r.Left.Setpoint, r.Right.Setpoint},
			LineGain:  r.LineGain,
		}
		r.Scheduler.Add(cotask.NewTask("tuning", PriorityTuning, TuningPeriod, r.Tuning))
		r.runnables = append(r.runnables, w)
	}
	r.Scheduler.Add(cotask.NewTask("user", PriorityUser, 0, r.User))
	if err := r.Scheduler.Start(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Robot) setupSide(s *Side, name string, wheel *sim.Wheel, measure motor.Measure) error {
	c := r.Config
	s.Driver = drivers.NewMotorDriver(name, wheel.PWM(), wheel.Dir(), wheel.Sleep())
	s.Encoder = drivers.NewEncoder(wheel.Counter(), r.Clock, sim.DefaultConfig().Wheel.CounterBits, drivers.RomiMillimetersPerCount)
	s.Go = share.RegisterCell(r.Shares, "go_"+name, false)
	s.Setpoint = share.RegisterCell(r.Shares, "setpoint_"+name, c.Setpoint)
	s.Effort = share.RegisterCell(r.Shares, "effort_"+name, 0.0)
	s.Position = share.RegisterCell(r.Shares, "position_"+name, 0.0)
	var err error
	if s.Data, err = share.RegisterQueue[float64](r.Shares, "data_"+name, c.QueueSize); err != nil {
		return err
	}
	if s.Times, err = share.RegisterQueue[int64](r.Shares, "time_"+name, c.QueueSize); err != nil {
		return err
	}
	law, err := c.NewLaw()
	if err != nil {
		return err
	}
	s.Task, err = motor.New(name, motor.Config{
		Motor:    s.Driver,
		Sensor:   s.Encoder,
		Law:      law,
		Measure:  measure,
		Go:       s.Go,
		Gain:     r.Gain,
		Setpoint: s.Setpoint,
		Follow:   r.Follow,
		Data:     s.Data,
		Times:    s.Times,
		Effort:   s.Effort,
		Position: s.Position,
	})
	return err
}

func (r *Robot) setupTelemetry() error {
	link, err := telemetry.NewLinkFromURL(r.Config.MQTTURL)
	if err != nil {
		return err
	}
	r.link = link
	id := telemetry.ControllerID()
	pub := telemetry.NewPublisher(link, telemetry.Topic(id), 4)
	cells := []*share.Cell[float64]{
		r.Gain, r.Left.Setpoint, r.Right.Setpoint,
		r.Left.Effort, r.Right.Effort, r.Left.Position, r.Right.Position,
		r.Psi, r.PsiDot,
	}
	r.Telemetry = &telemetry.Task{
		ControllerID: id,
		Scheduler:    r.Scheduler,
		Cells:        cells,
		Estimate:     r.Observer.Estimate,
		Out:          pub,
	}
	r.Scheduler.Add(cotask.NewTask("telemetry", PriorityTelemetry, r.Config.TelemetryInterval, r.Telemetry))
	r.runnables = append(r.runnables, fx.NamedRun("mqtt", fx.RunFunc(r.runLink)), pub)
	glog.Infof("telemetry on %s", r.Config.MQTTURL)
	return nil
}

func (r *Robot) runLink(ctx context.Context) error {
	if token := r.link.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("mqtt connect failed, telemetry disabled: %v", token.Error())
	}
	<-ctx.Done()
	r.link.Close()
	return ctx.Err()
}

// Name implements Named.
func (r *Robot) Name() string {
	return "romi"
}

// Runnables returns the background workers besides the scheduler.
func (r *Robot) Runnables() []fx.Runnable {
	return r.runnables
}

// Run implements Runnable. It runs the scheduler and the background
// workers until ctx is done or one of them stops, then shuts down.
func (r *Robot) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx).OnStopped(r.Shutdown)
	runner.Go(r.runnables...)
	runner.Go(fx.NamedRun("scheduler", r.Scheduler))
	return runner.Wait()
}

// Shutdown stops both motors and logs the shares and task report.
func (r *Robot) Shutdown() {
	for _, s := range []*Side{&r.Left, &r.Right} {
		s.Driver.SetEffort(0)
		s.Driver.Disable()
	}
	var buf bytes.Buffer
	if err := r.WriteReport(&buf); err != nil {
		glog.Errorf("report failed: %v", err)
	}
	glog.Infof("shutdown:\n%s", buf.String())
}

// WriteReport writes the task report followed by the share registry.
func (r *Robot) WriteReport(w io.Writer) error {
	if err := r.Scheduler.WriteReport(w); err != nil {
		return err
	}
	io.WriteString(w, "\n")
	_, err := r.Shares.WriteTo(w)
	return err
}
