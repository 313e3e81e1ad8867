package drivers

import (
	"math"

	"github.com/golang/glog"
)

// MaxEffort is the magnitude limit of SetEffort.
const MaxEffort = 100

// MotorDriver drives a DC motor through an H-bridge with a PWM input,
// a direction pin and an active low sleep pin.
type MotorDriver struct {
	Name string

	pwm     PWM
	dir     Pin
	sleep   Pin
	effort  float64
	enabled bool
}

// NewMotorDriver creates a MotorDriver in sleep mode with zero effort.
func NewMotorDriver(name string, pwm PWM, dir, sleep Pin) *MotorDriver {
	m := &MotorDriver{Name: name, pwm: pwm, dir: dir, sleep: sleep}
	pwm.SetPulseWidthPercent(0)
	dir.Set(false)
	sleep.Set(false)
	return m
}

// SetEffort implements Motor. The magnitude is clamped to MaxEffort and
// a negative effort drives the direction pin high.
func (m *MotorDriver) SetEffort(effort float64) {
	if math.IsNaN(effort) {
		effort = 0
	}
	effort = math.Max(-MaxEffort, math.Min(MaxEffort, effort))
	m.effort = effort
	m.pwm.SetPulseWidthPercent(math.Abs(effort))
	m.dir.Set(effort < 0)
}

// Effort returns the last effort applied, after clamping.
func (m *MotorDriver) Effort() float64 {
	return m.effort
}

// Enable implements Motor by taking the driver out of sleep.
func (m *MotorDriver) Enable() {
	m.sleep.Set(true)
	m.enabled = true
	glog.V(2).Infof("motor %s enabled", m.Name)
}

// Disable implements Motor by putting the driver to sleep.
func (m *MotorDriver) Disable() {
	m.sleep.Set(false)
	m.enabled = false
	glog.V(2).Infof("motor %s disabled", m.Name)
}

// Enabled tells whether the driver is awake.
func (m *MotorDriver) Enabled() bool {
	return m.enabled
}
