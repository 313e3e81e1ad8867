package motor

import "github.com/robotalks/romi.go/pkg/drivers"

// ControlLaw maps a measurement to an actuator effort. Setpoint and gain
// are passed on every call so they can be tuned while a batch runs.
type ControlLaw interface {
	Effort(measured, setpoint, gain float64) float64
	// Reset clears internal state at the start of a batch.
	Reset()
}

// BangBang drives at full effort toward the setpoint.
type BangBang struct{}

// Effort implements ControlLaw.
func (BangBang) Effort(measured, setpoint, gain float64) float64 {
	if measured < setpoint {
		return drivers.MaxEffort
	}
	return -drivers.MaxEffort
}

// Reset implements ControlLaw.
func (BangBang) Reset() {}

// Proportional is effort = gain·(setpoint − measured).
type Proportional struct{}

// Effort implements ControlLaw.
func (Proportional) Effort(measured, setpoint, gain float64) float64 {
	return gain * (setpoint - measured)
}

// Reset implements ControlLaw.
func (Proportional) Reset() {}

// PI adds an integral term with gain Ki to Proportional. The integral is
// clamped so that Ki·integral stays within the effort range.
type PI struct {
	Ki float64
	// Dt is the sample interval in seconds, normally the task period.
	Dt float64

	integral float64
}

// Effort implements ControlLaw.
func (c *PI) Effort(measured, setpoint, gain float64) float64 {
	e := setpoint - measured
	c.integral += e * c.Dt
	if c.Ki != 0 {
		limit := drivers.MaxEffort / abs(c.Ki)
		if c.integral > limit {
			c.integral = limit
		} else if c.integral < -limit {
			c.integral = -limit
		}
	}
	return gain*e + c.Ki*c.integral
}

// Reset implements ControlLaw.
func (c *PI) Reset() {
	c.integral = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
