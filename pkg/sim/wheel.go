package sim

import (
	"math"
)

// WheelConfig parameterizes a motor and wheel plant.
type WheelConfig struct {
	// MaxSpeed is the steady state wheel speed at full effort, in mm/s.
	MaxSpeed float64
	// TimeConstant of the first-order response.
	TimeConstant float64
	// CountsPerMM is the encoder resolution at the wheel.
	CountsPerMM float64
	// CounterBits is the width of the hardware counter.
	CounterBits uint
}

// Wheel is a DC motor plant. It implements the PWM, direction pin, sleep
// pin and counter capabilities a motor driver and an encoder need.
type Wheel struct {
	config WheelConfig
	robot  *Robot

	duty   float64
	rev    bool
	awake  bool
	speed  float64
	counts float64
	base   float64
}

func newWheel(r *Robot, config WheelConfig) *Wheel {
	return &Wheel{robot: r, config: config}
}

// Speed returns the wheel speed in mm/s.
func (w *Wheel) Speed() float64 {
	w.robot.advance()
	return w.speed
}

// Distance returns the travel since start in mm.
func (w *Wheel) Distance() float64 {
	w.robot.advance()
	return w.counts / w.config.CountsPerMM
}

func (w *Wheel) target() float64 {
	if !w.awake {
		return 0
	}
	v := w.config.MaxSpeed * w.duty / 100
	if w.rev {
		return -v
	}
	return v
}

// step integrates the exact first-order response over dt seconds and
// returns the distance travelled.
func (w *Wheel) step(dt float64) float64 {
	target := w.target()
	v0 := w.speed
	if w.config.TimeConstant <= 0 {
		w.speed = target
		w.counts += target * dt * w.config.CountsPerMM
		return target * dt
	}
	decay := math.Exp(-dt / w.config.TimeConstant)
	w.speed = target + (v0-target)*decay
	dist := target*dt + (v0-target)*w.config.TimeConstant*(1-decay)
	w.counts += dist * w.config.CountsPerMM
	return dist
}

// PWM returns the pulse width input.
func (w *Wheel) PWM() *WheelPWM { return (*WheelPWM)(w) }

// Dir returns the direction pin.
func (w *Wheel) Dir() *WheelPin { return &WheelPin{wheel: w, dir: true} }

// Sleep returns the active low sleep pin.
func (w *Wheel) Sleep() *WheelPin { return &WheelPin{wheel: w} }

// Counter returns the encoder counter.
func (w *Wheel) Counter() *WheelCounter { return (*WheelCounter)(w) }

// WheelPWM is the PWM input of a Wheel.
type WheelPWM Wheel

// SetPulseWidthPercent implements drivers.PWM.
func (p *WheelPWM) SetPulseWidthPercent(pct float64) {
	p.robot.advance()
	p.duty = math.Max(0, math.Min(100, pct))
}

// WheelPin is a digital input of a Wheel.
type WheelPin struct {
	wheel *Wheel
	dir   bool
}

// Set implements drivers.Pin.
func (p *WheelPin) Set(high bool) {
	p.wheel.robot.advance()
	if p.dir {
		p.wheel.rev = high
	} else {
		p.wheel.awake = high
	}
}

// WheelCounter is the quadrature counter of a Wheel.
type WheelCounter Wheel

// Count implements drivers.Counter.
func (c *WheelCounter) Count() uint32 {
	c.robot.advance()
	mask := uint64(1)<<c.config.CounterBits - 1
	n := int64(math.Floor(c.counts - c.base))
	return uint32(uint64(n) & mask)
}

// SetCount implements drivers.Counter.
func (c *WheelCounter) SetCount(v uint32) {
	c.robot.advance()
	c.base = math.Floor(c.counts) - float64(v)
}
