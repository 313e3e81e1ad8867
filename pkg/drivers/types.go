// Package drivers adapts raw hardware capabilities (PWM outputs, digital
// pins, timer counters and ADC channels) into the devices the control
// tasks consume.
package drivers

// Pin is a digital output.
type Pin interface {
	Set(high bool)
}

// PWM is a pulse width modulated output.
type PWM interface {
	SetPulseWidthPercent(pct float64)
}

// Counter is a free running hardware counter, e.g. a timer in
// quadrature encoder mode.
type Counter interface {
	Count() uint32
	SetCount(uint32)
}

// ADC is one analog input channel.
type ADC interface {
	Read() int
}

// Motor is the actuator consumed by the motor task.
type Motor interface {
	// SetEffort sets a signed effort in percent.
	SetEffort(effort float64)
	Enable()
	Disable()
}

// PositionSensor is the encoder consumed by the motor task.
type PositionSensor interface {
	Update()
	Position() float64
	Velocity() float64
	Zero()
}

// LinePositionSensor is the line sensor consumed by the user task.
type LinePositionSensor interface {
	CalibrateWhite() []float64
	CalibrateBlack() []float64
	Centroid() float64
}
