package drivers

import (
	"math"
	"time"

	fx "github.com/robotalks/romi.go/pkg/framework"
)

// Romi drivetrain constants.
const (
	RomiCountsPerMotorRev = 12
	RomiGearRatio         = 119.76
	RomiWheelRadius       = 35.0 // mm
	RomiTrackWidth        = 149.0
)

// RomiMillimetersPerCount converts encoder counts into wheel travel.
var RomiMillimetersPerCount = RomiWheelRadius * 2 * math.Pi / (RomiCountsPerMotorRev * RomiGearRatio)

// WrapDelta returns cur-prev for a counter of the given bit width,
// choosing the direction of smaller magnitude across a reload.
func WrapDelta(prev, cur uint32, bits uint) int64 {
	span := int64(1) << bits
	mask := span - 1
	d := (int64(cur) - int64(prev)) & mask
	if d >= span/2 {
		d -= span
	}
	return d
}

// Encoder accumulates position from a wrapping Counter.
type Encoder struct {
	counter Counter
	clock   fx.TimeSource
	bits    uint
	scale   float64

	position  float64
	delta     float64
	dt        time.Duration
	prevCount uint32
	prevTime  time.Time
}

// NewEncoder creates an Encoder over a counter of bits width. Position and
// velocity are scaled by scale per count.
func NewEncoder(counter Counter, clock fx.TimeSource, bits uint, scale float64) *Encoder {
	if clock == nil {
		clock = fx.SystemClock{}
	}
	return &Encoder{
		counter:   counter,
		clock:     clock,
		bits:      bits,
		scale:     scale,
		prevCount: counter.Count(),
		prevTime:  clock.Time(),
	}
}

// Update samples the counter once.
func (e *Encoder) Update() {
	cur := e.counter.Count()
	now := e.clock.Time()
	e.delta = float64(WrapDelta(e.prevCount, cur, e.bits)) * e.scale
	e.position += e.delta
	e.prevCount = cur
	e.dt = now.Sub(e.prevTime)
	e.prevTime = now
}

// Position returns the accumulated position.
func (e *Encoder) Position() float64 {
	return e.position
}

// Delta returns the position change of the last Update.
func (e *Encoder) Delta() float64 {
	return e.delta
}

// Velocity returns the position change rate per second over the last
// Update, or zero if no time elapsed.
func (e *Encoder) Velocity() float64 {
	if e.dt <= 0 {
		return 0
	}
	return e.delta / e.dt.Seconds()
}

// Zero resets the datum to the present position.
func (e *Encoder) Zero() {
	e.position = 0
	e.delta = 0
	e.prevCount = 0
	e.counter.SetCount(0)
	e.prevTime = e.clock.Time()
}
